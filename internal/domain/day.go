package domain

import (
	"fmt"
	"time"
)

// minRainAxis is the smallest rainfall axis shown, in mm.
const minRainAxis = 10

// DayRecord is one calendar day of the normalized forecast.
type DayRecord struct {
	Day          string         `json:"day"`
	Rainfall     []RangedSample `json:"rainfall"`
	Sunshine     []SampleValue  `json:"sunshine"`
	Temperature  []RangedSample `json:"temperature"`
	Icons        []IconSample   `json:"icons"`
	Wind         []WindSample   `json:"wind"`
	WindGustPeak []SampleValue  `json:"wind_gust_peak"`
	TempMin      int            `json:"temp_min"`
	TempMax      int            `json:"temp_max"`
	RainMax      int            `json:"rain_max"`
}

// Forecast is the ordered list of days; index 0 is today.
type Forecast []DayRecord

// BuildOptions carries the inputs that are not part of the payload.
type BuildOptions struct {
	// IconBasePath is prefixed to every resolved icon file.
	IconBasePath string
	// Location is the zone hours of day are expressed in. Nil means time.Local.
	Location *time.Location
}

// BuildForecast normalizes every raw day. Any error aborts the whole build;
// no partial forecast is returned.
func BuildForecast(days []RawDay, opts BuildOptions) (Forecast, error) {
	fc := make(Forecast, 0, len(days))
	for i := range days {
		var next *RawDay
		if i+1 < len(days) {
			next = &days[i+1]
		}
		day, err := BuildDay(days[i], next, opts)
		if err != nil {
			return nil, fmt.Errorf("day %d (%s): %w", i, days[i].DayString, err)
		}
		fc = append(fc, day)
	}
	return fc, nil
}

// BuildDay normalizes one raw day. When next is non-nil, the first rainfall,
// sunshine and temperature entries of next are appended at hour+24.
func BuildDay(raw RawDay, next *RawDay, opts BuildOptions) (DayRecord, error) {
	loc := opts.Location

	rainfall, err := alignRanged(raw.Rainfall, raw.VarianceRain, loc)
	if err != nil {
		return DayRecord{}, err
	}
	sunshine, err := alignDirect(raw.Sunshine, loc)
	if err != nil {
		return DayRecord{}, err
	}
	temperature, err := alignRanged(raw.Temperature, raw.VarianceRange, loc)
	if err != nil {
		return DayRecord{}, err
	}
	wind, err := alignWind(raw.Wind, loc)
	if err != nil {
		return DayRecord{}, err
	}
	gusts, err := alignDirect(raw.WindGustPeak.Data, loc)
	if err != nil {
		return DayRecord{}, err
	}

	day := DayRecord{
		Day:          raw.DayString,
		Rainfall:     rainfall,
		Sunshine:     sunshine,
		Temperature:  temperature,
		Icons:        resolveIcons(raw.Symbols, opts.IconBasePath, loc),
		Wind:         wind,
		WindGustPeak: gusts,
	}

	if next != nil {
		if err := appendBleedOver(&day, next, loc); err != nil {
			return DayRecord{}, err
		}
	}

	day.TempMin, day.TempMax = temperatureBounds(day.Temperature)
	day.RainMax = rainBound(day.Rainfall)
	return day, nil
}

func appendBleedOver(day *DayRecord, next *RawDay, loc *time.Location) error {
	if len(next.Rainfall) == 0 || len(next.VarianceRain) == 0 {
		return buildErr(ErrEmptySeries, "Next day has no rainfall to carry over!")
	}
	if len(next.Sunshine) == 0 {
		return buildErr(ErrEmptySeries, "Next day has no sunshine to carry over!")
	}
	if len(next.Temperature) == 0 || len(next.VarianceRange) == 0 {
		return buildErr(ErrEmptySeries, "Next day has no temperature to carry over!")
	}

	rain, err := newRangedSample(next.Rainfall[0], next.VarianceRain[0], loc)
	if err != nil {
		return err
	}
	sun, err := newSampleValue(next.Sunshine[0], loc)
	if err != nil {
		return err
	}
	temp, err := newRangedSample(next.Temperature[0], next.VarianceRange[0], loc)
	if err != nil {
		return err
	}

	rain.Time += 24
	sun.Time += 24
	temp.Time += 24
	day.Rainfall = append(day.Rainfall, rain)
	day.Sunshine = append(day.Sunshine, sun)
	day.Temperature = append(day.Temperature, temp)
	return nil
}

// temperatureBounds returns the padded axis bounds over all lows and highs.
// The low is truncated and pushed down one more unless at least half a unit
// above the truncation; the high is rounded up and pushed up one more unless
// at least half a unit below it.
func temperatureBounds(temps []RangedSample) (lo, hi int) {
	minLow, maxHigh := 1000.0, -1000.0
	for _, t := range temps {
		if t.Low < minLow {
			minLow = t.Low
		}
		if t.High > maxHigh {
			maxHigh = t.High
		}
	}

	lo = int(minLow)
	if minLow-float64(lo) < 0.5 {
		lo--
	}
	hi = int(maxHigh + 0.999)
	if float64(hi)-maxHigh < 0.5 {
		hi++
	}
	return lo, hi
}

// rainBound rounds the largest rainfall high up, adds a unit of headroom and
// clamps to minRainAxis.
func rainBound(rain []RangedSample) int {
	maxHigh := 0.0
	for _, r := range rain {
		if r.High > maxHigh {
			maxHigh = r.High
		}
	}

	hi := int(maxHigh + 0.999)
	if float64(hi)-maxHigh < 1.0 {
		hi++
	}
	if hi < minRainAxis {
		hi = minRainAxis
	}
	return hi
}
