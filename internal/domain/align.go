package domain

import (
	"fmt"
	"time"
)

// newSampleValue reads a [timestamp, value] pair.
func newSampleValue(pair []Cell, loc *time.Location) (SampleValue, error) {
	if len(pair) != 2 {
		return SampleValue{}, buildErr(ErrShape, "ForecastValue requires a vector with 2 elements!")
	}
	ts, err := pair[0].Int()
	if err != nil {
		return SampleValue{}, err
	}
	return SampleValue{
		Time:  HourOfDay(ts, loc),
		Value: pair[1].Float(),
	}, nil
}

// newRangedSample joins a [timestamp, value] pair with its [timestamp, low, high] triple.
func newRangedSample(value, rng []Cell, loc *time.Location) (RangedSample, error) {
	if len(value) != 2 {
		return RangedSample{}, buildErr(ErrShape, "ForecastValue requires a vector with 2 elements!")
	}
	if len(rng) != 3 {
		return RangedSample{}, buildErr(ErrShape, "ForecastRange requires a vector with 3 elements!")
	}
	ts, err := value[0].Int()
	if err != nil {
		return RangedSample{}, err
	}
	rts, err := rng[0].Int()
	if err != nil {
		return RangedSample{}, err
	}
	if ts != rts {
		return RangedSample{}, buildErr(ErrAlignment, "Time of range-value pair does not match!")
	}
	return RangedSample{
		Time:  HourOfDay(ts, loc),
		Value: value[1].Float(),
		Low:   rng[1].Float(),
		High:  rng[2].Float(),
	}, nil
}

// alignRanged pairs values[i] with ranges[i]; the output has len(values) samples.
func alignRanged(values, ranges [][]Cell, loc *time.Location) ([]RangedSample, error) {
	if len(values) != len(ranges) {
		return nil, buildErr(ErrShape, "Value and range series differ in length!")
	}
	out := make([]RangedSample, 0, len(values))
	for i := range values {
		s, err := newRangedSample(values[i], ranges[i], loc)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// alignDirect converts a [timestamp, value] series with no auxiliary series.
func alignDirect(entries [][]Cell, loc *time.Location) ([]SampleValue, error) {
	out := make([]SampleValue, 0, len(entries))
	for _, e := range entries {
		s, err := newSampleValue(e, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// alignWind walks the strength series and carries the most recent direction
// symbol whose timestamp is at or before each measurement.
func alignWind(w RawWind, loc *time.Location) ([]WindSample, error) {
	if len(w.Symbols) == 0 {
		return nil, buildErr(ErrEmptySeries, "At least one wind symbol must exist")
	}
	if len(w.Data) == 0 {
		return nil, buildErr(ErrEmptySeries, "No values received for the wind!")
	}
	first := w.Data[0]
	if len(first) != 2 {
		return nil, buildErr(ErrAlignment, "The first symbol and the first measurement of wind does not match!")
	}
	firstTS, err := first[0].Int()
	if err != nil {
		return nil, err
	}
	if firstTS != w.Symbols[0].Timestamp {
		return nil, buildErr(ErrAlignment, "The first symbol and the first measurement of wind does not match!")
	}

	out := make([]WindSample, 0, len(w.Data))
	cur := 0
	for _, d := range w.Data {
		if len(d) != 2 {
			return nil, buildErr(ErrShape, "Wind data vector is expected to have length 2!")
		}
		ts, err := d[0].Int()
		if err != nil {
			return nil, err
		}
		for cur+1 < len(w.Symbols) && w.Symbols[cur+1].Timestamp <= ts {
			cur++
		}
		out = append(out, WindSample{
			Time:      HourOfDay(ts, loc),
			Strength:  d[1].Float(),
			Direction: w.Symbols[cur].SymbolID,
		})
	}
	return out, nil
}

// IconPath resolves a weather symbol id to its icon file. Night variants
// (id > 100) share the day icon: 112 -> "<base>/12.pdf".
func IconPath(base string, symbolID uint64) string {
	if symbolID > 100 {
		symbolID -= 100
	}
	return fmt.Sprintf("%s/%d.pdf", base, symbolID)
}

func resolveIcons(symbols []WeatherSymbol, base string, loc *time.Location) []IconSample {
	out := make([]IconSample, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, IconSample{
			Time: HourOfDay(s.Timestamp, loc),
			Icon: IconPath(base, s.WeatherSymbolID),
		})
	}
	return out
}
