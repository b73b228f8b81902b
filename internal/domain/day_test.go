package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDay_AlignsAllSeries(t *testing.T) {
	day, err := BuildDay(rawDay(0, "Fr", 10), nil, utcOpts)
	require.NoError(t, err)

	assert.Equal(t, "Fr", day.Day)
	assert.Len(t, day.Rainfall, 4)
	assert.Len(t, day.Sunshine, 4)
	assert.Len(t, day.Temperature, 4)
	assert.Len(t, day.Icons, 4)
	assert.Len(t, day.Wind, 4)
	assert.Len(t, day.WindGustPeak, 4)

	assert.Equal(t, RangedSample{Time: 12, Value: 12, Low: 11, High: 13}, day.Temperature[2])
	assert.Equal(t, SampleValue{Time: 18, Value: 18}, day.Sunshine[3])
	assert.Equal(t, IconSample{Time: 6, Icon: "/icons/2.pdf"}, day.Icons[1])
	assert.Equal(t, []string{"N", "N", "SW", "SW"}, []string{
		day.Wind[0].Direction, day.Wind[1].Direction, day.Wind[2].Direction, day.Wind[3].Direction,
	})
	assert.Equal(t, SampleValue{Time: 0, Value: 20}, day.WindGustPeak[0])
}

func TestBuildDay_BleedOver(t *testing.T) {
	t0, t1 := at(0, 10), at(0, 14)
	today := rawDay(0, "Fr", 10)
	today.Rainfall = [][]Cell{pair(t0, 2), pair(t1, 3)}
	today.VarianceRain = [][]Cell{triple(t0, 1, 3), triple(t1, 2, 4)}

	tomorrow := rawDay(1, "Sa", 12)
	next := t0 + 24*hourMillis
	tomorrow.Rainfall[0] = []Cell{Integer(next), Integer(1)}
	tomorrow.VarianceRain[0] = []Cell{Integer(next), Integer(0), Integer(2)}
	tomorrow.Sunshine[0] = pair(next, 30)
	tomorrow.Temperature[0] = pair(next, 7)
	tomorrow.VarianceRange[0] = triple(next, 6, 8)

	day, err := BuildDay(today, &tomorrow, utcOpts)
	require.NoError(t, err)

	require.Len(t, day.Rainfall, 3)
	assert.Equal(t, RangedSample{Time: HourOfDay(next, time.UTC) + 24, Value: 1, Low: 0, High: 2}, day.Rainfall[2])
	assert.Equal(t, 34.0, day.Rainfall[2].Time)

	require.Len(t, day.Sunshine, 5)
	assert.Equal(t, SampleValue{Time: 34, Value: 30}, day.Sunshine[4])
	require.Len(t, day.Temperature, 5)
	assert.Equal(t, RangedSample{Time: 34, Value: 7, Low: 6, High: 8}, day.Temperature[4])

	// No bleed-over for wind, gusts or icons.
	assert.Len(t, day.Wind, 4)
	assert.Len(t, day.WindGustPeak, 4)
	assert.Len(t, day.Icons, 4)
}

func TestBuildDay_BleedOverNeedsNextDayFirstEntry(t *testing.T) {
	tomorrow := rawDay(1, "Sa", 12)
	tomorrow.Sunshine = nil

	_, err := BuildDay(rawDay(0, "Fr", 10), &tomorrow, utcOpts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestTemperatureBounds(t *testing.T) {
	cases := []struct {
		name   string
		lows   []float64
		highs  []float64
		lo, hi int
	}{
		{name: "whole numbers get padded", lows: []float64{3.0}, highs: []float64{20.0}, lo: 2, hi: 21},
		{name: "comfortable margins kept", lows: []float64{3.7}, highs: []float64{19.2}, lo: 3, hi: 20},
		{name: "tight margins padded", lows: []float64{3.4}, highs: []float64{19.6}, lo: 2, hi: 21},
		{name: "negative lows", lows: []float64{-2.3}, highs: []float64{1.5}, lo: -3, hi: 2},
		{name: "extremes across samples", lows: []float64{5, 1.8, 4}, highs: []float64{9, 12.1, 11}, lo: 1, hi: 13},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			temps := make([]RangedSample, len(tc.lows))
			for i := range tc.lows {
				temps[i] = RangedSample{Low: tc.lows[i], High: tc.highs[i]}
			}
			lo, hi := temperatureBounds(temps)
			assert.Equal(t, tc.lo, lo)
			assert.Equal(t, tc.hi, hi)
		})
	}
}

func TestRainBound(t *testing.T) {
	assert.Equal(t, 10, rainBound(nil))
	assert.Equal(t, 10, rainBound([]RangedSample{{High: 0.4}, {High: 3}}))
	assert.Equal(t, 10, rainBound([]RangedSample{{High: 8.5}}))
	assert.Equal(t, 13, rainBound([]RangedSample{{High: 12}}))
	assert.Equal(t, 14, rainBound([]RangedSample{{High: 12.5}, {High: 1}}))
}

func TestRainBound_NeverBelowMinimum(t *testing.T) {
	for _, h := range []float64{-5, 0, 0.001, 2, 7.9, 8.0, 9.99} {
		assert.GreaterOrEqual(t, rainBound([]RangedSample{{High: h}}), 10, "high=%v", h)
	}
}

func TestBuildDay_BoundsIncludeBleedOver(t *testing.T) {
	tomorrow := rawDay(1, "Sa", 30)
	day, err := BuildDay(rawDay(0, "Fr", 10), &tomorrow, utcOpts)
	require.NoError(t, err)

	// Today's highs peak at 14; tomorrow's first high is 31.
	assert.Equal(t, 8, day.TempMin)
	assert.Equal(t, 32, day.TempMax)
	assert.Equal(t, 10, day.RainMax)
}

func TestBuildForecast(t *testing.T) {
	days := []RawDay{rawDay(0, "Fr", 10), rawDay(1, "Sa", 12), rawDay(2, "So", 8)}

	fc, err := BuildForecast(days, utcOpts)
	require.NoError(t, err)
	require.Len(t, fc, 3)

	assert.Equal(t, []string{"Fr", "Sa", "So"}, []string{fc[0].Day, fc[1].Day, fc[2].Day})
	assert.Len(t, fc[0].Rainfall, 5)
	assert.Len(t, fc[1].Rainfall, 5)
	assert.Len(t, fc[2].Rainfall, 4, "last day has no following day to bleed from")
}

func TestBuildForecast_AbortsOnAnyDayError(t *testing.T) {
	bad := rawDay(1, "Sa", 12)
	bad.VarianceRange = bad.VarianceRange[:2]
	days := []RawDay{rawDay(0, "Fr", 10), bad, rawDay(2, "So", 8)}

	fc, err := BuildForecast(days, utcOpts)
	require.Error(t, err)
	assert.Nil(t, fc)
	assert.ErrorIs(t, err, ErrShape)
	assert.Contains(t, err.Error(), "day 1 (Sa)")
	assert.Contains(t, err.Error(), "Forecast Building error")
}

func TestBuildForecast_FromPayload(t *testing.T) {
	payload := `[
	  {
	    "current_time": 1588312800000,
	    "min_date": 1588284000000,
	    "max_date": 1588370400000,
	    "day_string": "Fr",
	    "rainfall": [[1588291200000, 0], [1588312800000, 0.4]],
	    "variance_rain": [[1588291200000, 0, 0.2], [1588312800000, 0.1, 1]],
	    "sunshine": [[1588291200000, 0], [1588312800000, 35]],
	    "temperature": [[1588291200000, 9.1], [1588312800000, 15]],
	    "variance_range": [[1588291200000, 8.2, 10], [1588312800000, 13.5, 16.4]],
	    "symbols": [{"timestamp": 1588291200000, "weather_symbol_id": 101}, {"timestamp": 1588312800000, "weather_symbol_id": 3}],
	    "wind": {
	      "data": [[1588291200000, 6], [1588312800000, 11.5]],
	      "symbols": [{"timestamp": 1588291200000, "symbol_id": "SW"}]
	    },
	    "wind_gust_peak": {"data": [[1588291200000, 14], [1588312800000, 22]]}
	  }
	]`

	days, err := ParsePayload([]byte(payload))
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.NotNil(t, days[0].CurrentTime)
	assert.Equal(t, int64(1588312800000), *days[0].CurrentTime)
	assert.Nil(t, days[0].CurrentTimeString)

	fc, err := BuildForecast(days, utcOpts)
	require.NoError(t, err)
	require.Len(t, fc, 1)

	day := fc[0]
	assert.Equal(t, RangedSample{Time: 0, Value: 9.1, Low: 8.2, High: 10}, day.Temperature[0])
	assert.Equal(t, RangedSample{Time: 6, Value: 15, Low: 13.5, High: 16.4}, day.Temperature[1])
	assert.Equal(t, "/icons/1.pdf", day.Icons[0].Icon)
	assert.Equal(t, "SW", day.Wind[1].Direction)
	assert.Equal(t, 7, day.TempMin)
	assert.Equal(t, 17, day.TempMax)
	assert.Equal(t, 10, day.RainMax)
}

func TestBuildForecast_RealTimestampIsTypeMismatch(t *testing.T) {
	payload := `[{"day_string": "Fr", "min_date": 0, "max_date": 86400000,
	  "rainfall": [[1588291200000.0, 0]], "variance_rain": [[1588291200000, 0, 1]],
	  "sunshine": [], "temperature": [], "variance_range": [], "symbols": [],
	  "wind": {"data": [], "symbols": []}, "wind_gust_peak": {"data": []}}]`

	days, err := ParsePayload([]byte(payload))
	require.NoError(t, err)

	_, err = BuildForecast(days, utcOpts)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestParsePayload_Invalid(t *testing.T) {
	_, err := ParsePayload([]byte(`{"day_string": "Fr"}`))
	assert.Error(t, err)
	_, err = ParsePayload([]byte(`not json`))
	assert.Error(t, err)
}

const completeDay = `{"day_string": "Fr", "min_date": 0, "max_date": 86400000,
  "rainfall": [[0, 0]], "variance_rain": [[0, 0, 1]],
  "sunshine": [[0, 0]], "temperature": [[0, 9]], "variance_range": [[0, 8, 10]],
  "symbols": [{"timestamp": 0, "weather_symbol_id": 1}],
  "wind": {"data": [[0, 5]], "symbols": [{"timestamp": 0, "symbol_id": "N"}]},
  "wind_gust_peak": {"data": [[0, 9]]}}`

// dayWithout returns completeDay as a one-day payload with the field at path
// removed, or set to null when null is true.
func dayWithout(t *testing.T, null bool, path ...string) []byte {
	t.Helper()
	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(completeDay), &obj))
	parent := obj
	for _, k := range path[:len(path)-1] {
		parent = parent[k].(map[string]any)
	}
	last := path[len(path)-1]
	if null {
		parent[last] = nil
	} else {
		delete(parent, last)
	}
	b, err := json.Marshal([]any{obj})
	require.NoError(t, err)
	return b
}

func TestParsePayload_CompleteDay(t *testing.T) {
	days, err := ParsePayload([]byte("[" + completeDay + "]"))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, int64(86400000), days[0].MaxDate)
	assert.Len(t, days[0].Wind.Symbols, 1)
}

func TestParsePayload_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name string
		path []string
		msg  string
	}{
		{name: "day_string", path: []string{"day_string"}, msg: "Missing field `day_string` in forecast day!"},
		{name: "min_date", path: []string{"min_date"}, msg: "Missing field `min_date` in forecast day!"},
		{name: "max_date", path: []string{"max_date"}, msg: "Missing field `max_date` in forecast day!"},
		{name: "rainfall", path: []string{"rainfall"}, msg: "Missing field `rainfall` in forecast day!"},
		{name: "variance_rain", path: []string{"variance_rain"}, msg: "Missing field `variance_rain` in forecast day!"},
		{name: "sunshine", path: []string{"sunshine"}, msg: "Missing field `sunshine` in forecast day!"},
		{name: "temperature", path: []string{"temperature"}, msg: "Missing field `temperature` in forecast day!"},
		{name: "variance_range", path: []string{"variance_range"}, msg: "Missing field `variance_range` in forecast day!"},
		{name: "symbols", path: []string{"symbols"}, msg: "Missing field `symbols` in forecast day!"},
		{name: "wind", path: []string{"wind"}, msg: "Missing field `wind` in forecast day!"},
		{name: "wind_gust_peak", path: []string{"wind_gust_peak"}, msg: "Missing field `wind_gust_peak` in forecast day!"},
		{name: "wind.data", path: []string{"wind", "data"}, msg: "Missing field `data` in wind!"},
		{name: "wind.symbols", path: []string{"wind", "symbols"}, msg: "Missing field `symbols` in wind!"},
		{name: "wind_gust_peak.data", path: []string{"wind_gust_peak", "data"}, msg: "Missing field `data` in wind gust peak!"},
	}

	for _, tc := range tests {
		for _, null := range []bool{false, true} {
			name := tc.name + "/absent"
			if null {
				name = tc.name + "/null"
			}
			t.Run(name, func(t *testing.T) {
				days, err := ParsePayload(dayWithout(t, null, tc.path...))
				require.Error(t, err)
				assert.Nil(t, days)
				assert.ErrorIs(t, err, ErrShape)
				assert.Contains(t, err.Error(), tc.msg)

				fc, long, err := Normalize(dayWithout(t, null, tc.path...), utcOpts)
				assert.ErrorIs(t, err, ErrShape)
				assert.Nil(t, fc)
				assert.Empty(t, long.Temperature)
			})
		}
	}
}
