package domain

import "strings"

// LongRangeView flattens a Forecast onto one continuous axis measured in days
// (0.0 is the start of day 0). Sunshine, wind and gusts are not part of it.
type LongRangeView struct {
	DayLabels   string         `json:"day_labels"`
	TempMin     int            `json:"temp_min"`
	TempMax     int            `json:"temp_max"`
	RainMax     int            `json:"rain_max"`
	Rainfall    []RangedSample `json:"rainfall"`
	Temperature []RangedSample `json:"temperature"`
	Icons       []IconSample   `json:"icons"`
}

// NewLongRangeView builds the long-range projection of fc. The result shares
// no memory with fc.
func NewLongRangeView(fc Forecast) LongRangeView {
	labels := make([]string, 0, len(fc))
	var rainfall, temperature []RangedSample
	var icons []IconSample

	view := LongRangeView{TempMin: 1000, TempMax: -1000, RainMax: -1000}
	for _, day := range fc {
		labels = append(labels, day.Day)
		rainfall = append(rainfall, day.Rainfall...)
		temperature = append(temperature, day.Temperature...)
		icons = append(icons, day.Icons...)

		view.TempMin = min(view.TempMin, day.TempMin)
		view.TempMax = max(view.TempMax, day.TempMax)
		view.RainMax = max(view.RainMax, day.RainMax)
	}

	view.DayLabels = strings.Join(labels, ",")
	view.Rainfall = rebaseTimes(dropRepeats(rainfall), rangedTime)
	view.Temperature = rebaseTimes(dropRepeats(temperature), rangedTime)
	view.Icons = rebaseTimes(everyOther(icons), iconTime)
	return view
}

func rangedTime(s *RangedSample) *float64 { return &s.Time }
func iconTime(s *IconSample) *float64     { return &s.Time }

// dropRepeats removes an element when the element right after it is equal, so
// a run of equal entries keeps only its last one. The final element is always kept.
func dropRepeats[T comparable](v []T) []T {
	out := make([]T, 0, len(v))
	for i := range v {
		if i+1 < len(v) && v[i+1] == v[i] {
			continue
		}
		out = append(out, v[i])
	}
	return out
}

// everyOther keeps indices 0, 2, 4, ...
func everyOther[T any](v []T) []T {
	out := make([]T, 0, (len(v)+1)/2)
	for i := 0; i < len(v); i += 2 {
		out = append(out, v[i])
	}
	return out
}

// rebaseTimes rewrites each hour-of-day to (hour + offset) / 24, adding 24h
// to the offset whenever the raw hour drops below the previous raw hour.
// It rewrites v in place and returns it.
func rebaseTimes[T any](v []T, timeOf func(*T) *float64) []T {
	offset := -24.0
	prev := 10000.0
	for i := range v {
		t := timeOf(&v[i])
		raw := *t
		if raw < prev {
			offset += 24
		}
		prev = raw
		*t = (raw + offset) / 24
	}
	return v
}
