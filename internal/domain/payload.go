package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawDay is one day object of the provider payload.
type RawDay struct {
	CurrentTime       *int64  `json:"current_time,omitempty"`
	CurrentTimeString *string `json:"current_time_string,omitempty"`
	MinDate           int64   `json:"min_date"`
	MaxDate           int64   `json:"max_date"`
	DayString         string  `json:"day_string"`

	Rainfall      [][]Cell `json:"rainfall"`
	Sunshine      [][]Cell `json:"sunshine"`
	Temperature   [][]Cell `json:"temperature"`
	VarianceRange [][]Cell `json:"variance_range"` // temperature low/high
	VarianceRain  [][]Cell `json:"variance_rain"`  // rainfall low/high

	Symbols      []WeatherSymbol `json:"symbols"`
	Wind         RawWind         `json:"wind"`
	WindGustPeak RawGust         `json:"wind_gust_peak"`
}

// WeatherSymbol is a weather icon change at a point in time.
type WeatherSymbol struct {
	Timestamp       int64  `json:"timestamp"`
	WeatherSymbolID uint64 `json:"weather_symbol_id"`
}

// RawWind pairs the wind strength series with its direction changes.
type RawWind struct {
	Data    [][]Cell     `json:"data"`
	Symbols []WindSymbol `json:"symbols"`
}

// WindSymbol is a wind direction change, e.g. {1588284000000, "SW"}.
type WindSymbol struct {
	Timestamp int64  `json:"timestamp"`
	SymbolID  string `json:"symbol_id"`
}

// RawGust holds the gust peak series.
type RawGust struct {
	Data [][]Cell `json:"data"`
}

var (
	rawDayKeys = []string{
		"min_date", "max_date", "day_string",
		"rainfall", "sunshine", "temperature", "variance_range", "variance_rain",
		"symbols", "wind", "wind_gust_peak",
	}
	rawWindKeys = []string{"data", "symbols"}
	rawGustKeys = []string{"data"}
)

// requireKeys fails with ErrShape when any key is absent from the object in b
// or holds null.
func requireKeys(b []byte, object string, keys []string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	for _, k := range keys {
		v, ok := fields[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return buildErr(ErrShape, fmt.Sprintf("Missing field `%s` in %s!", k, object))
		}
	}
	return nil
}

// UnmarshalJSON rejects day objects with a missing or null required field.
func (d *RawDay) UnmarshalJSON(b []byte) error {
	if err := requireKeys(b, "forecast day", rawDayKeys); err != nil {
		return err
	}
	type plain RawDay
	return json.Unmarshal(b, (*plain)(d))
}

// UnmarshalJSON rejects wind objects with a missing or null series.
func (w *RawWind) UnmarshalJSON(b []byte) error {
	if err := requireKeys(b, "wind", rawWindKeys); err != nil {
		return err
	}
	type plain RawWind
	return json.Unmarshal(b, (*plain)(w))
}

// UnmarshalJSON rejects gust objects without a data series.
func (g *RawGust) UnmarshalJSON(b []byte) error {
	if err := requireKeys(b, "wind gust peak", rawGustKeys); err != nil {
		return err
	}
	type plain RawGust
	return json.Unmarshal(b, (*plain)(g))
}

// ParsePayload decodes a provider payload (a JSON array of day objects).
func ParsePayload(data []byte) ([]RawDay, error) {
	var days []RawDay
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, fmt.Errorf("parse forecast payload: %w", err)
	}
	return days, nil
}
