// Package mockdata generates deterministic provider payloads for fixtures,
// tests and local runs.
package mockdata

import (
	"encoding/json"
	"math"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
)

// Options controls the generated payload.
type Options struct {
	// Start is the first day; it is truncated to midnight in its own zone.
	Start time.Time
	Days  int
	// Step is the spacing between samples. Defaults to 3h.
	Step time.Duration
}

var symbolCycle = []uint64{1, 2, 4, 7, 102, 5, 3, 8}

var directions = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Payload builds Days well-formed day objects.
func Payload(opts Options) []domain.RawDay {
	step := opts.Step
	if step <= 0 {
		step = 3 * time.Hour
	}
	y, m, d := opts.Start.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, opts.Start.Location())

	out := make([]domain.RawDay, 0, opts.Days)
	for i := range opts.Days {
		dayStart := midnight.AddDate(0, 0, i)
		out = append(out, buildDay(i, dayStart, step))
	}
	return out
}

// PayloadJSON is Payload encoded the way the provider sends it.
func PayloadJSON(opts Options) ([]byte, error) {
	return json.Marshal(Payload(opts))
}

func buildDay(index int, start time.Time, step time.Duration) domain.RawDay {
	end := start.AddDate(0, 0, 1)
	label := start.Weekday().String()[:2]
	day := domain.RawDay{
		MinDate:   start.UnixMilli(),
		MaxDate:   end.UnixMilli(),
		DayString: label,
		Wind: domain.RawWind{
			Symbols: []domain.WindSymbol{
				{Timestamp: start.UnixMilli(), SymbolID: directions[index%len(directions)]},
				{Timestamp: start.Add(12 * time.Hour).UnixMilli(), SymbolID: directions[(index+3)%len(directions)]},
			},
		},
	}

	n := 0
	for t := start; t.Before(end); t = t.Add(step) {
		ts := t.UnixMilli()
		h := t.Sub(start).Hours()

		temp := round1(12 + float64(index) + 6*math.Sin(math.Pi*(h-9)/12))
		rain := round1(math.Max(0, 2.5*math.Sin(math.Pi*(h+float64(index)*5)/10)))
		sun := int64(0)
		if h >= 6 && h <= 18 {
			sun = int64(60 - 4*math.Abs(h-12))
		}
		wind := round1(8 + 4*math.Cos(math.Pi*h/12) + float64(index))

		day.Temperature = append(day.Temperature, []domain.Cell{domain.Integer(ts), domain.Real(temp)})
		day.VarianceRange = append(day.VarianceRange, []domain.Cell{domain.Integer(ts), domain.Real(temp - 1.5), domain.Real(temp + 1.5)})
		day.Rainfall = append(day.Rainfall, []domain.Cell{domain.Integer(ts), domain.Real(rain)})
		day.VarianceRain = append(day.VarianceRain, []domain.Cell{domain.Integer(ts), domain.Real(math.Max(0, rain-0.3)), domain.Real(rain + 0.8)})
		day.Sunshine = append(day.Sunshine, []domain.Cell{domain.Integer(ts), domain.Integer(sun)})
		day.Wind.Data = append(day.Wind.Data, []domain.Cell{domain.Integer(ts), domain.Real(wind)})
		day.WindGustPeak.Data = append(day.WindGustPeak.Data, []domain.Cell{domain.Integer(ts), domain.Real(round1(wind * 1.6))})
		if n%2 == 0 {
			day.Symbols = append(day.Symbols, domain.WeatherSymbol{
				Timestamp:       ts,
				WeatherSymbolID: symbolCycle[(index+n/2)%len(symbolCycle)],
			})
		}
		n++
	}
	return day
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
