package domain

import "time"

const hourMillis = int64(time.Hour / time.Millisecond)

// day0 is midnight UTC at the start of the first test day.
var day0 = time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

var utcOpts = BuildOptions{IconBasePath: "/icons", Location: time.UTC}

// at returns the epoch millis of hour h (fractional allowed) on day d.
func at(d int, h float64) int64 {
	return day0 + int64(d)*24*hourMillis + int64(h*float64(hourMillis))
}

func pair(ts int64, v float64) []Cell { return []Cell{Integer(ts), Real(v)} }

func triple(ts int64, lo, hi float64) []Cell { return []Cell{Integer(ts), Real(lo), Real(hi)} }

// rawDay builds a well-formed day d with samples at hours 0, 6, 12, 18.
// Temperature for hour h is base+h/6 with a ±1 band, rainfall is h/6 with a ±0.5 band.
func rawDay(d int, label string, base float64) RawDay {
	day := RawDay{
		DayString: label,
		MinDate:   at(d, 0),
		MaxDate:   at(d+1, 0),
		Wind: RawWind{
			Symbols: []WindSymbol{{Timestamp: at(d, 0), SymbolID: "N"}, {Timestamp: at(d, 12), SymbolID: "SW"}},
		},
	}
	for _, h := range []float64{0, 6, 12, 18} {
		ts := at(d, h)
		rain := h / 6
		temp := base + h/6
		day.Rainfall = append(day.Rainfall, pair(ts, rain))
		day.VarianceRain = append(day.VarianceRain, triple(ts, rain-0.5, rain+0.5))
		day.Temperature = append(day.Temperature, pair(ts, temp))
		day.VarianceRange = append(day.VarianceRange, triple(ts, temp-1, temp+1))
		day.Sunshine = append(day.Sunshine, []Cell{Integer(ts), Integer(int64(h))})
		day.Wind.Data = append(day.Wind.Data, pair(ts, 10+h))
		day.WindGustPeak.Data = append(day.WindGustPeak.Data, pair(ts, 20+h))
		day.Symbols = append(day.Symbols, WeatherSymbol{Timestamp: ts, WeatherSymbolID: uint64(1 + h/6)})
	}
	return day
}
