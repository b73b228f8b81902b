// Package chart renders normalized forecasts as standalone HTML charts.
//
// Both charts share a layout: temperature with its low/high band on the left
// axis, rainfall bars on the right axis, and the x axis in hours (day chart)
// or days (long-range chart). Axis ranges come from the precomputed bounds,
// so every day of a forecast is drawn on a stable scale.
package chart

import (
	"fmt"
	"io"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	width  = "900px"
	height = "420px"
)

// RenderDay writes an HTML chart of one day to w. The x axis spans at least
// 24 hours and stretches to the bleed-over sample of the next day.
func RenderDay(w io.Writer, title string, day domain.DayRecord) error {
	hours := max(24, lastTime(day.Temperature), lastTime(day.Rainfall))
	line := newTemperatureChart(title+" "+day.Day, "hour", 0, hours, day.TempMin, day.TempMax, day.RainMax)
	addTemperature(line, day.Temperature)
	line.Overlap(rainfallBars(day.Rainfall))
	return line.Render(w)
}

// RenderLong writes an HTML chart of the long-range view to w.
func RenderLong(w io.Writer, title string, view domain.LongRangeView) error {
	days := lastTime(view.Temperature)
	line := newTemperatureChart(fmt.Sprintf("%s %s", title, view.DayLabels), "day", 0, days, view.TempMin, view.TempMax, view.RainMax)
	addTemperature(line, view.Temperature)
	line.Overlap(rainfallBars(view.Rainfall))
	return line.Render(w)
}

func newTemperatureChart(title, xName string, xMin, xMax float64, tempMin, tempMax, rainMax int) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     width,
			Height:    height,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "value", Min: xMin, Max: xMax}),
		charts.WithYAxisOpts(opts.YAxis{Name: "°C", Type: "value", Min: tempMin, Max: tempMax}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "mm", Type: "value", Min: 0, Max: rainMax})
	return line
}

func addTemperature(line *charts.Line, temps []domain.RangedSample) {
	value := make([]opts.LineData, 0, len(temps))
	low := make([]opts.LineData, 0, len(temps))
	high := make([]opts.LineData, 0, len(temps))
	for _, t := range temps {
		value = append(value, opts.LineData{Value: []float64{t.Time, t.Value}})
		low = append(low, opts.LineData{Value: []float64{t.Time, t.Low}})
		high = append(high, opts.LineData{Value: []float64{t.Time, t.High}})
	}
	dashed := charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed", Opacity: opts.Float(0.6)})
	line.AddSeries("temperature", value, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	line.AddSeries("low", low, dashed)
	line.AddSeries("high", high, dashed)
}

func rainfallBars(rain []domain.RangedSample) *charts.Bar {
	data := make([]opts.BarData, 0, len(rain))
	for _, r := range rain {
		data = append(data, opts.BarData{Value: []float64{r.Time, r.Value}})
	}
	bar := charts.NewBar()
	bar.AddSeries("rainfall", data, charts.WithBarChartOpts(opts.BarChart{YAxisIndex: 1}))
	return bar
}

func lastTime(s []domain.RangedSample) float64 {
	if len(s) == 0 {
		return 1
	}
	return s[len(s)-1].Time
}
