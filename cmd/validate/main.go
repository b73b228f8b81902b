// Command validate checks a provider payload fixture against the normalizer's
// invariants: decoding, per-day series lengths and bleed-over, axis bounds,
// icon resolution and the long-range projection. With -normalized it also
// diffs the build against a previously generated document fixture.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -payload data/mock/forecast_payload.json \
//	  -normalized data/mock/forecast_normalized.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	payloadPath := flag.String("payload", "", "path to the provider payload fixture")
	normalizedPath := flag.String("normalized", "", "optional path to the normalized document fixture")
	icons := flag.String("icons", "icons", "icon base path the fixture was built with")
	flag.Parse()

	if *payloadPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*payloadPath, *normalizedPath, *icons); code != 0 {
		os.Exit(code)
	}
}

func run(payloadPath, normalizedPath, icons string) int {
	fmt.Println("=== Forecast Payload Validation ===")
	fmt.Println()

	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read payload: %v\n", err)
		return 1
	}

	raw, err := domain.ParsePayload(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	opts := domain.BuildOptions{IconBasePath: icons, Location: time.UTC}
	fc, long, err := domain.Normalize(payload, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: build: %v\n", err)
		return 1
	}

	phases := []*phase{
		validatePayload(raw),
		validateDays(raw, fc, icons),
		validateLongRange(fc, long),
	}
	if normalizedPath != "" {
		phases = append(phases, validateFixture(normalizedPath, fc, long))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Days: %d raw, %d normalized; long view: %d rainfall, %d temperature, %d icons\n",
		len(raw), len(fc), len(long.Rainfall), len(long.Temperature), len(long.Icons))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: payload ──

func validatePayload(days []domain.RawDay) *phase {
	p := &phase{name: "Phase 1: payload decoding"}
	if len(days) == 0 {
		p.errorf("payload has no days")
	}
	for i, d := range days {
		pf := func(format string, args ...any) {
			p.errorf("day %d (%s): %s", i, d.DayString, fmt.Sprintf(format, args...))
		}
		if d.DayString == "" {
			pf("day_string is empty")
		}
		if d.MinDate >= d.MaxDate {
			pf("min_date %d not before max_date %d", d.MinDate, d.MaxDate)
		}
		checkCellKinds(pf, "rainfall", d.Rainfall)
		checkCellKinds(pf, "temperature", d.Temperature)
		checkCellKinds(pf, "sunshine", d.Sunshine)
		checkCellKinds(pf, "wind", d.Wind.Data)
		checkCellKinds(pf, "wind_gust_peak", d.WindGustPeak.Data)
		if len(d.Wind.Symbols) == 0 {
			pf("no wind symbols")
		}
		if i > 0 && d.MinDate < days[i-1].MinDate {
			pf("days out of order")
		}
	}
	return p
}

// checkCellKinds reports timestamps that did not decode as integers.
func checkCellKinds(pf func(string, ...any), series string, entries [][]domain.Cell) {
	for j, e := range entries {
		if len(e) == 0 {
			pf("%s[%d] is empty", series, j)
			continue
		}
		if e[0].Kind() != domain.KindInteger {
			pf("%s[%d] timestamp %s is not an integer", series, j, e[0])
		}
	}
}

// ── Phase 2: days ──

func validateDays(raw []domain.RawDay, fc domain.Forecast, icons string) *phase {
	p := &phase{name: "Phase 2: day records"}
	if len(fc) != len(raw) {
		p.errorf("built %d days from %d raw days", len(fc), len(raw))
		return p
	}
	for i, d := range fc {
		pf := func(format string, args ...any) {
			p.errorf("day %d (%s): %s", i, d.Day, fmt.Sprintf(format, args...))
		}
		bleed := 0
		if i+1 < len(fc) {
			bleed = 1
		}
		checkLen(pf, "rainfall", len(d.Rainfall), len(raw[i].Rainfall)+bleed)
		checkLen(pf, "sunshine", len(d.Sunshine), len(raw[i].Sunshine)+bleed)
		checkLen(pf, "temperature", len(d.Temperature), len(raw[i].Temperature)+bleed)
		checkLen(pf, "wind", len(d.Wind), len(raw[i].Wind.Data))
		checkLen(pf, "wind_gust_peak", len(d.WindGustPeak), len(raw[i].WindGustPeak.Data))
		checkLen(pf, "icons", len(d.Icons), len(raw[i].Symbols))

		if bleed == 1 && len(d.Temperature) > 0 && d.Temperature[len(d.Temperature)-1].Time < 24 {
			pf("bleed-over temperature sample at hour %g, want >= 24", d.Temperature[len(d.Temperature)-1].Time)
		}
		for _, t := range d.Temperature {
			if float64(d.TempMin) > t.Low {
				pf("temp_min %d above low %g", d.TempMin, t.Low)
			}
			if float64(d.TempMax) < t.High {
				pf("temp_max %d below high %g", d.TempMax, t.High)
			}
		}
		if d.RainMax < 10 {
			pf("rain_max %d below the 10mm floor", d.RainMax)
		}
		for _, r := range d.Rainfall {
			if float64(d.RainMax) < r.High {
				pf("rain_max %d below high %g", d.RainMax, r.High)
			}
		}
		for _, ic := range d.Icons {
			if !strings.HasPrefix(ic.Icon, icons+"/") || !strings.HasSuffix(ic.Icon, ".pdf") {
				pf("icon %q not under %s/", ic.Icon, icons)
			}
		}
		for _, w := range d.Wind {
			if w.Direction == "" {
				pf("wind sample at hour %g has no direction", w.Time)
			}
		}
	}
	return p
}

func checkLen(pf func(string, ...any), series string, got, want int) {
	if got != want {
		pf("%s has %d samples, want %d", series, got, want)
	}
}

// ── Phase 3: long-range view ──

func validateLongRange(fc domain.Forecast, long domain.LongRangeView) *phase {
	p := &phase{name: "Phase 3: long-range view"}

	labels := strings.Split(long.DayLabels, ",")
	if len(labels) != len(fc) {
		p.errorf("%d day labels for %d days", len(labels), len(fc))
	}

	tMin, tMax, rMax, icons := math.MaxInt, math.MinInt, math.MinInt, 0
	for _, d := range fc {
		tMin = min(tMin, d.TempMin)
		tMax = max(tMax, d.TempMax)
		rMax = max(rMax, d.RainMax)
		icons += len(d.Icons)
	}
	if len(fc) > 0 {
		if long.TempMin != tMin || long.TempMax != tMax || long.RainMax != rMax {
			p.errorf("bounds %d..%d rain %d, want %d..%d rain %d",
				long.TempMin, long.TempMax, long.RainMax, tMin, tMax, rMax)
		}
	}
	if want := (icons + 1) / 2; len(long.Icons) != want {
		p.errorf("%d icons, want every other of %d = %d", len(long.Icons), icons, want)
	}

	checkMonotonic(p, "rainfall", rangedTimes(long.Rainfall))
	checkMonotonic(p, "temperature", rangedTimes(long.Temperature))
	if n := float64(len(fc)); len(long.Temperature) > 0 && long.Temperature[len(long.Temperature)-1].Time > n {
		p.errorf("last temperature sample at day %g beyond %g days", long.Temperature[len(long.Temperature)-1].Time, n)
	}
	return p
}

func rangedTimes(s []domain.RangedSample) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Time
	}
	return out
}

func checkMonotonic(p *phase, series string, times []float64) {
	for i := 1; i < len(times); i++ {
		if times[i] < times[i-1] {
			p.errorf("%s time goes backwards at %d: %g after %g", series, i, times[i], times[i-1])
		}
	}
}

// ── Phase 4: fixture parity ──

func validateFixture(path string, fc domain.Forecast, long domain.LongRangeView) *phase {
	p := &phase{name: "Phase 4: normalized fixture parity"}

	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read fixture: %v", err)
		return p
	}
	var doc domain.ForecastDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		p.errorf("decode fixture: %v", err)
		return p
	}

	approx := cmpopts.EquateApprox(0, 1e-9)
	if diff := cmp.Diff(doc.Days, fc, approx, cmpopts.EquateEmpty()); diff != "" {
		p.errorf("days differ (-fixture +build):\n%s", diff)
	}
	if diff := cmp.Diff(doc.Long, long, approx, cmpopts.EquateEmpty()); diff != "" {
		p.errorf("long view differs (-fixture +build):\n%s", diff)
	}
	return p
}
