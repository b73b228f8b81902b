// Command genmock generates deterministic provider payload fixtures and the
// normalized documents they produce. It uses the domain normalizer directly so
// the expected output always matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -payload-out data/mock/forecast_payload.json \
//	  -normalized-out data/mock/forecast_normalized.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/mockdata"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	payloadOut := flag.String("payload-out", "", "output path for the provider payload fixture")
	normalizedOut := flag.String("normalized-out", "", "output path for the normalized document fixture")
	start := flag.String("start", "2024-04-26", "first forecast day (YYYY-MM-DD, UTC)")
	days := flag.Int("days", 7, "number of days")
	step := flag.Duration("step", 3*time.Hour, "spacing between samples")
	location := flag.String("location", "zurich", "location the normalized document is keyed by")
	icons := flag.String("icons", "icons", "icon base path")
	flag.Parse()

	if *payloadOut == "" || *normalizedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -payload-out, -normalized-out")
	}

	first, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	// Fixed clock for a reproducible processed_at.
	clock := clockwork.NewFakeClockAt(first.Add(6 * time.Hour))

	payload, err := mockdata.PayloadJSON(mockdata.Options{Start: first, Days: *days, Step: *step})
	if err != nil {
		return fmt.Errorf("generate payload: %w", err)
	}

	fc, long, err := domain.Normalize(payload, domain.BuildOptions{IconBasePath: *icons, Location: time.UTC})
	if err != nil {
		return fmt.Errorf("normalize generated payload: %w", err)
	}
	doc := domain.ForecastDocument{
		ID:          domain.DocumentID(*location, payload),
		Location:    *location,
		BuildID:     "genmock",
		Days:        fc,
		Long:        long,
		ProcessedAt: clock.Now().UTC(),
	}

	if err := writeFile(*payloadOut, append(payload, '\n')); err != nil {
		return fmt.Errorf("writing payload fixture: %w", err)
	}
	log.Printf("wrote payload fixture: %s (%d days)", *payloadOut, *days)

	if err := writeJSON(*normalizedOut, doc); err != nil {
		return fmt.Errorf("writing normalized fixture: %w", err)
	}
	log.Printf("wrote normalized fixture: %s", *normalizedOut)

	printStats(doc)
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, append(data, '\n'))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func printStats(doc domain.ForecastDocument) {
	fmt.Println()
	fmt.Printf("%-4s %6s %6s %6s %5s %5s\n", "day", "t_min", "t_max", "r_max", "temp", "icons")
	for _, d := range doc.Days {
		fmt.Printf("%-4s %6d %6d %6d %5d %5d\n", d.Day, d.TempMin, d.TempMax, d.RainMax, len(d.Temperature), len(d.Icons))
	}
	fmt.Println()
	fmt.Printf("long view: %s  temp %d..%d  rain 0..%d  %d icons\n",
		doc.Long.DayLabels, doc.Long.TempMin, doc.Long.TempMax, doc.Long.RainMax, len(doc.Long.Icons))
}
