// Command render normalizes a provider payload file and prints one view of it.
//
// Usage:
//
//	go run ./cmd/render -payload data/mock/forecast_payload.json -day 0
//	go run ./cmd/render -payload data/mock/forecast_payload.json -long -chart > long.html
//
// Without -day or -long the whole forecast document is printed as JSON.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/chart"
	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, clockwork.NewRealClock()); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer, clock clockwork.Clock) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	payloadPath := fs.String("payload", "", "path to a provider payload JSON file (- for stdin)")
	day := fs.Int("day", -1, "print only the day with this index (0 is today)")
	long := fs.Bool("long", false, "print only the long-range view")
	icons := fs.String("icons", "icons", "base path prefixed to icon files")
	tz := fs.String("tz", "Local", "IANA time zone hours of day are expressed in")
	asChart := fs.Bool("chart", false, "write an HTML chart instead of JSON")
	title := fs.String("title", "forecast", "chart title")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *payloadPath == "" {
		fs.Usage()
		return errors.New("missing required flag: -payload")
	}
	if *day >= 0 && *long {
		return errors.New("-day and -long are mutually exclusive")
	}

	loc, err := loadLocation(*tz)
	if err != nil {
		return err
	}

	payload, err := readPayload(*payloadPath)
	if err != nil {
		return err
	}

	fc, view, err := domain.Normalize(payload, domain.BuildOptions{IconBasePath: *icons, Location: loc})
	if err != nil {
		return err
	}

	switch {
	case *day >= 0:
		if *day >= len(fc) {
			return fmt.Errorf("day %d out of range: forecast has %d days", *day, len(fc))
		}
		if *asChart {
			return chart.RenderDay(out, *title, fc[*day])
		}
		return writeJSON(out, fc[*day])
	case *long:
		if *asChart {
			return chart.RenderLong(out, *title, view)
		}
		return writeJSON(out, view)
	default:
		if *asChart {
			return errors.New("-chart needs -day or -long")
		}
		return writeJSON(out, domain.ForecastDocument{
			ID:          domain.DocumentID("", payload),
			Days:        fc,
			Long:        view,
			ProcessedAt: clock.Now().UTC(),
		})
	}
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid -tz %q: %w", name, err)
	}
	return loc, nil
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
