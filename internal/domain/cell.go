package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CellKind tags how a numeric payload slot was encoded.
type CellKind uint8

const (
	KindInteger CellKind = iota
	KindReal
)

func (k CellKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	default:
		return "unknown"
	}
}

// Cell is a payload number that arrived either as an integer or as a real.
// The zero value is Integer(0).
type Cell struct {
	kind CellKind
	i    int64
	f    float64
}

// Integer returns an integer-tagged cell.
func Integer(v int64) Cell { return Cell{kind: KindInteger, i: v} }

// Real returns a real-tagged cell.
func Real(v float64) Cell { return Cell{kind: KindReal, f: v} }

// Kind reports the cell's tag.
func (c Cell) Kind() CellKind { return c.kind }

// Int returns the integer payload. It fails for every real-tagged cell,
// including whole numbers such as 3.0.
func (c Cell) Int() (int64, error) {
	switch c.kind {
	case KindInteger:
		return c.i, nil
	case KindReal:
		return 0, buildErr(ErrTypeMismatch, "Expected integer, found float")
	default:
		return 0, fmt.Errorf("numeric cell: unknown kind %d", c.kind)
	}
}

// Float returns the payload as a float64, widening integers.
func (c Cell) Float() float64 {
	switch c.kind {
	case KindInteger:
		return float64(c.i)
	default:
		return c.f
	}
}

func (c Cell) String() string {
	if c.kind == KindInteger {
		return strconv.FormatInt(c.i, 10)
	}
	return formatReal(c.f)
}

// UnmarshalJSON decodes an integer literal as Integer and any other number
// (fractional, exponent, or outside int64) as Real.
func (c *Cell) UnmarshalJSON(b []byte) error {
	lit := string(bytes.TrimSpace(b))
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		*c = Integer(i)
		return nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return fmt.Errorf("decode numeric cell %q: %w", lit, err)
	}
	*c = Real(f)
	return nil
}

// MarshalJSON keeps the tag: reals always carry a fraction or exponent so they
// decode back as reals.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.kind == KindInteger {
		return []byte(strconv.FormatInt(c.i, 10)), nil
	}
	return json.Marshal(json.Number(formatReal(c.f)))
}

func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
