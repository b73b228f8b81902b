package domain

import "errors"

// Error kinds raised while building a forecast. Match with errors.Is.
var (
	// ErrTypeMismatch: an integer was expected where a real was found.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrShape: a pair or triple has the wrong arity, or parallel series differ in length.
	ErrShape = errors.New("shape error")
	// ErrAlignment: paired timestamps disagree, or wind measurements do not start on a symbol.
	ErrAlignment = errors.New("alignment error")
	// ErrEmptySeries: a series that needs at least one element is empty.
	ErrEmptySeries = errors.New("empty series")
)

// ErrForecastNotFound is returned by stores that hold no forecast for a location.
var ErrForecastNotFound = errors.New("forecast not found")

// BuildError aborts a forecast build. Msg is a fixed, user-facing description.
type BuildError struct {
	Kind error
	Msg  string
}

func (e *BuildError) Error() string {
	return "Forecast Building error: " + e.Msg
}

func (e *BuildError) Unwrap() error { return e.Kind }

func buildErr(kind error, msg string) error {
	return &BuildError{Kind: kind, Msg: msg}
}
