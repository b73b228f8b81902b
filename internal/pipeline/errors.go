package pipeline

import (
	"encoding/json"
	"errors"

	"github.com/couchcryptid/forecast-etl/internal/domain"
)

// ErrorKind maps a build error to a short metric label.
func ErrorKind(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, domain.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, domain.ErrShape):
		return "shape"
	case errors.Is(err, domain.ErrAlignment):
		return "alignment"
	case errors.Is(err, domain.ErrEmptySeries):
		return "empty_series"
	case errors.Is(err, ErrMissingLocation):
		return "missing_location"
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return "payload"
	default:
		return "other"
	}
}
