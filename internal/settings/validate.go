package settings

import (
	"github.com/thoreinstein/minesweeper/internal/errors"
)

// Validation errors for settings fields.
var (
	// ErrInvalidTheme indicates an unrecognized theme name.
	ErrInvalidTheme = errors.New("invalid theme")
)

// Validate checks Settings for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(s *Settings) []error {
	if s == nil {
		return []error{errors.New("settings are nil")}
	}

	var errs []error

	switch s.Theme {
	case ThemeClassic, ThemeMono:
	default:
		errs = append(errs, &FieldError{
			Field: KeyTheme,
			Value: s.Theme,
			Err:   ErrInvalidTheme,
		})
	}

	return errs
}

// FieldError reports an invalid value for one key.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
