package models

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrValidation is the sentinel wrapped by all model validation failures.
// Callers match it with errors.Is and surface the message as-is.
var ErrValidation = errors.New("validation failed")

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func validateHexColor(field, value string) error {
	if !hexColorPattern.MatchString(value) {
		return validationError("%s must be a hex color like #6366f1", field)
	}
	return nil
}
