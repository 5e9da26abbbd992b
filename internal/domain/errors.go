package domain

import (
	"errors"
	"fmt"
)

// ErrValidation marks recoverable bad-input or business-rule errors.
// Callers branch with errors.Is and surface the message to the end user;
// anything not wrapping ErrValidation is an infrastructure failure.
var ErrValidation = errors.New("validation failed")

// Validationf builds a validation error with a descriptive message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
