package service

import (
	"errors"
	"fmt"
)

// ErrMissingEvaluatorName is returned when a submission has a blank name.
var ErrMissingEvaluatorName = errors.New("please enter your name before submitting")

// ValidationError describes input rejected before any state changed
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Message is the text shown to the user.
func (e *ValidationError) Message() string {
	if errors.Is(e.Err, ErrMissingEvaluatorName) {
		return "Please enter your name before submitting."
	}
	return e.Err.Error()
}
