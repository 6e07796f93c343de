// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package flyer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTemplate is returned when a template id is not in the catalog.
	ErrUnknownTemplate = errors.New("flyer: unknown template")

	// ErrBusy is returned when a generation for the same control is already
	// in flight for the session.
	ErrBusy = errors.New("flyer: a request for this control is already running")
)

// ValidationError is a user-facing rejection detected before any external
// call is made. State is never changed when one is returned.
type ValidationError struct {
	Title   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Title + ": " + e.Message
}

// Invalid returns a *ValidationError.
func Invalid(title, message string) error {
	return &ValidationError{Title: title, Message: message}
}

// GenerationError is the single normalized outcome for every failure of the
// external generation capability: transport errors, model errors and
// responses with no usable payload.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return "generation failed: " + e.Reason
}

func (e *GenerationError) Unwrap() error { return e.Err }

// GenerationFailed wraps err (which may be nil) as a *GenerationError.
func GenerationFailed(reason string, err error) error {
	return &GenerationError{Reason: reason, Err: err}
}

// UserMessage returns the text shown to the user for err.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Reason
	}
	switch {
	case errors.Is(err, ErrUnknownTemplate):
		return "The selected template does not exist."
	case errors.Is(err, ErrBusy):
		return "Please wait for the current request to finish."
	}
	return "Something went wrong. Please try again."
}
