// Package fiterror defines the error types returned by the trend engine.
package fiterror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownModelType is returned by enum-driven lookups that do not recognise a model type.
	ErrUnknownModelType = errors.New("unknown model type")
	// ErrUnknownTarget is returned when a target kind string cannot be parsed.
	ErrUnknownTarget = errors.New("unknown target kind")
	// ErrInsufficientPoints is returned when a fit is refused for having too few observations.
	ErrInsufficientPoints = errors.New("insufficient data points")
	// ErrParameterCount is returned when a model is rebuilt from a parameter vector of the wrong size.
	ErrParameterCount = errors.New("parameter count does not match model type")
)

// InvalidCoordinateLengthError reports x/y/z/w arrays of differing lengths.
type InvalidCoordinateLengthError struct {
	Category string
	X, Y     int
	Z, W     int
}

func (e *InvalidCoordinateLengthError) Error() string {
	prefix := "invalid coordinate lengths"
	if e.Category != "" {
		prefix = fmt.Sprintf("invalid coordinate lengths for %q", e.Category)
	}
	return fmt.Sprintf("%s: x=%d y=%d z=%d w=%d", prefix, e.X, e.Y, e.Z, e.W)
}

// InvalidModelError reports a nil entry in a candidate list during selection.
type InvalidModelError struct {
	Target     string
	Index      int
	Candidates []string
}

func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("invalid model for target %s at index %d: candidates=[%s]",
		e.Target, e.Index, strings.Join(e.Candidates, ", "))
}

// InvalidModelTypeError is the illegal-argument condition raised by enum lookups.
type InvalidModelTypeError struct {
	Type      string
	Operation string
}

func (e *InvalidModelTypeError) Error() string {
	return fmt.Sprintf("%s: invalid model type %q", e.Operation, e.Type)
}

func (e *InvalidModelTypeError) Unwrap() error {
	return ErrUnknownModelType
}

// UnfitModelError is returned when an unfit model is evaluated.
type UnfitModelError struct {
	Type string
}

func (e *UnfitModelError) Error() string {
	return fmt.Sprintf("%s model has not been fit", e.Type)
}

// FitError wraps a numeric failure while fitting a model.
type FitError struct {
	Type string
	Err  error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("fitting %s model: %v", e.Type, e.Err)
}

func (e *FitError) Unwrap() error {
	return e.Err
}
