package config

import (
	"errors"
	"fmt"
)

// ErrValidationFailed is wrapped by every *ValidationError.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError names the setting Validate rejected.
type ValidationError struct {
	Path    string // dotted key, e.g. "editor.tab_size"
	Message string
	Value   string // the rejected value as written
	Code    ValidationErrorCode
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %q: %s", e.Path, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// ValidationErrorCode tells a size from a name problem.
type ValidationErrorCode uint8

const (
	// ErrCodeNotPositive marks a size or capacity below one.
	ErrCodeNotPositive ValidationErrorCode = iota
	// ErrCodeUnknownName marks a line ending or log level that is not recognised.
	ErrCodeUnknownName
)

func (c ValidationErrorCode) String() string {
	switch c {
	case ErrCodeNotPositive:
		return "not_positive"
	case ErrCodeUnknownName:
		return "unknown_name"
	}
	return fmt.Sprintf("ValidationErrorCode(%d)", uint8(c))
}
