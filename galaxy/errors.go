package galaxy

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a galaxy error.
type ErrorType string

const (
	// ErrorTypeConfiguration indicates an invalid ParameterSet.
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeResource indicates a GPU resource could not be created.
	ErrorTypeResource ErrorType = "resource"
)

// Error is the error type returned by the generator and the controller.
type Error struct {
	Type    ErrorType
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Configurationf creates a configuration error for the named parameter.
func Configurationf(field, format string, args ...any) error {
	return &Error{
		Type:    ErrorTypeConfiguration,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapResource wraps a GPU failure as a resource error.
func WrapResource(message string, err error) error {
	return &Error{
		Type:    ErrorTypeResource,
		Message: message,
		Err:     err,
	}
}

// GetType returns the ErrorType of err, or an empty string if err is not a galaxy error.
func GetType(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return GetType(err) == ErrorTypeConfiguration
}

// IsResource reports whether err is a resource error.
func IsResource(err error) bool {
	return GetType(err) == ErrorTypeResource
}
