package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrInvalidFilePath = errors.New("invalid file path")

	ErrNotArray   = errors.New("root element must be an array of objects")
	ErrEmptyArray = errors.New("JSON array is empty")
	ErrNotObject  = errors.New("element is not an object")

	ErrPathNotFound  = errors.New("path not found")
	ErrNotContainer  = errors.New("path does not lead to an object")
	ErrInvalidNumber = errors.New("invalid number")

	ErrNoDocument    = errors.New("no document loaded")
	ErrEmptyDocument = errors.New("document has no objects")
	ErrNotStaged     = errors.New("no save has been staged")
	ErrLastObject    = errors.New("cannot delete the last remaining object")
	ErrEmptyKey      = errors.New("property name cannot be empty")
	ErrOutOfRange    = errors.New("index out of range")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypePath       ErrorType = "path"
	ErrorTypeCoercion   ErrorType = "coercion"
	ErrorTypeState      ErrorType = "state"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	// Field is the dotted path of the offending field, when there is one.
	Field string
	Err   error
}

// Error implements error interface
func (e *AppError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("field %q: %s", e.Field, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Kind is a zero-message AppError of the given type, for use as an
// errors.Is target: errors.Is(err, errors.Kind(errors.ErrorTypeCoercion)).
func Kind(t ErrorType) *AppError { return &AppError{Type: t} }

// IsType reports whether err wraps an AppError of type t.
func IsType(err error, t ErrorType) bool { return errors.Is(err, Kind(t)) }

// NewValidationError creates a new error for a document of the wrong shape
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Err:     err,
	}
}

// NewIOError creates a new error related to reading or writing files
func NewIOError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeIO,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewPathError creates a new error for a path that does not resolve
func NewPathError(field, message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePath,
		Message: message,
		Field:   field,
		Err:     err,
	}
}

// NewCoercionError creates a new error for text that cannot be converted back
// to the field's original type
func NewCoercionError(field, message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCoercion,
		Message: message,
		Field:   field,
		Err:     err,
	}
}

// NewStateError creates a new error for an operation that is not allowed in
// the current editor state
func NewStateError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeState,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeValidation:
			return fmt.Sprintf("Invalid document: %s", appErr.Message)
		case ErrorTypeIO:
			return fmt.Sprintf("File error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypePath:
			return fmt.Sprintf("Internal error: field %q no longer resolves: %s", appErr.Field, appErr.Message)
		case ErrorTypeCoercion:
			return fmt.Sprintf("Invalid value for field %q: %s", appErr.Field, appErr.Message)
		case ErrorTypeState:
			return fmt.Sprintf("Cannot do that now: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoDocument) {
		return "Error: No document is loaded. Please open a JSON file first."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
