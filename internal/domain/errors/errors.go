package errors

import (
	"errors"
	"fmt"
)

// Re-export the standard library helpers so callers need one import.
var (
	New    = errors.New
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// Error codes for the failure taxonomy.
const (
	// CodeValidation marks malformed or out-of-range caller input.
	CodeValidation = "VALIDATION"
	// CodeNotFound marks a referenced record that does not exist.
	CodeNotFound = "NOT_FOUND"
	// CodeRemote marks a non-success or malformed response from the
	// payment processor.
	CodeRemote = "REMOTE"
	// CodePersistence marks a failed store operation.
	CodePersistence = "PERSISTENCE"
	// CodeConfiguration marks missing credentials or secrets.
	CodeConfiguration = "CONFIGURATION"
	// CodeUnauthenticated marks a rejected credential on an inbound call.
	CodeUnauthenticated = "UNAUTHENTICATED"
	// CodeInternal is the fallback for everything else.
	CodeInternal = "INTERNAL"
)

// AppError carries a code alongside the message so callers can map a
// failure to client-fault vs server-fault responses.
type AppError struct {
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Code() string {
	return e.code
}

func (e *AppError) Unwrap() error {
	return e.err
}

// NewAppError creates a new application error with the given code.
func NewAppError(code string, message string, err error) *AppError {
	return &AppError{
		code:    code,
		message: message,
		err:     err,
	}
}

func NewValidationError(message string) *AppError {
	return NewAppError(CodeValidation, message, nil)
}

func NewNotFoundError(resource, id string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found: %s", resource, id), nil)
}

func NewRemoteError(message string, err error) *AppError {
	return NewAppError(CodeRemote, message, err)
}

func NewPersistenceError(message string, err error) *AppError {
	return NewAppError(CodePersistence, message, err)
}

func NewConfigurationError(message string) *AppError {
	return NewAppError(CodeConfiguration, message, nil)
}

// CodeOf returns the code of err, or CodeInternal for plain errors.
func CodeOf(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code()
	}
	return CodeInternal
}

// Wrap annotates err with a message, preserving an existing code.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return NewAppError(appErr.Code(), message, err)
	}

	return NewAppError(CodeInternal, message, err)
}
