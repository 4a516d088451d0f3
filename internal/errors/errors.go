package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes. Everything here is recoverable: no error in
// this taxonomy terminates the process.
const (
	CodeConfigInvalid       = "CONFIG_INVALID"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeInvalidDuration     = "INVALID_DURATION"
	CodePersistenceFailure  = "PERSISTENCE_FAILURE"
	CodeStaleSnapshot       = "STALE_SNAPSHOT"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeExternalService     = "EXTERNAL_SERVICE_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// InsufficientBalance flags a reward session requested with an empty
// reward balance. No state changes; the caller stays in focus mode.
func InsufficientBalance(message string) *AppError {
	return New(CodeInsufficientBalance, message)
}

// InvalidDuration flags a requested session duration <= 0.
func InvalidDuration(message string) *AppError {
	return New(CodeInvalidDuration, message)
}

// PersistenceFailure wraps a failed store write. In-memory state stays
// authoritative for the process lifetime; the failure is surfaced as a
// warning, never fatal.
func PersistenceFailure(cause error) *AppError {
	return &AppError{
		Code:    CodePersistenceFailure,
		Message: "persistence write failed; data may not survive a restart",
		Cause:   cause,
	}
}

// StaleSnapshot flags a recovered countdown already at or past expiry.
func StaleSnapshot(message string) *AppError {
	return New(CodeStaleSnapshot, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}
