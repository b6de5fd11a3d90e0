// Package errors provides consistent error types for JobTrack.
// It defines the failure taxonomy shared by the store, the persistence backends,
// the import codec and the HTTP API: UserError (fixable by the user), SystemError
// (storage or network trouble) and ValidationError (malformed input).
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy.
var (
	// ErrUnauthorized means there is no valid authenticated session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFoundOrDenied means the resource is missing or owned by another user.
	ErrNotFoundOrDenied = errors.New("not found or access denied")
	// ErrValidation means a malformed import document or missing required fields.
	ErrValidation = errors.New("validation failed")
	// ErrStorageCorrupted means a stored value is present but not parseable.
	ErrStorageCorrupted = errors.New("storage corrupted")
	// ErrTransientIO means a network or database failure on a remote call.
	ErrTransientIO = errors.New("transient I/O failure")
	// ErrUnknownVersion means an export document has an unsupported version.
	ErrUnknownVersion = errors.New("unknown export version")
)

// UserError represents an error that the user can fix.
type UserError struct {
	Message    string // What happened
	Suggestion string // How to fix it
	Field      string // The field/input that caused the error (optional)
	Value      string // The invalid value (optional)
}

func (e *UserError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return e.Message
}

// Unwrap makes every user error match ErrValidation.
func (e *UserError) Unwrap() error {
	return ErrValidation
}

// NewUserError creates a new UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewUserErrorWithField creates a new UserError with field context.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
	}
}

// ValidationError reports a single invalid field of an entity or document.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// SystemError represents a failure the user cannot directly fix.
type SystemError struct {
	Message string // What happened
	Cause   error  // The underlying error
	Op      string // The operation that failed (optional)
}

func (e *SystemError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
	}
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Op:      op,
	}
}

// CorruptionError reports an unparseable value under a storage key.
type CorruptionError struct {
	Key   string
	Cause error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corrupted value under %q: %v", e.Key, e.Cause)
}

// Is matches ErrStorageCorrupted.
func (e *CorruptionError) Is(target error) bool {
	return target == ErrStorageCorrupted
}

func (e *CorruptionError) Unwrap() error {
	return e.Cause
}

// NewCorruptionError creates a new CorruptionError.
func NewCorruptionError(key string, cause error) *CorruptionError {
	return &CorruptionError{Key: key, Cause: cause}
}

// IsUserError checks if an error is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsValidationError extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is is re-exported from the standard errors package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is re-exported from the standard errors package.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join is re-exported from the standard errors package.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// RootCause returns the deepest wrapped error in the chain.
func RootCause(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
