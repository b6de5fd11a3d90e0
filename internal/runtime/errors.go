package runtime

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	jterrors "github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/parser"
)

// Common errors.
var (
	ErrApplicationGone = errors.New("application not found")
	ErrEventGone       = errors.New("event not found")
	ErrActionItemGone  = errors.New("action item not found")
	ErrProblemGone     = errors.New("problem not found")
	ErrAmbiguousID     = errors.New("id prefix matches more than one record")
	ErrDiskFull        = errors.New("disk full: unable to write to database")
)

// Suggestions provides helpful suggestions for common CLI errors.
var Suggestions = map[error]string{
	ErrApplicationGone: "Use 'jobtrack app list' to see application ids.",
	ErrEventGone:       "Use 'jobtrack event list' to see event ids.",
	ErrActionItemGone:  "Use 'jobtrack event list' to see action item ids.",
	ErrProblemGone:     "Use 'jobtrack problem list' to see problem ids.",
	ErrAmbiguousID:     "Type more characters of the id.",
	ErrDiskFull:        "Free up disk space and try again. Nothing was written.",
}

// GetSuggestion returns a suggestion for an error, if available.
func GetSuggestion(err error) string {
	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}
	return jterrors.GetSuggestion(err)
}

// FormatError formats an error with optional suggestion.
func FormatError(err error) string {
	var pe *parser.TimeParseError
	if errors.As(err, &pe) {
		return pe.FormatWithExamples()
	}

	msg := err.Error()
	if jterrors.IsSystemError(err) && !IsDiskFullError(err) {
		msg = "System error: " + msg
	}
	if suggestion := GetSuggestion(err); suggestion != "" {
		msg += "\n" + suggestion
	}
	return msg
}

// DiskFullError represents a disk full condition with additional context.
type DiskFullError struct {
	Op      string // The operation that failed (e.g., "write", "open")
	Path    string // The path involved, if known
	wrapped error  // The underlying error
}

func (e *DiskFullError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("disk full during %s on %s: %v", e.Op, e.Path, e.wrapped)
	}
	return fmt.Sprintf("disk full during %s: %v", e.Op, e.wrapped)
}

func (e *DiskFullError) Unwrap() error {
	return ErrDiskFull
}

// NewDiskFullError creates a new DiskFullError.
func NewDiskFullError(op, path string, err error) *DiskFullError {
	return &DiskFullError{
		Op:      op,
		Path:    path,
		wrapped: err,
	}
}

// IsDiskFullError checks if an error indicates a disk full condition.
// It checks for ENOSPC (Linux/macOS) and common disk full error patterns.
func IsDiskFullError(err error) bool {
	if err == nil {
		return false
	}

	var diskFullErr *DiskFullError
	if errors.As(err, &diskFullErr) {
		return true
	}
	if errors.Is(err, ErrDiskFull) {
		return true
	}

	// ENOSPC (no space left on device)
	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ENOSPC {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"no space left on device",
		"disk full",
		"not enough space",
		"insufficient disk space",
		"out of disk space",
	} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// WrapDiskFullError wraps an error as a DiskFullError if it indicates disk full.
// If the error is not a disk full error, it returns the original error unchanged.
func WrapDiskFullError(err error, op, path string) error {
	if err == nil {
		return nil
	}
	if IsDiskFullError(err) {
		return NewDiskFullError(op, path, err)
	}
	return err
}
