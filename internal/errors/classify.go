package errors

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUnauthorized indicates a missing or invalid session.
	CategoryUnauthorized
	// CategoryNotFound indicates a missing or foreign-owned resource.
	CategoryNotFound
	// CategoryValidation indicates bad input or a malformed document.
	CategoryValidation
	// CategoryCorruption indicates unparseable stored data.
	CategoryCorruption
	// CategoryTransient indicates a network or database failure.
	CategoryTransient
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUnauthorized:
		return "unauthorized"
	case CategoryNotFound:
		return "not_found"
	case CategoryValidation:
		return "validation"
	case CategoryCorruption:
		return "corruption"
	case CategoryTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryUnknown
	case errors.Is(err, ErrUnauthorized):
		return CategoryUnauthorized
	case errors.Is(err, ErrNotFoundOrDenied):
		return CategoryNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnknownVersion):
		return CategoryValidation
	case errors.Is(err, ErrStorageCorrupted):
		return CategoryCorruption
	case errors.Is(err, ErrTransientIO), isTransientPattern(err):
		return CategoryTransient
	}
	return CategoryUnknown
}

// isTransientPattern checks for network conditions that were not wrapped yet.
func isTransientPattern(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ETIMEDOUT, syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.EAGAIN:
			return true
		}
	}
	return false
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	suggestion := GetSuggestion(err)

	switch Classify(err) {
	case CategoryValidation, CategoryNotFound, CategoryUnauthorized:
		if suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg
	case CategoryCorruption, CategoryTransient:
		if suggestion != "" {
			return "System error: " + msg + "\n\n" + suggestion
		}
		return "System error: " + msg
	default:
		return msg
	}
}
