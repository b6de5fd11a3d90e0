// Package validate provides input validation helpers for JobTrack.
package validate

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/manav03panchal/jobtrack/internal/errors"
)

const (
	// MaxNameLength is the maximum length for company, position and problem names.
	MaxNameLength = 200
	// MaxNoteLength is the maximum length for a note.
	MaxNoteLength = 4096
	// MaxURLLength is the maximum length for a URL.
	MaxURLLength = 2048
)

// Required validates that a field is not blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(field, "is required")
	}
	return nil
}

// Name validates a required, length-limited name.
func Name(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return errors.NewValidationError(field,
			"must be "+strconv.Itoa(MaxNameLength)+" characters or fewer")
	}
	return nil
}

// Note validates an optional note.
func Note(field, note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return errors.NewValidationError(field,
			"must be "+strconv.Itoa(MaxNoteLength)+" characters or fewer")
	}
	return nil
}

// Link validates an optional http(s) link attached to an event or problem.
func Link(field, rawURL string) error {
	if rawURL == "" {
		return nil
	}
	if len(rawURL) > MaxURLLength {
		return errors.NewValidationError(field, "URL too long")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.NewValidationError(field, "invalid URL")
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return errors.NewValidationError(field, "URL must start with http:// or https://")
	}
	if parsed.Hostname() == "" {
		return errors.NewValidationError(field, "URL is missing a hostname")
	}
	return nil
}

// ServerURL validates the address of a JobTrack API server.
// Plain http is only accepted for loopback hosts.
func ServerURL(rawURL string) error {
	if rawURL == "" {
		return errors.NewUserError("Server URL cannot be empty", "Pass --server https://jobtrack.example.com")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return errors.NewUserErrorWithField("server", rawURL,
			"Invalid server URL",
			"Provide a URL like https://jobtrack.example.com")
	}

	hostname := parsed.Hostname()
	isLocalhost := hostname == "localhost" || hostname == "127.0.0.1" || hostname == "::1"

	switch parsed.Scheme {
	case "https":
		return nil
	case "http":
		if isLocalhost {
			return nil
		}
		return errors.NewUserErrorWithField("server", rawURL,
			"HTTP not allowed for remote servers",
			"Use https://. HTTP is only allowed for localhost.")
	default:
		return errors.NewUserErrorWithField("server", rawURL,
			"Invalid server URL scheme",
			"Server URLs must use https:// (or http:// for localhost)")
	}
}

// Positive validates that an integer is greater than zero.
func Positive(field string, value int) error {
	if value <= 0 {
		return errors.NewValidationError(field, "must be greater than zero")
	}
	return nil
}
