// Package parser turns the natural-language dates and deadlines typed on the
// command line into times.
package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/jobtrack/internal/errors"
)

// TimeParseError represents a date parsing error with helpful suggestions.
type TimeParseError struct {
	Input      string
	Field      string
	Message    string
	Examples   []string
	Suggestion string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

// Unwrap makes every parse error match ErrValidation.
func (e *TimeParseError) Unwrap() error {
	return errors.ErrValidation
}

// FormatWithExamples returns the error message with example suggestions.
func (e *TimeParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

// DateExamples provides example date formats.
var DateExamples = []string{
	"2024-05-10",
	"today",
	"yesterday",
	"last monday",
	"3 days ago",
	"may 10 2pm",
}

// DeadlineExamples provides example deadline formats.
var DeadlineExamples = []string{
	"+2d",
	"+1w",
	"2024-05-12",
	"tomorrow 5pm",
	"friday",
	"in 3 days",
}

// PeriodExamples provides example period names.
var PeriodExamples = []string{
	"today",
	"tomorrow",
	"this week",
	"next week",
	"this month",
}

// NewDateError creates a date parse error with standard examples.
func NewDateError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "date",
		Message:    "could not parse date",
		Examples:   DateExamples,
		Suggestion: "Dates can be ISO (2024-05-10) or natural language (last monday).",
	}
}

// NewDeadlineError creates a deadline parse error with standard examples.
func NewDeadlineError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "deadline",
		Message:    "could not parse deadline",
		Examples:   DeadlineExamples,
		Suggestion: "Deadlines can be relative (+2d) or absolute (friday 5pm).",
	}
}

// NewPeriodError creates a period parse error with standard examples.
func NewPeriodError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "period",
		Message:    "unknown period",
		Examples:   PeriodExamples,
		Suggestion: "Use period names like 'today', 'this week' or 'next week'.",
	}
}

// ToUserError converts a TimeParseError to a UserError for consistent handling.
func (e *TimeParseError) ToUserError() *errors.UserError {
	suggestion := e.Suggestion
	if len(e.Examples) > 0 && suggestion == "" {
		suggestion = fmt.Sprintf("Try: %s", strings.Join(e.Examples[:min(3, len(e.Examples))], ", "))
	}

	return errors.NewUserErrorWithField(e.Field, e.Input, e.Message, suggestion)
}
