package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/jobtrack/internal/errors"
)

// Wednesday.
var now = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

// =============================================================================
// Date Tests
// =============================================================================

func TestParseDateKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"", now},
		{"now", now},
		{"today", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
		{"Yesterday", time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseDateNaturalLanguage(t *testing.T) {
	got, err := ParseDate("3 days ago", now)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Day())
	assert.Equal(t, time.May, got.Month())
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("2024-13-45", now)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = ParseDate("not a date at all", now)
	var pe *TimeParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "date", pe.Field)
}

// =============================================================================
// Deadline Tests
// =============================================================================

func TestParseDeadlineRelative(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"+30m", now.Add(30 * time.Minute)},
		{"+5h", now.Add(5 * time.Hour)},
		{"+2d", now.AddDate(0, 0, 2)},
		{"+1w", now.AddDate(0, 0, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDeadline(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDeadlineISODate(t *testing.T) {
	got, err := ParseDeadline("2024-05-12", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 12, 23, 59, 0, 0, time.UTC), got)
}

func TestParseDeadlineInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "+0d", "+3y", "+5x", "+2 d", "+", "whenever you like"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDeadline(input, now)
			assert.ErrorIs(t, err, errors.ErrValidation)
		})
	}
}

// =============================================================================
// Period Tests
// =============================================================================

func TestParsePeriod(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		input string
		want  Range
	}{
		{"today", Range{day(15), day(16)}},
		{"yesterday", Range{day(14), day(15)}},
		{"tomorrow", Range{day(16), day(17)}},
		{"this week", Range{day(13), day(20)}},
		{"last week", Range{day(6), day(13)}},
		{"Next Week", Range{day(20), day(27)}},
		{"this month", Range{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}},
		{"next month", Range{time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriod(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePeriod("someday", now)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestParsePeriodSunday(t *testing.T) {
	sunday := time.Date(2024, 5, 19, 18, 0, 0, 0, time.UTC)
	got, err := ParsePeriod("this week", sunday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), got.Start)
}

func TestRangeContains(t *testing.T) {
	r, err := ParsePeriod("today", now)
	require.NoError(t, err)

	assert.True(t, r.Contains(r.Start))
	assert.True(t, r.Contains(now))
	assert.False(t, r.Contains(r.End))
}

// =============================================================================
// Error Tests
// =============================================================================

func TestFormatWithExamples(t *testing.T) {
	err := NewDeadlineError("soonish")
	out := err.FormatWithExamples()

	assert.Contains(t, out, "invalid deadline 'soonish': could not parse deadline")
	assert.Contains(t, out, "Valid examples:")
	assert.Contains(t, out, "  - +2d")
	assert.Contains(t, out, "Deadlines can be relative")
}

func TestToUserError(t *testing.T) {
	ue := NewDateError("someday").ToUserError()
	assert.Equal(t, "date", ue.Field)
	assert.Equal(t, "someday", ue.Value)
	assert.Contains(t, ue.Suggestion, "ISO")

	bare := &TimeParseError{Field: "date", Input: "x", Message: "bad", Examples: []string{"a", "b", "c", "d"}}
	assert.Equal(t, "Try: a, b, c", bare.ToUserError().Suggestion)
}
