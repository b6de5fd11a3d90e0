package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// isoDate matches a bare calendar date.
var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// periodRegex matches period expressions like "this week", "next month".
var periodRegex = regexp.MustCompile(`(?i)^(this|current|last|previous|next)\s+(week|month)$`)

// ParseDate parses the date of an application or an event. A bare ISO date
// is midnight of that day in now's location. Anything else goes through
// natural language parsing relative to now.
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "", "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	case "tomorrow":
		return startOfDay(now).AddDate(0, 0, 1), nil
	}

	if isoDate.MatchString(input) {
		t, err := time.ParseInLocation("2006-01-02", input, now.Location())
		if err != nil {
			return time.Time{}, NewDateError(input)
		}
		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return time.Time{}, NewDateError(input)
	}
	return result.Time.In(now.Location()), nil
}

// Range is a half-open interval of time.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside r.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ParsePeriod returns the range named by period, e.g. "today" or
// "next week". Weeks start on Monday.
func ParsePeriod(period string, now time.Time) (Range, error) {
	normalized := strings.ToLower(strings.TrimSpace(period))
	day := startOfDay(now)

	switch normalized {
	case "today":
		return Range{Start: day, End: day.AddDate(0, 0, 1)}, nil
	case "yesterday":
		return Range{Start: day.AddDate(0, 0, -1), End: day}, nil
	case "tomorrow":
		return Range{Start: day.AddDate(0, 0, 1), End: day.AddDate(0, 0, 2)}, nil
	}

	match := periodRegex.FindStringSubmatch(normalized)
	if match == nil {
		return Range{}, NewPeriodError(period)
	}

	offset := 0
	switch match[1] {
	case "last", "previous":
		offset = -1
	case "next":
		offset = 1
	}

	if match[2] == "week" {
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday
		}
		start := day.AddDate(0, 0, -weekday+1+7*offset)
		return Range{Start: start, End: start.AddDate(0, 0, 7)}, nil
	}

	start := time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, now.Location())
	return Range{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
