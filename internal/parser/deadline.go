package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// relativeRegex matches relative time expressions like "+5h", "+2d", "+1w".
var relativeRegex = regexp.MustCompile(`^\+(\d+)([mhdw])$`)

// ParseDeadline parses the deadline of an action item.
// Supports formats like:
//   - "+5h", "+2d", "+1w" (relative)
//   - "2024-05-12" (end of that day)
//   - "friday 5pm", "tomorrow" (natural language)
//
// Past deadlines are accepted; they show up as overdue.
func ParseDeadline(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, NewDeadlineError(input)
	}

	if match := relativeRegex.FindStringSubmatch(input); match != nil {
		return parseRelativeDeadline(input, match[1], match[2], now)
	}
	// The date parser reads unknown offsets as unrelated dates.
	if strings.HasPrefix(input, "+") {
		return time.Time{}, NewDeadlineError(input)
	}

	if isoDate.MatchString(input) {
		day, err := time.ParseInLocation("2006-01-02", input, now.Location())
		if err != nil {
			return time.Time{}, NewDeadlineError(input)
		}
		return endOfDay(day), nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return time.Time{}, NewDeadlineError(input)
	}
	return result.Time.In(now.Location()), nil
}

// parseRelativeDeadline parses relative time expressions.
func parseRelativeDeadline(input, numStr, unit string, now time.Time) (time.Time, error) {
	num, err := strconv.Atoi(numStr)
	if err != nil || num <= 0 {
		return time.Time{}, NewDeadlineError(input)
	}

	switch unit {
	case "m":
		return now.Add(time.Duration(num) * time.Minute), nil
	case "h":
		return now.Add(time.Duration(num) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, num), nil
	case "w":
		return now.AddDate(0, 0, 7*num), nil
	}
	return time.Time{}, NewDeadlineError(input)
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 0, 0, day.Location())
}
