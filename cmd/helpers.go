package cmd

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/parser"
	"github.com/manav03panchal/jobtrack/internal/runtime"
	"github.com/manav03panchal/jobtrack/internal/store"
)

// now is the clock used for natural-language dates and due times.
var now = time.Now

// loadTracker returns the hydrated tracker of the current user.
func loadTracker(cmd *cobra.Command) (*store.Tracker, error) {
	return app.Tracker(cmd.Context())
}

// parseDateFlag parses an optional date flag. An empty value yields fallback.
func parseDateFlag(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return parser.ParseDate(value, now())
}

// parseDeadlineFlag parses an optional deadline flag.
func parseDeadlineFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parser.ParseDeadline(value, now())
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// saveError adds disk-full context to a failed write.
func saveError(err error) error {
	return runtime.WrapDiskFullError(err, "save", app.DB.Path())
}

// printMutation reports a created, changed or removed record.
func printMutation(verb, kind, id string, record any, message string) error {
	switch {
	case app.IsJSON():
		return app.JSONFormatter().PrintMutation(verb, kind, id, record)
	case app.IsPlain():
		app.Formatter.Println(id)
		return nil
	}
	app.CLIFormatter().Success(message)
	return nil
}

// stringFlag returns a pointer to a flag value when the flag was set.
func stringFlag(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// parseTTL parses a token lifetime such as 24h or 30d. 0 means no expiry.
func parseTTL(value string) (time.Duration, error) {
	if value == "0" {
		return 0, nil
	}
	if strings.HasSuffix(value, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(value, "d"))
		if err == nil && days >= 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, errors.NewUserErrorWithField("ttl", value, "Invalid token lifetime",
			"Use a duration like 12h, 30d or 0 for no expiry")
	}
	return d, nil
}
