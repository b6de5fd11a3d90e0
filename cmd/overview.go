package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/views"
)

// OverviewResponse is the JSON output of the bare jobtrack command.
type OverviewResponse struct {
	Counts   views.Counts        `json:"counts"`
	Today    []*model.Event      `json:"today"`
	Pending  []views.PendingItem `json:"pending"`
	Progress views.Progress      `json:"progress"`
}

// runOverview prints application counts, today's events, open action items
// and the daily problem progress.
func runOverview(cmd *cobra.Command, args []string) error {
	tr, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	t := now()
	resp := OverviewResponse{
		Counts:   views.AggregateCounts(tr.Applications.List()),
		Today:    tr.Events.GetByDay(t),
		Pending:  views.PendingActionItems(tr.Events.List()),
		Progress: views.ProblemProgress(tr.Problems.List(), tr.DailyGoal()),
	}

	if app.IsJSON() {
		if resp.Today == nil {
			resp.Today = []*model.Event{}
		}
		if resp.Pending == nil {
			resp.Pending = []views.PendingItem{}
		}
		return app.Formatter.JSON(resp)
	}
	if app.IsPlain() {
		app.PlainFormatter().PrintPending(resp.Pending)
		return nil
	}

	cli := app.CLIFormatter()
	cli.Now = t
	cli.Title("JobTrack · " + output.FormatDay(t))
	cli.PrintCounts(resp.Counts)
	cli.Println()

	cli.Title("Today")
	if len(resp.Today) == 0 {
		cli.Muted("Nothing scheduled.")
	} else {
		cli.PrintEvents(resp.Today)
	}
	cli.Println()

	cli.Title("Action items")
	cli.PrintPending(resp.Pending)
	cli.Println()

	cli.Title("Problems")
	cli.PrintProgress(resp.Progress)
	return nil
}
