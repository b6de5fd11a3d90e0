package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/storage"
	"github.com/manav03panchal/jobtrack/internal/store"
	"github.com/manav03panchal/jobtrack/internal/tui"
)

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "d", "tui"},
	Short:   "Open the interactive TUI dashboard",
	Long: `Open an interactive terminal dashboard.

The dashboard shows:
  - Applications grouped by company with pipeline counts
  - Today's events and open action items
  - Practice problems and the daily goal

When working locally the dashboard releases the database between reads,
so commands run from another terminal still work. Their changes show up
within a second.

Keyboard Controls:
  tab   - Switch pane
  j/k   - Move in the problem list
  x     - Toggle the selected problem
  r     - Reload data
  q     - Quit dashboard

Examples:
  jobtrack dashboard
  jobtrack tui`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	tr, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	var watcher store.Watcher
	if !app.Authenticated() {
		if err := app.DB.Detach(); err != nil && !errors.Is(err, storage.ErrInMemory) {
			return err
		}
		watcher = app.DB
	}
	return tui.Run(cmd.Context(), tr, watcher)
}
