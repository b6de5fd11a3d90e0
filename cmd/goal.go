package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/validate"
	"github.com/manav03panchal/jobtrack/internal/views"
)

// goalCmd represents the goal command.
var goalCmd = &cobra.Command{
	Use:   "goal [N]",
	Short: "Show or set the daily problem goal",
	Long: `Show or set how many problems to solve per day.

The goal is kept on this machine even while signed in to a server.

Examples:
  jobtrack goal
  jobtrack goal 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGoal,
}

func init() {
	rootCmd.AddCommand(goalCmd)
}

func runGoal(cmd *cobra.Command, args []string) error {
	tr, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		goal, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.NewValidationError("goal", "not a number")
		}
		if err := validate.Positive("goal", goal); err != nil {
			return err
		}
		if err := tr.SetDailyGoal(goal); err != nil {
			return saveError(err)
		}
		if app.IsJSON() {
			return app.Formatter.JSON(output.GoalResponse{DailyGoal: goal})
		}
		if app.IsPlain() {
			app.Formatter.Println(goal)
			return nil
		}
		app.CLIFormatter().Success(fmt.Sprintf("Daily goal set to %d", goal))
		return nil
	}

	if app.IsJSON() {
		return app.Formatter.JSON(output.GoalResponse{DailyGoal: tr.DailyGoal()})
	}
	if app.IsPlain() {
		app.Formatter.Println(tr.DailyGoal())
		return nil
	}
	app.CLIFormatter().PrintProgress(views.ProblemProgress(tr.Problems.List(), tr.DailyGoal()))
	return nil
}
