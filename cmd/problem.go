package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/runtime"
	"github.com/manav03panchal/jobtrack/internal/store"
	"github.com/manav03panchal/jobtrack/internal/views"
)

// Problem command flags.
var (
	problemFlagDifficulty string
	problemFlagURL        string
	problemFlagName       string
	problemFlagOpen       bool
)

// problemCmd represents the problem command.
var problemCmd = &cobra.Command{
	Use:     "problem",
	Aliases: []string{"problems", "lc", "p"},
	Short:   "Track practice problems against the daily goal",
	Long: `Keep a list of practice problems and tick them off.

Completed problems count towards the daily goal (see 'jobtrack goal').

Examples:
  jobtrack problem add "Two Sum" --difficulty easy --url https://leetcode.com/problems/two-sum/
  jobtrack problem toggle 3b9f
  jobtrack problem list --open`,
	RunE: runProblemList,
}

var problemAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a problem",
	Args:  cobra.ExactArgs(1),
	RunE:  runProblemAdd,
}

var problemListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List problems with goal progress",
	Args:    cobra.NoArgs,
	RunE:    runProblemList,
}

var problemToggleCmd = &cobra.Command{
	Use:     "toggle ID",
	Aliases: []string{"done"},
	Short:   "Mark a problem solved or unsolved",
	Args:    cobra.ExactArgs(1),
	RunE:    runProblemToggle,
}

var problemUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Edit a problem",
	Args:  cobra.ExactArgs(1),
	RunE:  runProblemUpdate,
}

var problemRemoveCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a problem",
	Args:    cobra.ExactArgs(1),
	RunE:    runProblemRemove,
}

func init() {
	problemAddCmd.Flags().StringVarP(&problemFlagDifficulty, "difficulty", "d", "", "Easy, Medium or Hard (default Medium)")
	problemAddCmd.Flags().StringVarP(&problemFlagURL, "url", "u", "", "Problem link")

	problemListCmd.Flags().BoolVar(&problemFlagOpen, "open", false, "Only unsolved problems")

	problemUpdateCmd.Flags().StringVar(&problemFlagName, "name", "", "New name")
	problemUpdateCmd.Flags().StringVarP(&problemFlagDifficulty, "difficulty", "d", "", "New difficulty")
	problemUpdateCmd.Flags().StringVarP(&problemFlagURL, "url", "u", "", "New link")

	problemAddCmd.RegisterFlagCompletionFunc("difficulty", completeDifficulties)
	problemUpdateCmd.RegisterFlagCompletionFunc("difficulty", completeDifficulties)
	problemToggleCmd.ValidArgsFunction = completeProblemIDs
	problemUpdateCmd.ValidArgsFunction = completeProblemIDs
	problemRemoveCmd.ValidArgsFunction = completeProblemIDs

	problemCmd.AddCommand(problemAddCmd, problemListCmd, problemToggleCmd, problemUpdateCmd, problemRemoveCmd)
	rootCmd.AddCommand(problemCmd)
}

func runProblemAdd(cmd *cobra.Command, args []string) error {
	tr, err := loadTracker(cmd)
	if err != nil {
		return err
	}
	difficulty := model.DifficultyMedium
	if problemFlagDifficulty != "" {
		if difficulty, err = model.ParseDifficulty(problemFlagDifficulty); err != nil {
			return err
		}
	}

	p := model.NewProblem(args[0], difficulty, problemFlagURL)
	id, err := tr.Problems.Add(cmd.Context(), p)
	if err != nil {
		return saveError(err)
	}
	stored, _ := tr.Problems.Get(id)
	return printMutation("created", "problem", id, stored,
		fmt.Sprintf("Added %s (%s, %s)", p.Name, p.Difficulty, output.ShortID(id)))
}

func runProblemList(cmd *cobra.Command, args []string) error {
	tr, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	all := tr.Problems.List()
	progress := views.ProblemProgress(all, tr.DailyGoal())
	problems := all
	if problemFlagOpen {
		problems = make([]*model.Problem, 0, len(all))
		for _, p := range all {
			if !p.Completed {
				problems = append(problems, p)
			}
		}
	}

	switch {
	case app.IsJSON():
		return app.JSONFormatter().PrintProblems(problems, progress)
	case app.IsPlain():
		app.PlainFormatter().PrintProblems(problems)
		return nil
	}
	app.CLIFormatter().PrintProblems(problems, progress)
	return nil
}

func runProblemToggle(cmd *cobra.Command, args []string) error {
	tr, p, err := findProblem(cmd, args[0])
	if err != nil {
		return err
	}

	updated, ok, err := tr.Problems.Toggle(cmd.Context(), p.ID)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrProblemGone
	}

	msg := "Reopened " + updated.Name
	if updated.Completed {
		progress := views.ProblemProgress(tr.Problems.List(), tr.DailyGoal())
		msg = fmt.Sprintf("Solved %s (%d/%d today)", updated.Name, progress.Completed, progress.Goal)
	}
	return printMutation("updated", "problem", p.ID, updated, msg)
}

func runProblemUpdate(cmd *cobra.Command, args []string) error {
	tr, p, err := findProblem(cmd, args[0])
	if err != nil {
		return err
	}

	patch := model.ProblemPatch{
		Name: stringFlag(cmd, "name", problemFlagName),
		URL:  stringFlag(cmd, "url", problemFlagURL),
	}
	if cmd.Flags().Changed("difficulty") {
		d, err := model.ParseDifficulty(problemFlagDifficulty)
		if err != nil {
			return err
		}
		patch.Difficulty = &d
	}

	updated, ok, err := tr.Problems.Update(cmd.Context(), p.ID, patch)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrProblemGone
	}
	return printMutation("updated", "problem", p.ID, updated, "Updated "+updated.Name)
}

func runProblemRemove(cmd *cobra.Command, args []string) error {
	tr, p, err := findProblem(cmd, args[0])
	if err != nil {
		return err
	}

	ok, err := tr.Problems.Remove(cmd.Context(), p.ID)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrProblemGone
	}
	return printMutation("deleted", "problem", p.ID, nil, "Deleted "+p.Name)
}

// findProblem resolves an id or id prefix.
func findProblem(cmd *cobra.Command, ref string) (*store.Tracker, *model.Problem, error) {
	tr, err := loadTracker(cmd)
	if err != nil {
		return nil, nil, err
	}
	id, err := runtime.ResolveID(tr.Problems.List(), ref, runtime.ErrProblemGone)
	if err != nil {
		return nil, nil, err
	}
	p, ok := tr.Problems.Get(id)
	if !ok {
		return nil, nil, runtime.ErrProblemGone
	}
	return tr, p, nil
}
