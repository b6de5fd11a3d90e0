package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/runtime"
	"github.com/manav03panchal/jobtrack/internal/store"
	"github.com/manav03panchal/jobtrack/internal/views"
)

// App command flags.
var (
	appFlagDate     string
	appFlagNotes    string
	appFlagStatus   string
	appFlagCompany  string
	appFlagPosition string
	appFlagSearch   string
)

// appCmd represents the app command.
var appCmd = &cobra.Command{
	Use:     "app",
	Aliases: []string{"apps", "application", "applications", "a"},
	Short:   "Manage job applications",
	Long: `Add, list and update job applications.

Applications are listed grouped by company, newest company first.

Examples:
  jobtrack app add Acme "Backend Engineer" --date "last friday"
  jobtrack app list --search backend
  jobtrack app status 1f3c "Phone Screen"
  jobtrack app rm 1f3c`,
	RunE: runAppList,
}

var appAddCmd = &cobra.Command{
	Use:   "add COMPANY POSITION",
	Short: "Log a new application",
	Args:  cobra.ExactArgs(2),
	RunE:  runAppAdd,
}

var appListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List applications grouped by company",
	Args:    cobra.NoArgs,
	RunE:    runAppList,
}

var appShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one application",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppShow,
}

var appStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Move an application to a new status",
	Long: `Move an application to a new status.

Statuses: Applied, Online Assessment, Phone Screen, Interviewing,
Final Round, Offer Received, Accepted, Rejected, Withdrawn.`,
	Args: cobra.ExactArgs(2),
	RunE: runAppStatus,
}

var appUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Edit an application",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppUpdate,
}

var appRemoveCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete an application",
	Args:    cobra.ExactArgs(1),
	RunE:    runAppRemove,
}

var appStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count applications per status",
	Args:  cobra.NoArgs,
	RunE:  runAppStats,
}

func init() {
	appAddCmd.Flags().StringVarP(&appFlagDate, "date", "d", "", "Date applied (default today)")
	appAddCmd.Flags().StringVarP(&appFlagNotes, "notes", "n", "", "Free-form notes")
	appAddCmd.Flags().StringVarP(&appFlagStatus, "status", "s", "", "Initial status (default Applied)")

	appListCmd.Flags().StringVarP(&appFlagCompany, "company", "c", "", "Only this company")
	appListCmd.Flags().StringVarP(&appFlagSearch, "search", "q", "", "Filter by company or position")
	appListCmd.Flags().StringVarP(&appFlagStatus, "status", "s", "", "Only this status")

	appUpdateCmd.Flags().StringVar(&appFlagCompany, "company", "", "New company name")
	appUpdateCmd.Flags().StringVar(&appFlagPosition, "position", "", "New position")
	appUpdateCmd.Flags().StringVarP(&appFlagDate, "date", "d", "", "New date applied")
	appUpdateCmd.Flags().StringVarP(&appFlagNotes, "notes", "n", "", "New notes")

	appAddCmd.RegisterFlagCompletionFunc("status", completeStatuses)
	appListCmd.RegisterFlagCompletionFunc("status", completeStatuses)
	appShowCmd.ValidArgsFunction = completeApplicationIDs
	appStatusCmd.ValidArgsFunction = completeApplicationStatus
	appUpdateCmd.ValidArgsFunction = completeApplicationIDs
	appRemoveCmd.ValidArgsFunction = completeApplicationIDs

	appCmd.AddCommand(appAddCmd, appListCmd, appShowCmd, appStatusCmd, appUpdateCmd, appRemoveCmd, appStatsCmd)
	rootCmd.AddCommand(appCmd)
}

func runAppAdd(cmd *cobra.Command, args []string) error {
	tr, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	date, err := parseDateFlag(appFlagDate, now())
	if err != nil {
		return err
	}

	a := model.NewApplication(args[0], args[1], date, appFlagNotes)
	if appFlagStatus != "" {
		if a.Status, err = model.ParseStatus(appFlagStatus); err != nil {
			return err
		}
	}

	id, err := tr.Applications.Add(cmd.Context(), a)
	if err != nil {
		return saveError(err)
	}
	stored, _ := tr.Applications.Get(id)
	return printMutation("created", "application", id, stored,
		fmt.Sprintf("Logged %s at %s (%s)", a.Position, a.CompanyName, output.ShortID(id)))
}

func runAppList(cmd *cobra.Command, args []string) error {
	tr, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	apps := tr.Applications.List()
	if appFlagCompany != "" {
		apps = tr.Applications.GetByCompany(appFlagCompany)
	}
	apps = views.FilterBySearchTerm(apps, appFlagSearch)
	if appFlagStatus != "" {
		status, err := model.ParseStatus(appFlagStatus)
		if err != nil {
			return err
		}
		apps = filterByStatus(apps, status)
	}

	switch {
	case app.IsJSON():
		return app.JSONFormatter().PrintApplications(views.GroupByCompany(apps), views.AggregateCounts(apps))
	case app.IsPlain():
		app.PlainFormatter().PrintApplications(apps)
		return nil
	}
	app.CLIFormatter().PrintApplications(views.GroupByCompany(apps), views.AggregateCounts(apps))
	return nil
}

func filterByStatus(apps []*model.Application, status model.Status) []*model.Application {
	out := make([]*model.Application, 0, len(apps))
	for _, a := range apps {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

func runAppShow(cmd *cobra.Command, args []string) error {
	tr, a, err := findApplication(cmd, args[0])
	if err != nil {
		return err
	}

	if app.IsJSON() {
		return app.Formatter.JSON(a)
	}
	cli := app.CLIFormatter()
	cli.PrintApplication(a)

	events := eventsFor(tr, a)
	if len(events) > 0 {
		cli.Println()
		cli.PrintEvents(events)
	}
	return nil
}

// eventsFor returns the events of the same company and position, oldest first.
func eventsFor(tr *store.Tracker, a *model.Application) []*model.Event {
	var out []*model.Event
	for _, ev := range tr.Events.List() {
		if strings.EqualFold(strings.TrimSpace(ev.Company), strings.TrimSpace(a.CompanyName)) &&
			strings.EqualFold(strings.TrimSpace(ev.Position), strings.TrimSpace(a.Position)) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func runAppStatus(cmd *cobra.Command, args []string) error {
	tr, a, err := findApplication(cmd, args[0])
	if err != nil {
		return err
	}
	status, err := model.ParseStatus(args[1])
	if err != nil {
		return err
	}

	updated, ok, err := tr.Applications.SetStatus(cmd.Context(), a.ID, status)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrApplicationGone
	}
	return printMutation("updated", "application", a.ID, updated,
		fmt.Sprintf("%s at %s is now %s", a.Position, a.CompanyName, status))
}

func runAppUpdate(cmd *cobra.Command, args []string) error {
	tr, a, err := findApplication(cmd, args[0])
	if err != nil {
		return err
	}

	patch := model.ApplicationPatch{
		CompanyName: stringFlag(cmd, "company", appFlagCompany),
		Position:    stringFlag(cmd, "position", appFlagPosition),
		Notes:       stringFlag(cmd, "notes", appFlagNotes),
	}
	if cmd.Flags().Changed("date") {
		date, err := parseDateFlag(appFlagDate, a.DateApplied)
		if err != nil {
			return err
		}
		patch.DateApplied = &date
	}

	updated, ok, err := tr.Applications.Update(cmd.Context(), a.ID, patch)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrApplicationGone
	}
	return printMutation("updated", "application", a.ID, updated,
		fmt.Sprintf("Updated %s at %s", updated.Position, updated.CompanyName))
}

func runAppRemove(cmd *cobra.Command, args []string) error {
	tr, a, err := findApplication(cmd, args[0])
	if err != nil {
		return err
	}

	ok, err := tr.Applications.Remove(cmd.Context(), a.ID)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrApplicationGone
	}
	return printMutation("deleted", "application", a.ID, nil,
		fmt.Sprintf("Deleted %s at %s", a.Position, a.CompanyName))
}

func runAppStats(cmd *cobra.Command, args []string) error {
	tr, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	apps := tr.Applications.List()
	counts := views.CountByStatus(apps)
	if app.IsJSON() {
		return app.Formatter.JSON(StatsResponse{
			Counts:   views.AggregateCounts(apps),
			Pipeline: views.CountPipeline(apps),
			ByStatus: counts,
		})
	}

	cli := app.CLIFormatter()
	if len(counts) == 0 {
		cli.Muted("No applications yet.")
		return nil
	}
	cli.PrintStatusCounts(counts)
	cli.Println()
	cli.PrintCounts(views.AggregateCounts(apps))
	cli.PrintPipeline(views.CountPipeline(apps))
	return nil
}

// StatsResponse is the JSON output of app stats.
type StatsResponse struct {
	Counts   views.Counts        `json:"counts"`
	Pipeline views.Pipeline      `json:"pipeline"`
	ByStatus []views.StatusCount `json:"by_status"`
}

// findApplication resolves an id or id prefix.
func findApplication(cmd *cobra.Command, ref string) (*store.Tracker, *model.Application, error) {
	tr, err := loadTracker(cmd)
	if err != nil {
		return nil, nil, err
	}
	id, err := runtime.ResolveID(tr.Applications.List(), ref, runtime.ErrApplicationGone)
	if err != nil {
		return nil, nil, err
	}
	a, ok := tr.Applications.Get(id)
	if !ok {
		return nil, nil, runtime.ErrApplicationGone
	}
	return tr, a, nil
}
