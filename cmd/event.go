package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/parser"
	"github.com/manav03panchal/jobtrack/internal/runtime"
	"github.com/manav03panchal/jobtrack/internal/store"
	"github.com/manav03panchal/jobtrack/internal/validate"
	"github.com/manav03panchal/jobtrack/internal/views"
)

// Event command flags.
var (
	eventFlagStep     string
	eventFlagDate     string
	eventFlagLink     string
	eventFlagNotes    string
	eventFlagCompany  string
	eventFlagPosition string
	eventFlagPeriod   string
	eventFlagDay      string
	eventFlagDeadline string
)

// eventCmd represents the event command.
var eventCmd = &cobra.Command{
	Use:     "event",
	Aliases: []string{"events", "ev", "e"},
	Short:   "Manage interview calendar events",
	Long: `Schedule interview steps and track their action items.

Examples:
  jobtrack event add Acme "Backend Engineer" --step "Phone Screen" --date "tomorrow 3pm"
  jobtrack event list --period "this week"
  jobtrack event item add 7a2e "Prepare system design notes" --deadline +2d
  jobtrack event item toggle 7a2e 91bc
  jobtrack event pending`,
	RunE: runEventList,
}

var eventAddCmd = &cobra.Command{
	Use:   "add COMPANY POSITION",
	Short: "Schedule an event",
	Args:  cobra.ExactArgs(2),
	RunE:  runEventAdd,
}

var eventListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List events in date order",
	Args:    cobra.NoArgs,
	RunE:    runEventList,
}

var eventUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Edit an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventUpdate,
}

var eventRemoveCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete an event and its action items",
	Args:    cobra.ExactArgs(1),
	RunE:    runEventRemove,
}

var eventItemCmd = &cobra.Command{
	Use:     "item",
	Aliases: []string{"items", "todo"},
	Short:   "Manage the action items of an event",
}

var eventItemAddCmd = &cobra.Command{
	Use:   "add EVENT TEXT",
	Short: "Add an action item",
	Args:  cobra.ExactArgs(2),
	RunE:  runEventItemAdd,
}

var eventItemToggleCmd = &cobra.Command{
	Use:     "toggle EVENT ITEM",
	Aliases: []string{"done"},
	Short:   "Mark an action item done or open",
	Args:    cobra.ExactArgs(2),
	RunE:    runEventItemToggle,
}

var eventItemDueCmd = &cobra.Command{
	Use:     "due EVENT ITEM [DEADLINE]",
	Aliases: []string{"deadline"},
	Short:   "Set or clear the deadline of an action item",
	Long: `Set the deadline of an action item, or clear it when DEADLINE is omitted.

Examples:
  jobtrack event item due 7a2e 91bc friday
  jobtrack event item due 7a2e 91bc +3d
  jobtrack event item due 7a2e 91bc`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runEventItemDue,
}

var eventItemRemoveCmd = &cobra.Command{
	Use:     "rm EVENT ITEM",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete an action item",
	Args:    cobra.ExactArgs(2),
	RunE:    runEventItemRemove,
}

var eventPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List open action items by deadline",
	Args:  cobra.NoArgs,
	RunE:  runEventPending,
}

func init() {
	eventAddCmd.Flags().StringVarP(&eventFlagStep, "step", "s", "", "Interview step (default Application Submitted)")
	eventAddCmd.Flags().StringVarP(&eventFlagDate, "date", "d", "", "When it happens (default now)")
	eventAddCmd.Flags().StringVarP(&eventFlagLink, "link", "l", "", "Meeting or assessment link")
	eventAddCmd.Flags().StringVarP(&eventFlagNotes, "notes", "n", "", "Free-form notes")

	eventListCmd.Flags().StringVarP(&eventFlagPeriod, "period", "p", "", "today, this week, last month, ...")
	eventListCmd.Flags().StringVar(&eventFlagDay, "day", "", "Only events on this day")

	eventUpdateCmd.Flags().StringVar(&eventFlagCompany, "company", "", "New company name")
	eventUpdateCmd.Flags().StringVar(&eventFlagPosition, "position", "", "New position")
	eventUpdateCmd.Flags().StringVarP(&eventFlagStep, "step", "s", "", "New interview step")
	eventUpdateCmd.Flags().StringVarP(&eventFlagDate, "date", "d", "", "New date")
	eventUpdateCmd.Flags().StringVarP(&eventFlagLink, "link", "l", "", "New link")
	eventUpdateCmd.Flags().StringVarP(&eventFlagNotes, "notes", "n", "", "New notes")

	eventItemAddCmd.Flags().StringVar(&eventFlagDeadline, "deadline", "", "Due date, e.g. friday, 2024-06-01 or +3d")

	eventAddCmd.RegisterFlagCompletionFunc("step", completeSteps)
	eventUpdateCmd.RegisterFlagCompletionFunc("step", completeSteps)
	eventListCmd.RegisterFlagCompletionFunc("period", completePeriods)
	eventUpdateCmd.ValidArgsFunction = completeEventIDs
	eventRemoveCmd.ValidArgsFunction = completeEventIDs
	eventItemAddCmd.ValidArgsFunction = completeEventIDs
	eventItemToggleCmd.ValidArgsFunction = completeActionItemIDs
	eventItemDueCmd.ValidArgsFunction = completeActionItemIDs
	eventItemRemoveCmd.ValidArgsFunction = completeActionItemIDs

	eventItemCmd.AddCommand(eventItemAddCmd, eventItemToggleCmd, eventItemDueCmd, eventItemRemoveCmd)
	eventCmd.AddCommand(eventAddCmd, eventListCmd, eventUpdateCmd, eventRemoveCmd, eventItemCmd, eventPendingCmd)
	rootCmd.AddCommand(eventCmd)
}

func runEventAdd(cmd *cobra.Command, args []string) error {
	tr, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	step := model.StepApplicationSubmitted
	if eventFlagStep != "" {
		if step, err = model.ParseStep(eventFlagStep); err != nil {
			return err
		}
	}
	date, err := parseDateFlag(eventFlagDate, now())
	if err != nil {
		return err
	}

	ev := model.NewEvent(date, args[0], args[1], step)
	ev.Link = eventFlagLink
	ev.Notes = validate.SanitizeNote(eventFlagNotes)

	id, err := tr.Events.Add(cmd.Context(), ev)
	if err != nil {
		return saveError(err)
	}
	stored, _ := tr.Events.Get(id)
	return printMutation("created", "event", id, stored,
		fmt.Sprintf("Scheduled %s with %s on %s (%s)", step, ev.Company, output.FormatTime(date), output.ShortID(id)))
}

func runEventList(cmd *cobra.Command, args []string) error {
	tr, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	events := tr.Events.List()
	switch {
	case eventFlagDay != "":
		day, err := parser.ParseDate(eventFlagDay, now())
		if err != nil {
			return err
		}
		events = tr.Events.GetByDay(day)
	case eventFlagPeriod != "":
		r, err := parser.ParsePeriod(eventFlagPeriod, now())
		if err != nil {
			return err
		}
		events = inRange(events, r)
	}
	sortEvents(events)

	switch {
	case app.IsJSON():
		return app.JSONFormatter().PrintEvents(events)
	case app.IsPlain():
		app.PlainFormatter().PrintEvents(events)
		return nil
	}
	cli := app.CLIFormatter()
	cli.Now = now()
	cli.PrintEvents(events)
	return nil
}

func inRange(events []*model.Event, r parser.Range) []*model.Event {
	out := make([]*model.Event, 0, len(events))
	for _, ev := range events {
		if r.Contains(ev.Date) {
			out = append(out, ev)
		}
	}
	return out
}

func sortEvents(events []*model.Event) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
}

func runEventUpdate(cmd *cobra.Command, args []string) error {
	tr, ev, err := findEvent(cmd, args[0])
	if err != nil {
		return err
	}

	patch := model.EventPatch{
		Company:  stringFlag(cmd, "company", eventFlagCompany),
		Position: stringFlag(cmd, "position", eventFlagPosition),
		Link:     stringFlag(cmd, "link", eventFlagLink),
		Notes:    stringFlag(cmd, "notes", eventFlagNotes),
	}
	if cmd.Flags().Changed("step") {
		step, err := model.ParseStep(eventFlagStep)
		if err != nil {
			return err
		}
		patch.Step = &step
	}
	if cmd.Flags().Changed("date") {
		date, err := parseDateFlag(eventFlagDate, ev.Date)
		if err != nil {
			return err
		}
		patch.Date = &date
	}

	updated, ok, err := tr.Events.Update(cmd.Context(), ev.ID, patch)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrEventGone
	}
	return printMutation("updated", "event", ev.ID, updated,
		fmt.Sprintf("Updated %s with %s", updated.Step, updated.Company))
}

func runEventRemove(cmd *cobra.Command, args []string) error {
	tr, ev, err := findEvent(cmd, args[0])
	if err != nil {
		return err
	}

	ok, err := tr.Events.Remove(cmd.Context(), ev.ID)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrEventGone
	}
	return printMutation("deleted", "event", ev.ID, nil,
		fmt.Sprintf("Deleted %s with %s", ev.Step, ev.Company))
}

func runEventItemAdd(cmd *cobra.Command, args []string) error {
	tr, ev, err := findEvent(cmd, args[0])
	if err != nil {
		return err
	}
	deadline, err := parseDeadlineFlag(eventFlagDeadline)
	if err != nil {
		return err
	}

	item, ok, err := tr.Events.AddActionItem(cmd.Context(), ev.ID, args[1], deadline)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrEventGone
	}

	msg := fmt.Sprintf("Added %q to %s with %s", item.Text, ev.Step, ev.Company)
	if item.Deadline != nil {
		msg += ", " + output.FormatDue(*item.Deadline, now())
	}
	return printMutation("created", "action_item", item.ID, item, msg)
}

func runEventItemToggle(cmd *cobra.Command, args []string) error {
	tr, ev, itemID, err := findActionItem(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	ok, err := tr.Events.ToggleActionItem(cmd.Context(), ev.ID, itemID)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrActionItemGone
	}

	updated, _ := tr.Events.Get(ev.ID)
	item, _ := updated.ActionItem(itemID)
	msg := fmt.Sprintf("Reopened %q", item.Text)
	if item.Completed {
		msg = fmt.Sprintf("Completed %q", item.Text)
	}
	return printMutation("updated", "action_item", itemID, item, msg)
}

func runEventItemDue(cmd *cobra.Command, args []string) error {
	tr, ev, itemID, err := findActionItem(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	var deadline *time.Time
	if len(args) == 3 {
		if deadline, err = parseDeadlineFlag(args[2]); err != nil {
			return err
		}
	}

	ok, err := tr.Events.SetActionItemDeadline(cmd.Context(), ev.ID, itemID, deadline)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrActionItemGone
	}

	updated, _ := tr.Events.Get(ev.ID)
	item, _ := updated.ActionItem(itemID)
	msg := fmt.Sprintf("Cleared the deadline of %q", item.Text)
	if item.Deadline != nil {
		msg = fmt.Sprintf("%q is %s", item.Text, output.FormatDue(*item.Deadline, now()))
	}
	return printMutation("updated", "action_item", itemID, item, msg)
}

func runEventItemRemove(cmd *cobra.Command, args []string) error {
	tr, ev, itemID, err := findActionItem(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	item, _ := ev.ActionItem(itemID)

	ok, err := tr.Events.RemoveActionItem(cmd.Context(), ev.ID, itemID)
	if err != nil {
		return saveError(err)
	}
	if !ok {
		return runtime.ErrActionItemGone
	}
	return printMutation("deleted", "action_item", itemID, nil, fmt.Sprintf("Deleted %q", item.Text))
}

func runEventPending(cmd *cobra.Command, args []string) error {
	tr, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	items := views.PendingActionItems(tr.Events.List())
	switch {
	case app.IsJSON():
		return app.JSONFormatter().PrintPending(items)
	case app.IsPlain():
		app.PlainFormatter().PrintPending(items)
		return nil
	}
	cli := app.CLIFormatter()
	cli.Now = now()
	cli.PrintPending(items)
	return nil
}

// findEvent resolves an id or id prefix.
func findEvent(cmd *cobra.Command, ref string) (*store.Tracker, *model.Event, error) {
	tr, err := loadTracker(cmd)
	if err != nil {
		return nil, nil, err
	}
	id, err := runtime.ResolveID(tr.Events.List(), ref, runtime.ErrEventGone)
	if err != nil {
		return nil, nil, err
	}
	ev, ok := tr.Events.Get(id)
	if !ok {
		return nil, nil, runtime.ErrEventGone
	}
	return tr, ev, nil
}

func findActionItem(cmd *cobra.Command, eventRef, itemRef string) (*store.Tracker, *model.Event, string, error) {
	tr, ev, err := findEvent(cmd, eventRef)
	if err != nil {
		return nil, nil, "", err
	}
	itemID, err := runtime.ResolveItemID(ev.ActionItems, itemRef)
	if err != nil {
		return nil, nil, "", err
	}
	return tr, ev, itemID, nil
}
