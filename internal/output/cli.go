package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/views"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#10B981") // Green
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorWarning   = lipgloss.Color("#F59E0B") // Yellow
	colorError     = lipgloss.Color("#EF4444") // Red
	colorInfo      = lipgloss.Color("#3B82F6") // Blue

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSecondary)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleCompany = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleNote = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorMuted)
)

// statusColors colors each application status.
var statusColors = map[model.Status]lipgloss.Color{
	model.StatusApplied:          colorMuted,
	model.StatusOnlineAssessment: colorInfo,
	model.StatusPhoneScreen:      colorInfo,
	model.StatusInterviewing:     colorWarning,
	model.StatusFinalRound:       colorWarning,
	model.StatusOfferReceived:    colorSecondary,
	model.StatusAccepted:         colorSecondary,
	model.StatusRejected:         colorError,
	model.StatusWithdrawn:        colorMuted,
}

// difficultyColors colors each problem difficulty.
var difficultyColors = map[model.Difficulty]lipgloss.Color{
	model.DifficultyEasy:   colorSecondary,
	model.DifficultyMedium: colorWarning,
	model.DifficultyHard:   colorError,
}

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
	// Now is the reference time for deadlines. Zero means time.Now.
	Now time.Time
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) now() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// Status formats an application status.
func (c *CLIFormatter) Status(s model.Status) string {
	return c.render(lipgloss.NewStyle().Foreground(statusColors[s]), string(s))
}

// Difficulty formats a problem difficulty.
func (c *CLIFormatter) Difficulty(d model.Difficulty) string {
	return c.render(lipgloss.NewStyle().Foreground(difficultyColors[d]), string(d))
}

// Note formats a note.
func (c *CLIFormatter) Note(text string) string {
	return c.render(styleNote, text)
}

// ShortID shortens a record id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// PrintApplications prints applications grouped by company.
func (c *CLIFormatter) PrintApplications(groups []views.CompanyGroup, counts views.Counts) {
	if len(groups) == 0 {
		c.Muted("No applications yet.")
		c.Muted("Use 'jobtrack app add <company> <position>' to log one.")
		return
	}

	for _, g := range groups {
		c.Printf("%s %s\n", c.render(styleCompany, g.Company),
			c.render(styleMuted, fmt.Sprintf("(%d)", len(g.Applications))))
		for _, a := range g.Applications {
			c.Printf("  %s  %-28s %s  %s\n",
				c.render(styleMuted, ShortID(a.ID)),
				a.Position,
				FormatDate(a.DateApplied),
				c.Status(a.Status))
			if a.Notes != "" {
				c.Printf("            %s\n", c.Note(a.Notes))
			}
		}
	}
	c.Println()
	c.PrintCounts(counts)
}

// PrintCounts prints the application summary line.
func (c *CLIFormatter) PrintCounts(counts views.Counts) {
	c.Printf("%s applications  %s interviewing  %s offers\n",
		c.render(styleBold, fmt.Sprint(counts.Total)),
		c.render(styleBold, fmt.Sprint(counts.Interviewing)),
		c.render(styleBold, fmt.Sprint(counts.Offers)))
}

// PrintPipeline prints how many applications are still open.
func (c *CLIFormatter) PrintPipeline(p views.Pipeline) {
	c.Printf("%s open  %s closed\n",
		c.render(styleBold, fmt.Sprint(p.Open)),
		c.render(styleBold, fmt.Sprint(p.Closed)))
}

// PrintApplication prints one application in detail.
func (c *CLIFormatter) PrintApplication(a *model.Application) {
	c.Printf("%s at %s\n", c.render(styleBold, a.Position), c.render(styleCompany, a.CompanyName))
	c.Printf("  ID: %s\n", a.ID)
	c.Printf("  Applied: %s\n", FormatDate(a.DateApplied))
	c.Printf("  Status: %s\n", c.Status(a.Status))
	if a.Notes != "" {
		c.Printf("  Notes: %s\n", c.Note(a.Notes))
	}
}

// PrintEvents prints events in date order with their action items.
func (c *CLIFormatter) PrintEvents(events []*model.Event) {
	if len(events) == 0 {
		c.Muted("No events.")
		return
	}

	for _, ev := range events {
		c.Printf("%s  %s  %s %s\n",
			c.render(styleMuted, ShortID(ev.ID)),
			FormatTime(ev.Date),
			c.render(styleCompany, ev.Company),
			ev.Position)
		c.Printf("    %s", ev.Step)
		if ev.Link != "" {
			c.Printf("  %s", c.render(styleMuted, ev.Link))
		}
		c.Println()
		c.printItems(ev.ActionItems)
		if ev.Notes != "" {
			c.Printf("    %s\n", c.Note(ev.Notes))
		}
	}
}

func (c *CLIFormatter) printItems(items []model.ActionItem) {
	for _, item := range items {
		box := "[ ]"
		if item.Completed {
			box = c.render(styleSuccess, "[x]")
		}
		line := fmt.Sprintf("    %s %s %s", box, c.render(styleMuted, ShortID(item.ID)), item.Text)
		if item.Deadline != nil && !item.Completed {
			due := FormatDue(*item.Deadline, c.now())
			if item.Deadline.Before(c.now()) {
				due = c.render(styleError, due)
			} else {
				due = c.render(styleMuted, due)
			}
			line += "  " + due
		}
		c.Println(line)
	}
}

// PrintPending prints open action items across events.
func (c *CLIFormatter) PrintPending(items []views.PendingItem) {
	if len(items) == 0 {
		c.Success("Nothing pending.")
		return
	}
	for _, p := range items {
		due := ""
		if p.Item.Deadline != nil {
			due = "  " + FormatDue(*p.Item.Deadline, c.now())
		}
		c.Printf("[ ] %s  %s (%s)%s\n", p.Item.Text, c.render(styleCompany, p.Company), p.Step, due)
	}
}

// PrintProblems prints the problem list and the daily goal progress.
func (c *CLIFormatter) PrintProblems(problems []*model.Problem, progress views.Progress) {
	if len(problems) == 0 {
		c.Muted("No problems yet.")
		c.Muted("Use 'jobtrack problem add <name>' to add one.")
	}

	for _, p := range problems {
		box := "[ ]"
		if p.Completed {
			box = c.render(styleSuccess, "[x]")
		}
		c.Printf("%s %s  %-32s %s\n", box, c.render(styleMuted, ShortID(p.ID)), p.Name, c.Difficulty(p.Difficulty))
	}
	c.Println()
	c.PrintProgress(progress)
}

// PrintProgress prints the daily goal progress bar.
func (c *CLIFormatter) PrintProgress(p views.Progress) {
	bar := ProgressBar(p.Percent, 20)
	if p.GoalReached {
		bar = c.render(styleSuccess, bar)
	}
	c.Printf("Daily goal %s %d/%d\n", bar, p.Completed, p.Goal)
	if p.GoalReached {
		c.Success("Goal reached!")
	}
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return bar
}

// TableRow is one row of PrintTable.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	c.Println(c.render(styleBold, strings.TrimRight(headerLine.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], col))
			}
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}

// PrintStatusCounts prints the number of applications per status.
func (c *CLIFormatter) PrintStatusCounts(counts []views.StatusCount) {
	rows := make([]TableRow, 0, len(counts))
	for _, sc := range counts {
		rows = append(rows, TableRow{Columns: []string{string(sc.Status), fmt.Sprint(sc.Count)}})
	}
	c.PrintTable([]string{"STATUS", "COUNT"}, rows)
}
