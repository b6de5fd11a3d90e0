package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/views"
)

// ApplicationsComponent displays applications grouped by company.
type ApplicationsComponent struct {
	Groups  []views.CompanyGroup
	Counts  views.Counts
	Width   int
	Limit   int
	Focused bool
}

// View renders the applications pane.
func (ac *ApplicationsComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Applications"))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("%s total  %s interviewing  %s offers",
		StyleCount.Render(fmt.Sprint(ac.Counts.Total)),
		StyleCount.Render(fmt.Sprint(ac.Counts.Interviewing)),
		StyleCount.Render(fmt.Sprint(ac.Counts.Offers))))
	content.WriteString("\n")

	if len(ac.Groups) == 0 {
		content.WriteString("\n")
		content.WriteString(StyleMuted.Render("No applications yet"))
	}

	shown := 0
	for _, g := range ac.Groups {
		if ac.Limit > 0 && shown >= ac.Limit {
			content.WriteString("\n")
			content.WriteString(StyleMuted.Render(fmt.Sprintf("… %d more companies", len(ac.Groups)-shown)))
			break
		}
		content.WriteString("\n")
		content.WriteString(StyleCompany.Render(g.Company))
		for _, a := range g.Applications {
			content.WriteString(fmt.Sprintf("\n  %s  %s", a.Position, StyleStep.Render(string(a.Status))))
		}
		shown++
	}

	return paneBox(ac.Focused).Width(boxWidth(ac.Width)).Render(content.String())
}

// AgendaComponent displays today's events and open action items.
type AgendaComponent struct {
	Today   []*model.Event
	Pending []views.PendingItem
	Now     time.Time
	Width   int
	Limit   int
	Focused bool
}

// View renders the agenda pane.
func (ag *AgendaComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Today"))
	content.WriteString("\n")
	if len(ag.Today) == 0 {
		content.WriteString(StyleMuted.Render("Nothing scheduled"))
	}
	for i, ev := range ag.Today {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(fmt.Sprintf("%s  %s  %s",
			StyleSubtitle.Render(ev.Date.Format("15:04")),
			StyleCompany.Render(ev.Company),
			StyleStep.Render(string(ev.Step))))
	}

	content.WriteString("\n\n")
	content.WriteString(StyleTitle.Render("Action items"))
	content.WriteString("\n")
	if len(ag.Pending) == 0 {
		content.WriteString(StyleMuted.Render("All caught up"))
	}
	for i, p := range ag.Pending {
		if ag.Limit > 0 && i >= ag.Limit {
			content.WriteString("\n")
			content.WriteString(StyleMuted.Render(fmt.Sprintf("… %d more", len(ag.Pending)-i)))
			break
		}
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(fmt.Sprintf("[ ] %s %s", p.Item.Text, StyleMuted.Render("("+p.Company+")")))
		if p.Item.Deadline != nil {
			due := output.FormatDue(*p.Item.Deadline, ag.Now)
			if p.Item.Deadline.Before(ag.Now) {
				due = StyleError.Render(due)
			} else {
				due = StyleSubtitle.Render(due)
			}
			content.WriteString("  " + due)
		}
	}

	return paneBox(ag.Focused).Width(boxWidth(ag.Width)).Render(content.String())
}

// ProblemsComponent displays practice problems and the daily goal.
type ProblemsComponent struct {
	Problems []*model.Problem
	Progress views.Progress
	Cursor   int
	Width    int
	Focused  bool
}

// View renders the problems pane.
func (pc *ProblemsComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Practice"))
	content.WriteString("\n")

	barWidth := pc.Width - 24
	if barWidth < 10 {
		barWidth = 10
	}
	content.WriteString(ProgressBar(pc.Progress.Percent, barWidth))
	progressText := fmt.Sprintf(" %d/%d today", pc.Progress.Completed, pc.Progress.Goal)
	if pc.Progress.GoalReached {
		content.WriteString(StyleSuccess.Render(progressText + "  ✓ Goal reached!"))
	} else {
		content.WriteString(StyleSubtitle.Render(progressText))
	}
	content.WriteString("\n")

	if len(pc.Problems) == 0 {
		content.WriteString("\n")
		content.WriteString(StyleMuted.Render("No problems yet"))
	}
	for i, p := range pc.Problems {
		box := "[ ]"
		if p.Completed {
			box = StyleSuccess.Render("[x]")
		}
		line := fmt.Sprintf("%s %s  %s", box, p.Name, StyleSubtitle.Render(string(p.Difficulty)))
		if pc.Focused && i == pc.Cursor {
			line = StyleSelected.Render("> ") + line
		} else {
			line = "  " + line
		}
		content.WriteString("\n")
		content.WriteString(line)
	}

	box := paneBox(pc.Focused)
	if pc.Progress.GoalReached && !pc.Focused {
		box = StyleGoalCompleteBox
	}
	return box.Width(boxWidth(pc.Width)).Render(content.String())
}

func paneBox(focused bool) lipgloss.Style {
	if focused {
		return StyleFocusedBox
	}
	return StyleBox
}

// HelpBar renders the help bar at the bottom.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"tab", "next pane"},
		{"j/k", "move"},
		{"x", "toggle problem"},
		{"r", "reload"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
