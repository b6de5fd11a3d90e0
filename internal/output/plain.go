package output

import (
	"strconv"
	"strings"

	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/views"
)

// PlainFormatter prints one tab-separated record per line for scripts.
type PlainFormatter struct {
	*Formatter
}

// NewPlainFormatter creates a new plain formatter.
func NewPlainFormatter(f *Formatter) *PlainFormatter {
	return &PlainFormatter{Formatter: f}
}

func (p *PlainFormatter) row(cols ...string) {
	for i, col := range cols {
		cols[i] = strings.NewReplacer("\t", " ", "\n", " ").Replace(col)
	}
	p.Println(strings.Join(cols, "\t"))
}

// PrintApplications prints id, company, position, date and status.
func (p *PlainFormatter) PrintApplications(apps []*model.Application) {
	for _, a := range apps {
		p.row(a.ID, a.CompanyName, a.Position, FormatDate(a.DateApplied), string(a.Status))
	}
}

// PrintEvents prints id, date, company, position, step and open items.
func (p *PlainFormatter) PrintEvents(events []*model.Event) {
	for _, ev := range events {
		p.row(ev.ID, FormatTime(ev.Date), ev.Company, ev.Position, string(ev.Step), strconv.Itoa(ev.PendingItems()))
	}
}

// PrintProblems prints id, name, difficulty and completion.
func (p *PlainFormatter) PrintProblems(problems []*model.Problem) {
	for _, pr := range problems {
		p.row(pr.ID, pr.Name, string(pr.Difficulty), strconv.FormatBool(pr.Completed))
	}
}

// PrintPending prints event id, item id, company, text and deadline.
func (p *PlainFormatter) PrintPending(items []views.PendingItem) {
	for _, it := range items {
		deadline := ""
		if it.Item.Deadline != nil {
			deadline = FormatTime(*it.Item.Deadline)
		}
		p.row(it.EventID, it.Item.ID, it.Company, it.Item.Text, deadline)
	}
}
