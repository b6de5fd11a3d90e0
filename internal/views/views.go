// Package views computes read-only projections of the tracked records for
// presentation. Every function is pure: inputs are never modified and the
// same input always yields the same output.
package views

import (
	"sort"
	"strings"
	"time"

	"github.com/manav03panchal/jobtrack/internal/model"
)

// CompanyGroup is the applications sent to one company.
type CompanyGroup struct {
	Company      string               `json:"company"`
	Applications []*model.Application `json:"applications"`
}

// companyKey normalizes a company name for grouping and lookup.
func companyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GroupByCompany groups applications by company. Groups appear in the order
// their company was first seen; applications keep their input order.
// Names differing only in case or surrounding space share a group, labelled
// with the first spelling seen.
func GroupByCompany(apps []*model.Application) []CompanyGroup {
	groups := []CompanyGroup{}
	index := make(map[string]int)

	for _, app := range apps {
		key := companyKey(app.CompanyName)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, CompanyGroup{Company: strings.TrimSpace(app.CompanyName)})
		}
		groups[i].Applications = append(groups[i].Applications, app)
	}
	return groups
}

// ApplicationsForCompany returns the applications sent to one company.
func ApplicationsForCompany(apps []*model.Application, company string) []*model.Application {
	key := companyKey(company)
	out := []*model.Application{}
	for _, app := range apps {
		if companyKey(app.CompanyName) == key {
			out = append(out, app)
		}
	}
	return out
}

// FilterBySearchTerm returns the applications whose company name or position
// contains term, ignoring case. An empty term matches everything.
func FilterBySearchTerm(apps []*model.Application, term string) []*model.Application {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]*model.Application, 0, len(apps))
	for _, app := range apps {
		if term == "" ||
			strings.Contains(strings.ToLower(app.CompanyName), term) ||
			strings.Contains(strings.ToLower(app.Position), term) {
			out = append(out, app)
		}
	}
	return out
}

// SameDay reports whether a and b fall on the same calendar day in the
// location of b.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EventsForDay returns the events on the calendar day of day, in the
// location of day. Time of day is ignored.
func EventsForDay(events []*model.Event, day time.Time) []*model.Event {
	out := []*model.Event{}
	for _, ev := range events {
		if SameDay(ev.Date, day) {
			out = append(out, ev)
		}
	}
	return out
}

// Counts summarizes an application list.
type Counts struct {
	Total        int `json:"total"`
	Interviewing int `json:"interviewing"`
	Offers       int `json:"offers"`
}

// AggregateCounts counts all applications, those in an interview stage, and
// those that produced an offer (Offer Received or Accepted).
func AggregateCounts(apps []*model.Application) Counts {
	c := Counts{Total: len(apps)}
	for _, app := range apps {
		if app.Status.IsInterviewing() {
			c.Interviewing++
		}
		if app.Status.IsOffer() {
			c.Offers++
		}
	}
	return c
}

// StatusCount is the number of applications in one status.
type StatusCount struct {
	Status model.Status `json:"status"`
	Count  int          `json:"count"`
}

// CountByStatus counts applications per status in pipeline order.
// Statuses without applications are omitted.
func CountByStatus(apps []*model.Application) []StatusCount {
	counts := make(map[model.Status]int)
	for _, app := range apps {
		counts[app.Status]++
	}

	out := []StatusCount{}
	for _, st := range model.Statuses {
		if n := counts[st]; n > 0 {
			out = append(out, StatusCount{Status: st, Count: n})
		}
	}
	return out
}

// Pipeline splits applications into those still in progress and those
// that reached a final outcome.
type Pipeline struct {
	Open   int `json:"open"`
	Closed int `json:"closed"`
}

// CountPipeline counts open and closed applications.
func CountPipeline(apps []*model.Application) Pipeline {
	var p Pipeline
	for _, app := range apps {
		if app.Status.IsClosed() {
			p.Closed++
		} else {
			p.Open++
		}
	}
	return p
}

// Progress is the state of the daily problem goal.
type Progress struct {
	Completed   int     `json:"completed"`
	Goal        int     `json:"goal"`
	Percent     float64 `json:"percent"`
	GoalReached bool    `json:"goal_reached"`
}

// ProblemProgress measures completed problems against the daily goal.
// Percent is capped at 100.
func ProblemProgress(problems []*model.Problem, goal int) Progress {
	p := Progress{Goal: goal}
	for _, prob := range problems {
		if prob.Completed {
			p.Completed++
		}
	}

	if goal > 0 {
		p.Percent = float64(p.Completed) / float64(goal) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
		p.GoalReached = p.Completed >= goal
	}
	return p
}

// PendingItem is an open action item with the event it belongs to.
type PendingItem struct {
	EventID  string           `json:"event_id"`
	Company  string           `json:"company"`
	Position string           `json:"position"`
	Step     model.Step       `json:"step"`
	Item     model.ActionItem `json:"item"`
}

// PendingActionItems lists open action items ordered by deadline. Items
// without a deadline come last, in event order.
func PendingActionItems(events []*model.Event) []PendingItem {
	out := []PendingItem{}
	for _, ev := range events {
		for _, item := range ev.ActionItems {
			if item.Completed {
				continue
			}
			out = append(out, PendingItem{
				EventID:  ev.ID,
				Company:  ev.Company,
				Position: ev.Position,
				Step:     ev.Step,
				Item:     item,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Item.Deadline, out[j].Item.Deadline
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out
}
