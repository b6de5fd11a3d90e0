package store

import (
	"context"
	"time"

	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/validate"
	"github.com/manav03panchal/jobtrack/internal/views"
)

// Applications is the store of job applications.
type Applications struct {
	*Store[*model.Application]
}

// GetByCompany returns the applications sent to company.
func (a Applications) GetByCompany(company string) []*model.Application {
	return views.ApplicationsForCompany(a.List(), company)
}

// SetStatus moves an application to a new status.
func (a Applications) SetStatus(ctx context.Context, id string, status model.Status) (*model.Application, bool, error) {
	return a.Update(ctx, id, model.ApplicationPatch{Status: &status})
}

// Events is the store of calendar events.
type Events struct {
	*Store[*model.Event]
}

// GetByDay returns the events on the calendar day of day.
func (e Events) GetByDay(day time.Time) []*model.Event {
	return views.EventsForDay(e.List(), day)
}

// AddActionItem appends a new open item to an event.
// ok is false when the event does not exist.
func (e Events) AddActionItem(ctx context.Context, eventID, text string, deadline *time.Time) (item model.ActionItem, ok bool, err error) {
	ev, ok := e.Get(eventID)
	if !ok {
		return item, false, nil
	}
	text = validate.SanitizeName(text)
	if err := validate.Required("text", text); err != nil {
		return item, true, err
	}

	item = model.NewActionItem(text, deadline)
	items := append(ev.ActionItems, item)
	if _, ok, err := e.Update(ctx, eventID, model.EventPatch{ActionItems: &items}); err != nil || !ok {
		return model.ActionItem{}, ok, err
	}
	return item, true, nil
}

// ToggleActionItem flips the completed flag of one item.
// ok is false when the event or the item does not exist.
func (e Events) ToggleActionItem(ctx context.Context, eventID, itemID string) (bool, error) {
	return e.editItems(ctx, eventID, itemID, func(items []model.ActionItem, i int) []model.ActionItem {
		items[i].Completed = !items[i].Completed
		return items
	})
}

// RemoveActionItem deletes one item from an event.
// ok is false when the event or the item does not exist.
func (e Events) RemoveActionItem(ctx context.Context, eventID, itemID string) (bool, error) {
	return e.editItems(ctx, eventID, itemID, func(items []model.ActionItem, i int) []model.ActionItem {
		return append(items[:i], items[i+1:]...)
	})
}

// SetActionItemDeadline sets or, with a nil deadline, clears the deadline of
// one item. ok is false when the event or the item does not exist.
func (e Events) SetActionItemDeadline(ctx context.Context, eventID, itemID string, deadline *time.Time) (bool, error) {
	return e.editItems(ctx, eventID, itemID, func(items []model.ActionItem, i int) []model.ActionItem {
		items[i].Deadline = deadline
		return items
	})
}

func (e Events) editItems(ctx context.Context, eventID, itemID string, edit func([]model.ActionItem, int) []model.ActionItem) (bool, error) {
	ev, ok := e.Get(eventID)
	if !ok {
		return false, nil
	}

	idx := -1
	for i, item := range ev.ActionItems {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	items := edit(ev.ActionItems, idx)
	_, ok, err := e.Update(ctx, eventID, model.EventPatch{ActionItems: &items})
	return ok, err
}

// Problems is the store of practice problems.
type Problems struct {
	*Store[*model.Problem]
}

// Toggle flips the completed flag of a problem.
func (p Problems) Toggle(ctx context.Context, id string) (*model.Problem, bool, error) {
	prob, ok := p.Get(id)
	if !ok {
		return nil, false, nil
	}
	done := !prob.Completed
	return p.Update(ctx, id, model.ProblemPatch{Completed: &done})
}

// GoalSettings stores the daily problem goal.
type GoalSettings interface {
	DailyGoal(ctx context.Context) (int, error)
	SetDailyGoal(goal int) error
}

// ErrNoSettings is returned when a tracker has no goal storage.
var ErrNoSettings = errors.NewSystemError("no settings storage configured", nil)
