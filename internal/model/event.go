package model

import (
	"time"

	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/validate"
)

// ActionItem is a to-do attached to a calendar event.
type ActionItem struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	Deadline  *time.Time `json:"deadline,omitempty"`
}

// Event is a dated step of an interview process.
type Event struct {
	ID          string       `json:"id"`
	Date        time.Time    `json:"date"`
	Company     string       `json:"company"`
	Position    string       `json:"position"`
	Step        Step         `json:"step"`
	ActionItems []ActionItem `json:"actionItems"`
	Link        string       `json:"link,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

// NewEvent creates an event without action items.
func NewEvent(date time.Time, company, position string, step Step) *Event {
	return &Event{
		Date:        date,
		Company:     validate.SanitizeName(company),
		Position:    validate.SanitizeName(position),
		Step:        step,
		ActionItems: []ActionItem{},
	}
}

// NewActionItem creates an open action item with a fresh id.
func NewActionItem(text string, deadline *time.Time) ActionItem {
	return ActionItem{
		ID:       NewID(),
		Text:     validate.SanitizeName(text),
		Deadline: deadline,
	}
}

// GetID returns the event id.
func (e *Event) GetID() string {
	return e.ID
}

// SetID sets the event id.
func (e *Event) SetID(id string) {
	e.ID = id
}

// Validate checks the required fields and the uniqueness of action item ids.
func (e *Event) Validate() error {
	if e.Date.IsZero() {
		return errors.NewValidationError("date", "is required")
	}
	if err := validate.Name("company", e.Company); err != nil {
		return err
	}
	if err := validate.Name("position", e.Position); err != nil {
		return err
	}
	if !e.Step.IsValid() {
		return errors.NewValidationError("step", "unknown step '"+string(e.Step)+"'")
	}
	if err := validate.Link("link", e.Link); err != nil {
		return err
	}
	if err := validate.Note("notes", e.Notes); err != nil {
		return err
	}

	seen := make(map[string]bool, len(e.ActionItems))
	for _, item := range e.ActionItems {
		if item.ID == "" {
			return errors.NewValidationError("actionItems", "item id is required")
		}
		if seen[item.ID] {
			return errors.NewValidationError("actionItems", "duplicate item id '"+item.ID+"'")
		}
		seen[item.ID] = true
		if err := validate.Required("actionItems.text", item.Text); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	c := *e
	c.ActionItems = cloneItems(e.ActionItems)
	return &c
}

// ActionItem returns the item with the given id.
func (e *Event) ActionItem(id string) (ActionItem, bool) {
	for _, item := range e.ActionItems {
		if item.ID == id {
			return item, true
		}
	}
	return ActionItem{}, false
}

// PendingItems counts the action items that are not completed.
func (e *Event) PendingItems() int {
	n := 0
	for _, item := range e.ActionItems {
		if !item.Completed {
			n++
		}
	}
	return n
}

func cloneItems(items []ActionItem) []ActionItem {
	out := make([]ActionItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.Deadline != nil {
			d := *item.Deadline
			out[i].Deadline = &d
		}
	}
	return out
}

// EventPatch is a partial update of an event.
// ActionItems, when set, replaces the whole list.
type EventPatch struct {
	Date        *time.Time    `json:"date,omitempty"`
	Company     *string       `json:"company,omitempty"`
	Position    *string       `json:"position,omitempty"`
	Step        *Step         `json:"step,omitempty"`
	ActionItems *[]ActionItem `json:"actionItems,omitempty"`
	Link        *string       `json:"link,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
}

// Apply writes the set fields into e.
func (p EventPatch) Apply(e *Event) {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Company != nil {
		e.Company = validate.SanitizeName(*p.Company)
	}
	if p.Position != nil {
		e.Position = validate.SanitizeName(*p.Position)
	}
	if p.Step != nil {
		e.Step = *p.Step
	}
	if p.ActionItems != nil {
		e.ActionItems = cloneItems(*p.ActionItems)
	}
	if p.Link != nil {
		e.Link = *p.Link
	}
	if p.Notes != nil {
		e.Notes = validate.SanitizeNote(*p.Notes)
	}
}
