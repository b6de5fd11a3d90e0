package model

import (
	"time"

	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/validate"
)

// Application is a job application sent to a company.
type Application struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"companyName"`
	Position    string    `json:"position"`
	DateApplied time.Time `json:"dateApplied"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
}

// NewApplication creates an application in the Applied state.
func NewApplication(companyName, position string, dateApplied time.Time, notes string) *Application {
	return &Application{
		CompanyName: validate.SanitizeName(companyName),
		Position:    validate.SanitizeName(position),
		DateApplied: dateApplied,
		Status:      StatusApplied,
		Notes:       validate.SanitizeNote(notes),
	}
}

// GetID returns the application id.
func (a *Application) GetID() string {
	return a.ID
}

// SetID sets the application id.
func (a *Application) SetID(id string) {
	a.ID = id
}

// Validate checks that the required fields are present and the status is known.
func (a *Application) Validate() error {
	if err := validate.Name("companyName", a.CompanyName); err != nil {
		return err
	}
	if err := validate.Name("position", a.Position); err != nil {
		return err
	}
	if a.DateApplied.IsZero() {
		return errors.NewValidationError("dateApplied", "is required")
	}
	if !a.Status.IsValid() {
		return errors.NewValidationError("status", "unknown status '"+string(a.Status)+"'")
	}
	return validate.Note("notes", a.Notes)
}

// Clone returns a copy of the application.
func (a *Application) Clone() *Application {
	c := *a
	return &c
}

// ApplicationPatch is a partial update of an application.
type ApplicationPatch struct {
	CompanyName *string    `json:"companyName,omitempty"`
	Position    *string    `json:"position,omitempty"`
	DateApplied *time.Time `json:"dateApplied,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// Apply writes the set fields into a.
func (p ApplicationPatch) Apply(a *Application) {
	if p.CompanyName != nil {
		a.CompanyName = validate.SanitizeName(*p.CompanyName)
	}
	if p.Position != nil {
		a.Position = validate.SanitizeName(*p.Position)
	}
	if p.DateApplied != nil {
		a.DateApplied = *p.DateApplied
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Notes != nil {
		a.Notes = validate.SanitizeNote(*p.Notes)
	}
}
