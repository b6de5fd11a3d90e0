package output

import (
	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/transfer"
	"github.com/manav03panchal/jobtrack/internal/views"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// ApplicationsResponse represents the application list output in JSON.
type ApplicationsResponse struct {
	Groups []views.CompanyGroup `json:"groups"`
	Counts views.Counts         `json:"counts"`
}

// EventsResponse represents the event list output in JSON.
type EventsResponse struct {
	Events []*model.Event `json:"events"`
}

// ProblemsResponse represents the problem list output in JSON.
type ProblemsResponse struct {
	Problems []*model.Problem `json:"problems"`
	Progress views.Progress   `json:"progress"`
}

// PendingResponse represents the open action items in JSON.
type PendingResponse struct {
	Items []views.PendingItem `json:"items"`
}

// MutationResponse reports a created, updated or removed record.
type MutationResponse struct {
	Status string `json:"status"`
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Record any    `json:"record,omitempty"`
}

// GoalResponse reports the daily goal.
type GoalResponse struct {
	DailyGoal int `json:"daily_goal"`
}

// ImportResponse reports a completed import.
type ImportResponse struct {
	Status string           `json:"status"`
	Result *transfer.Result `json:"result"`
}

// ExportResponse reports a written export file.
type ExportResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

// SessionResponse reports the session state.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Server        string `json:"server,omitempty"`
	User          string `json:"user,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status   string `json:"status"`
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
	Message  string `json:"message,omitempty"`
}

// PrintApplications outputs grouped applications.
func (j *JSONFormatter) PrintApplications(groups []views.CompanyGroup, counts views.Counts) error {
	if groups == nil {
		groups = []views.CompanyGroup{}
	}
	return j.JSON(ApplicationsResponse{Groups: groups, Counts: counts})
}

// PrintEvents outputs events.
func (j *JSONFormatter) PrintEvents(events []*model.Event) error {
	if events == nil {
		events = []*model.Event{}
	}
	return j.JSON(EventsResponse{Events: events})
}

// PrintProblems outputs problems with goal progress.
func (j *JSONFormatter) PrintProblems(problems []*model.Problem, progress views.Progress) error {
	if problems == nil {
		problems = []*model.Problem{}
	}
	return j.JSON(ProblemsResponse{Problems: problems, Progress: progress})
}

// PrintPending outputs open action items.
func (j *JSONFormatter) PrintPending(items []views.PendingItem) error {
	if items == nil {
		items = []views.PendingItem{}
	}
	return j.JSON(PendingResponse{Items: items})
}

// PrintMutation outputs the result of a change.
func (j *JSONFormatter) PrintMutation(status, kind, id string, record any) error {
	return j.JSON(MutationResponse{Status: status, Kind: kind, ID: id, Record: record})
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, category, message string) error {
	return j.JSON(ErrorResponse{
		Status:   status,
		Error:    errMsg,
		Category: category,
		Message:  message,
	})
}
