package views

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/jobtrack/internal/model"
)

func app(id, company, position string, status model.Status) *model.Application {
	return &model.Application{
		ID:          id,
		CompanyName: company,
		Position:    position,
		DateApplied: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:      status,
	}
}

func TestGroupByCompany(t *testing.T) {
	apps := []*model.Application{
		app("1", "A", "SWE", model.StatusApplied),
		app("2", "B", "SWE", model.StatusApplied),
		app("3", "A", "SRE", model.StatusApplied),
	}

	groups := GroupByCompany(apps)
	require.Len(t, groups, 2)

	assert.Equal(t, "A", groups[0].Company)
	require.Len(t, groups[0].Applications, 2)
	assert.Equal(t, "1", groups[0].Applications[0].ID)
	assert.Equal(t, "3", groups[0].Applications[1].ID)

	assert.Equal(t, "B", groups[1].Company)
	require.Len(t, groups[1].Applications, 1)
	assert.Equal(t, "2", groups[1].Applications[0].ID)
}

func TestGroupByCompanyFoldsCase(t *testing.T) {
	groups := GroupByCompany([]*model.Application{
		app("1", "Acme", "SWE", model.StatusApplied),
		app("2", " acme ", "SRE", model.StatusApplied),
	})
	require.Len(t, groups, 1)
	assert.Equal(t, "Acme", groups[0].Company)
	assert.Len(t, groups[0].Applications, 2)

	assert.Empty(t, GroupByCompany(nil))

	data, err := json.Marshal(GroupByCompany(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data), "empty groups encode as an array")
}

func TestFilterBySearchTerm(t *testing.T) {
	apps := []*model.Application{
		app("1", "Acme", "Backend Engineer", model.StatusApplied),
		app("2", "Globex", "Frontend Engineer", model.StatusApplied),
		app("3", "Initech", "Data Analyst", model.StatusApplied),
	}

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"1", "2", "3"}},
		{"ACME", []string{"1"}},
		{"engineer", []string{"1", "2"}},
		{"  data ", []string{"3"}},
		{"zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := FilterBySearchTerm(apps, tt.term)
			ids := []string{}
			for _, a := range got {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestEventsForDay(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	events := []*model.Event{
		{ID: "1", Date: time.Date(2024, 5, 10, 9, 0, 0, 0, loc)},
		{ID: "2", Date: time.Date(2024, 5, 10, 23, 30, 0, 0, loc)},
		{ID: "3", Date: time.Date(2024, 5, 11, 8, 0, 0, 0, loc)},
	}

	got := EventsForDay(events, time.Date(2024, 5, 10, 12, 0, 0, 0, loc))
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)

	assert.Empty(t, EventsForDay(events, time.Date(2024, 5, 12, 0, 0, 0, 0, loc)))
}

func TestSameDayUsesLocationOfDay(t *testing.T) {
	utcLate := time.Date(2024, 5, 11, 2, 0, 0, 0, time.UTC)
	est := time.FixedZone("EST", -5*3600)

	assert.True(t, SameDay(utcLate, time.Date(2024, 5, 10, 0, 0, 0, 0, est)))
	assert.False(t, SameDay(utcLate, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)))
}

func TestAggregateCounts(t *testing.T) {
	apps := []*model.Application{
		app("1", "A", "SWE", model.StatusApplied),
		app("2", "B", "SWE", model.StatusInterviewing),
		app("3", "C", "SWE", model.StatusOfferReceived),
		app("4", "D", "SWE", model.StatusOfferReceived),
		app("5", "E", "SWE", model.StatusRejected),
	}

	assert.Equal(t, Counts{Total: 5, Interviewing: 1, Offers: 2}, AggregateCounts(apps))
	assert.Equal(t, Counts{}, AggregateCounts(nil))
}

func TestAggregateCountsStages(t *testing.T) {
	apps := []*model.Application{
		app("1", "A", "SWE", model.StatusPhoneScreen),
		app("2", "B", "SWE", model.StatusFinalRound),
		app("3", "C", "SWE", model.StatusAccepted),
		app("4", "D", "SWE", model.StatusOnlineAssessment),
	}
	assert.Equal(t, Counts{Total: 4, Interviewing: 2, Offers: 1}, AggregateCounts(apps))
}

func TestCountByStatus(t *testing.T) {
	apps := []*model.Application{
		app("1", "A", "SWE", model.StatusRejected),
		app("2", "B", "SWE", model.StatusApplied),
		app("3", "C", "SWE", model.StatusRejected),
	}

	assert.Equal(t, []StatusCount{
		{Status: model.StatusApplied, Count: 1},
		{Status: model.StatusRejected, Count: 2},
	}, CountByStatus(apps))
}

func TestCountPipeline(t *testing.T) {
	apps := []*model.Application{
		app("1", "A", "SWE", model.StatusApplied),
		app("2", "B", "SWE", model.StatusFinalRound),
		app("3", "C", "SWE", model.StatusRejected),
		app("4", "D", "SWE", model.StatusAccepted),
		app("5", "E", "SWE", model.StatusWithdrawn),
	}

	assert.Equal(t, Pipeline{Open: 2, Closed: 3}, CountPipeline(apps))
	assert.Equal(t, Pipeline{}, CountPipeline(nil))
}

func TestProblemProgress(t *testing.T) {
	problems := []*model.Problem{
		{ID: "1", Name: "Two Sum", Completed: true},
		{ID: "2", Name: "Three Sum", Completed: true},
		{ID: "3", Name: "LRU Cache"},
	}

	p := ProblemProgress(problems, 3)
	assert.Equal(t, 2, p.Completed)
	assert.InDelta(t, 66.67, p.Percent, 0.01)
	assert.False(t, p.GoalReached)

	p = ProblemProgress(problems, 1)
	assert.Equal(t, 100.0, p.Percent)
	assert.True(t, p.GoalReached)

	p = ProblemProgress(problems, 0)
	assert.Equal(t, 0.0, p.Percent)
	assert.False(t, p.GoalReached)
}

func TestPendingActionItems(t *testing.T) {
	early := time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	events := []*model.Event{
		{ID: "e1", Company: "Acme", ActionItems: []model.ActionItem{
			{ID: "a", Text: "no deadline"},
			{ID: "b", Text: "late", Deadline: &late},
			{ID: "c", Text: "done", Completed: true, Deadline: &early},
		}},
		{ID: "e2", Company: "Globex", ActionItems: []model.ActionItem{
			{ID: "d", Text: "early", Deadline: &early},
		}},
	}

	got := PendingActionItems(events)
	require.Len(t, got, 3)
	assert.Equal(t, "d", got[0].Item.ID)
	assert.Equal(t, "Globex", got[0].Company)
	assert.Equal(t, "b", got[1].Item.ID)
	assert.Equal(t, "a", got[2].Item.ID)
	assert.Equal(t, "e1", got[2].EventID)
}

func TestViewsDoNotModifyInput(t *testing.T) {
	apps := []*model.Application{
		app("1", "B", "SWE", model.StatusApplied),
		app("2", "A", "SWE", model.StatusApplied),
	}
	GroupByCompany(apps)
	FilterBySearchTerm(apps, "a")
	CountByStatus(apps)

	assert.Equal(t, "1", apps[0].ID)
	assert.Equal(t, "B", apps[0].CompanyName)
}
