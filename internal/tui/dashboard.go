package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/store"
	"github.com/manav03panchal/jobtrack/internal/views"
)

// Pane identifies the focused section of the dashboard.
type Pane int

const (
	PaneApplications Pane = iota
	PaneAgenda
	PaneProblems
	paneCount
)

// tickMsg is sent when the clock ticks.
type tickMsg time.Time

// refreshMsg is sent when data needs to be refreshed.
type refreshMsg struct{}

// reloadedMsg is sent after the tracker was re-read from its backends.
type reloadedMsg struct {
	err error
}

// storeChangedMsg is sent when another writer changed a storage key.
type storeChangedMsg struct {
	key string
}

// toggledMsg is sent after a problem was toggled.
type toggledMsg struct {
	problem *model.Problem
	err     error
}

// DashboardModel is the main bubbletea model for the dashboard.
type DashboardModel struct {
	ctx     context.Context
	tracker *store.Tracker
	changes <-chan string

	// Data
	groups   []views.CompanyGroup
	counts   views.Counts
	today    []*model.Event
	pending  []views.PendingItem
	problems []*model.Problem
	progress views.Progress

	// UI state
	focus      Pane
	cursor     int
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time
	now        func() time.Time

	// Configuration
	refreshInterval time.Duration
	maxRows         int
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Tracker *store.Tracker
	// Changes delivers the storage keys written by other processes. Nil
	// disables live updates.
	Changes         <-chan string
	RefreshInterval time.Duration
	MaxRows         int
	Now             func() time.Time
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(ctx context.Context, config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.MaxRows == 0 {
		config.MaxRows = 8
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	m := &DashboardModel{
		ctx:             ctx,
		tracker:         config.Tracker,
		changes:         config.Changes,
		refreshInterval: config.RefreshInterval,
		maxRows:         config.MaxRows,
		now:             config.Now,
	}
	m.loadData()
	return m
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.waitForChange(),
	)
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.messageExp.IsZero() && m.now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case refreshMsg:
		m.loadData()
		return m, nil

	case storeChangedMsg:
		m.loadData()
		m.setMessage("Updated from "+msg.key, 2*time.Second)
		return m, m.waitForChange()

	case reloadedMsg:
		m.err = msg.err
		m.loadData()
		if msg.err == nil {
			m.setMessage("Reloaded", time.Second)
		}
		return m, nil

	case toggledMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.loadData()
		if msg.problem != nil && msg.problem.Completed {
			m.setMessage("Solved "+msg.problem.Name, 2*time.Second)
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.focus = (m.focus + 1) % paneCount
		return m, nil

	case "shift+tab":
		m.focus = (m.focus + paneCount - 1) % paneCount
		return m, nil

	case "j", "down":
		if m.focus == PaneProblems && m.cursor < len(m.problems)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.focus == PaneProblems && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "x", " ":
		if m.focus != PaneProblems || len(m.problems) == 0 {
			m.setMessage("Focus the practice pane to toggle problems", 2*time.Second)
			return m, nil
		}
		return m, m.toggleCmd(m.problems[m.cursor].ID)

	case "r":
		return m, m.reloadCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	apps := &ApplicationsComponent{
		Groups:  m.groups,
		Counts:  m.counts,
		Width:   m.width,
		Limit:   m.maxRows,
		Focused: m.focus == PaneApplications,
	}
	agenda := &AgendaComponent{
		Today:   m.today,
		Pending: m.pending,
		Now:     m.now(),
		Width:   m.width,
		Limit:   m.maxRows,
		Focused: m.focus == PaneAgenda,
	}
	problems := &ProblemsComponent{
		Problems: m.problems,
		Progress: m.progress,
		Cursor:   m.cursor,
		Width:    m.width,
		Focused:  m.focus == PaneProblems,
	}
	sections = append(sections, apps.View(), agenda.View(), problems.View())

	sections = append(sections, HelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the dashboard header.
func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("JobTrack Dashboard")
	timeStr := StyleSubtitle.Render(m.now().Format("Mon Jan 2, 15:04:05"))

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", timeStr) + "\n"
}

// loadData rebuilds the derived views from the tracker's in-memory state.
func (m *DashboardModel) loadData() {
	apps := m.tracker.Applications.List()
	events := m.tracker.Events.List()

	m.groups = views.GroupByCompany(apps)
	m.counts = views.AggregateCounts(apps)
	m.today = views.EventsForDay(events, m.now())
	m.pending = views.PendingActionItems(events)
	m.problems = m.tracker.Problems.List()
	m.progress = views.ProblemProgress(m.problems, m.tracker.DailyGoal())

	if m.cursor >= len(m.problems) {
		m.cursor = max(len(m.problems)-1, 0)
	}
}

// setMessage sets a temporary message.
func (m *DashboardModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = m.now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until another writer changes a watched key.
func (m *DashboardModel) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		key, ok := <-m.changes
		if !ok {
			return nil
		}
		return storeChangedMsg{key: key}
	}
}

// reloadCmd re-reads every collection from its backend.
func (m *DashboardModel) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		return reloadedMsg{err: m.tracker.Load(m.ctx)}
	}
}

// toggleCmd flips the completion of one problem.
func (m *DashboardModel) toggleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		p, _, err := m.tracker.Problems.Toggle(m.ctx, id)
		return toggledMsg{problem: p, err: err}
	}
}

// Run starts the dashboard TUI. When watcher is non-nil the dashboard
// follows writes made by other jobtrack processes sharing the database.
func Run(ctx context.Context, tracker *store.Tracker, watcher store.Watcher) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	config := DashboardConfig{Tracker: tracker}
	if watcher != nil {
		config.Changes = WatchChanges(ctx, tracker, watcher)
	}

	model := NewDashboardModel(ctx, config)
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		model.width, model.height = w, h
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// WatchChanges re-hydrates tracker whenever watcher reports a write and
// delivers the changed key. Changes arriving while one is pending are
// coalesced. The channel is closed when watching stops.
func WatchChanges(ctx context.Context, tracker *store.Tracker, watcher store.Watcher) <-chan string {
	changes := make(chan string, 1)
	go func() {
		defer close(changes)
		err := tracker.Watch(ctx, watcher, func(key string) {
			select {
			case changes <- key:
			default:
			}
		})
		if err != nil {
			logging.FromContext(ctx).Warn("dashboard stopped watching storage", logging.KeyError, err)
		}
	}()
	return changes
}
