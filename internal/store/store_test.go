package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/jobtrack/internal/backend"
	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/storage"
)

// fakeBackend records changes and can be told to fail or to assign its own ids.
type fakeBackend[T model.Entity[T]] struct {
	mu       sync.Mutex
	loaded   []T
	loadErr  error
	applyErr error
	serverID func() string
	changes  []backend.Change[T]
}

func (f *fakeBackend[T]) Name() string { return "fake" }

func (f *fakeBackend[T]) Load(ctx context.Context) ([]T, error) {
	return f.loaded, f.loadErr
}

func (f *fakeBackend[T]) Apply(ctx context.Context, change backend.Change[T]) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.changes = append(f.changes, change)
	if f.applyErr != nil {
		var zero T
		return zero, f.applyErr
	}
	if change.Op == backend.OpAdd && f.serverID != nil {
		stored := change.Item.Clone()
		stored.SetID(f.serverID())
		return stored, nil
	}
	return change.Item, nil
}

func (f *fakeBackend[T]) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.changes)
}

func newApp(company string) *model.Application {
	return model.NewApplication(company, "Software Engineer", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "")
}

func setupDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTracker(t *testing.T, db *storage.DB) *Tracker {
	t.Helper()
	tr := NewTracker(Config{
		Applications: storage.NewLocalCollection[*model.Application](db, model.KeyApplications),
		Events:       storage.NewLocalCollection[*model.Event](db, model.KeyEvents),
		Problems:     storage.NewLocalCollection[*model.Problem](db, model.KeyProblems),
		Settings:     storage.NewLocalSettings(db),
	})
	require.NoError(t, tr.Load(context.Background()))
	return tr
}

// =============================================================================
// Store Tests
// =============================================================================

func TestStoreAddAssignsID(t *testing.T) {
	fb := &fakeBackend[*model.Application]{}
	s := New[*model.Application]("application", fb)
	ctx := context.Background()

	app := newApp("Acme")
	id, err := s.Add(ctx, app)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Empty(t, app.ID, "caller's record is not modified")

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Acme", got.CompanyName)

	require.Equal(t, 1, fb.calls())
	assert.Equal(t, backend.OpAdd, fb.changes[0].Op)
	assert.Len(t, fb.changes[0].Snapshot, 1)
}

func TestStoreRapidAddsYieldUniqueIDs(t *testing.T) {
	s := New[*model.Problem]("problem", &fakeBackend[*model.Problem]{})
	ctx := context.Background()

	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		id, err := s.Add(ctx, model.NewProblem(fmt.Sprintf("Problem %d", i), model.DifficultyEasy, ""))
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, 10000, s.Len())
}

func TestStoreAddRetriesCollidingID(t *testing.T) {
	ids := []string{"a", "a", "b"}
	next := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	s := New[*model.Problem]("problem", &fakeBackend[*model.Problem]{}, WithIDFunc(next))
	ctx := context.Background()

	first, err := s.Add(ctx, model.NewProblem("Two Sum", "", ""))
	require.NoError(t, err)
	second, err := s.Add(ctx, model.NewProblem("Three Sum", "", ""))
	require.NoError(t, err)

	assert.Equal(t, "a", first)
	assert.Equal(t, "b", second)
}

func TestStoreAddUsesServerAssignedID(t *testing.T) {
	fb := &fakeBackend[*model.Problem]{serverID: func() string { return "srv-1" }}
	s := New[*model.Problem]("problem", fb)

	id, err := s.Add(context.Background(), model.NewProblem("Two Sum", "", ""))
	require.NoError(t, err)
	assert.Equal(t, "srv-1", id)

	_, ok := s.Get("srv-1")
	assert.True(t, ok)
}

func TestStoreAddRejectsInvalid(t *testing.T) {
	fb := &fakeBackend[*model.Application]{}
	s := New[*model.Application]("application", fb)

	_, err := s.Add(context.Background(), newApp(""))
	assert.ErrorIs(t, err, errors.ErrValidation)
	assert.Equal(t, 0, fb.calls())
	assert.Equal(t, 0, s.Len())
}

func TestStoreFailedWriteLeavesMemoryUnchanged(t *testing.T) {
	fb := &fakeBackend[*model.Application]{}
	s := New[*model.Application]("application", fb)
	ctx := context.Background()

	id, err := s.Add(ctx, newApp("Acme"))
	require.NoError(t, err)
	before := s.List()

	fb.applyErr = errors.NewSystemError("disk full", nil)

	_, err = s.Add(ctx, newApp("Globex"))
	assert.Error(t, err)

	status := model.StatusRejected
	_, ok, err := s.Update(ctx, id, model.ApplicationPatch{Status: &status})
	assert.True(t, ok)
	assert.Error(t, err)

	ok, err = s.Remove(ctx, id)
	assert.True(t, ok)
	assert.Error(t, err)

	assert.Equal(t, before, s.List())
}

func TestStoreUpdate(t *testing.T) {
	fb := &fakeBackend[*model.Application]{}
	s := New[*model.Application]("application", fb)
	ctx := context.Background()

	id, err := s.Add(ctx, newApp("Acme"))
	require.NoError(t, err)

	status := model.StatusPhoneScreen
	updated, ok, err := s.Update(ctx, id, model.ApplicationPatch{Status: &status})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.StatusPhoneScreen, updated.Status)
	assert.Equal(t, id, updated.ID)

	last := fb.changes[len(fb.changes)-1]
	assert.Equal(t, backend.OpUpdate, last.Op)
	assert.NotNil(t, last.Patch)
}

func TestStoreUpdateUnknownIDIsNoOp(t *testing.T) {
	fb := &fakeBackend[*model.Application]{}
	s := New[*model.Application]("application", fb)

	status := model.StatusRejected
	_, ok, err := s.Update(context.Background(), "missing", model.ApplicationPatch{Status: &status})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, fb.calls())
}

func TestStoreUpdateRejectsInvalidPatch(t *testing.T) {
	fb := &fakeBackend[*model.Application]{}
	s := New[*model.Application]("application", fb)
	ctx := context.Background()

	id, err := s.Add(ctx, newApp("Acme"))
	require.NoError(t, err)

	empty := ""
	_, ok, err := s.Update(ctx, id, model.ApplicationPatch{CompanyName: &empty})
	assert.True(t, ok)
	assert.ErrorIs(t, err, errors.ErrValidation)

	got, _ := s.Get(id)
	assert.Equal(t, "Acme", got.CompanyName)
}

func TestStoreRemove(t *testing.T) {
	s := New[*model.Application]("application", &fakeBackend[*model.Application]{})
	ctx := context.Background()

	a, _ := s.Add(ctx, newApp("Acme"))
	b, _ := s.Add(ctx, newApp("Globex"))

	ok, err := s.Remove(ctx, a)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Remove(ctx, a)
	require.NoError(t, err)
	assert.False(t, ok)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, b, list[0].ID)
}

func TestStoreListReturnsCopies(t *testing.T) {
	s := New[*model.Application]("application", &fakeBackend[*model.Application]{})
	id, err := s.Add(context.Background(), newApp("Acme"))
	require.NoError(t, err)

	s.List()[0].CompanyName = "Mutated"

	got, _ := s.Get(id)
	assert.Equal(t, "Acme", got.CompanyName)
}

func TestStoreHydrate(t *testing.T) {
	t.Run("replaces_contents", func(t *testing.T) {
		loaded := []*model.Application{newApp("Acme")}
		loaded[0].ID = "a1"
		s := New[*model.Application]("application", &fakeBackend[*model.Application]{loaded: loaded})

		require.NoError(t, s.Hydrate(context.Background()))
		_, ok := s.Get("a1")
		assert.True(t, ok)
	})

	t.Run("corruption_degrades_to_empty", func(t *testing.T) {
		fb := &fakeBackend[*model.Application]{
			loaded:  []*model.Application{},
			loadErr: errors.NewCorruptionError(model.KeyApplications, fmt.Errorf("bad json")),
		}
		s := New[*model.Application]("application", fb)

		assert.NoError(t, s.Hydrate(context.Background()))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("other_errors_keep_contents", func(t *testing.T) {
		fb := &fakeBackend[*model.Application]{}
		s := New[*model.Application]("application", fb)
		_, err := s.Add(context.Background(), newApp("Acme"))
		require.NoError(t, err)

		fb.loadErr = errors.ErrUnauthorized
		assert.ErrorIs(t, s.Hydrate(context.Background()), errors.ErrUnauthorized)
		assert.Equal(t, 1, s.Len())
	})
}

// =============================================================================
// Typed Helper Tests
// =============================================================================

func TestApplicationsGetByCompany(t *testing.T) {
	tr := setupTracker(t, setupDB(t))
	ctx := context.Background()

	for _, company := range []string{"Acme", "Globex", "acme"} {
		_, err := tr.Applications.Add(ctx, newApp(company))
		require.NoError(t, err)
	}

	assert.Len(t, tr.Applications.GetByCompany("ACME"), 2)
	assert.Len(t, tr.Applications.GetByCompany("Initech"), 0)
}

func TestEventsGetByDay(t *testing.T) {
	tr := setupTracker(t, setupDB(t))
	ctx := context.Background()

	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	_, err := tr.Events.Add(ctx, model.NewEvent(day.Add(14*time.Hour), "Tech Corp", "Intern", model.StepPhoneScreen))
	require.NoError(t, err)
	_, err = tr.Events.Add(ctx, model.NewEvent(day.AddDate(0, 0, 1), "Tech Corp", "Intern", model.StepFinalRound))
	require.NoError(t, err)

	events := tr.Events.GetByDay(day.Add(9 * time.Hour))
	require.Len(t, events, 1)
	assert.Equal(t, model.StepPhoneScreen, events[0].Step)
}

func TestEventActionItems(t *testing.T) {
	tr := setupTracker(t, setupDB(t))
	ctx := context.Background()

	eventID, err := tr.Events.Add(ctx, model.NewEvent(time.Now(), "Tech Corp", "Intern", model.StepOnlineAssessment))
	require.NoError(t, err)

	item, ok, err := tr.Events.AddActionItem(ctx, eventID, "Complete coding challenge", nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, item.ID)

	ok, err = tr.Events.ToggleActionItem(ctx, eventID, item.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ev, _ := tr.Events.Get(eventID)
	require.Len(t, ev.ActionItems, 1)
	assert.True(t, ev.ActionItems[0].Completed)

	ok, err = tr.Events.ToggleActionItem(ctx, eventID, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	deadline := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	ok, err = tr.Events.SetActionItemDeadline(ctx, eventID, item.ID, &deadline)
	require.NoError(t, err)
	assert.True(t, ok)
	ev, _ = tr.Events.Get(eventID)
	require.NotNil(t, ev.ActionItems[0].Deadline)
	assert.Equal(t, deadline, *ev.ActionItems[0].Deadline)

	ok, err = tr.Events.SetActionItemDeadline(ctx, eventID, item.ID, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	ev, _ = tr.Events.Get(eventID)
	assert.Nil(t, ev.ActionItems[0].Deadline)

	ok, err = tr.Events.RemoveActionItem(ctx, eventID, item.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ev, _ = tr.Events.Get(eventID)
	assert.Empty(t, ev.ActionItems)

	_, ok, err = tr.Events.AddActionItem(ctx, "missing", "x", nil)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = tr.Events.AddActionItem(ctx, eventID, "   ", nil)
	assert.True(t, ok)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestProblemsToggle(t *testing.T) {
	tr := setupTracker(t, setupDB(t))
	ctx := context.Background()

	id, err := tr.Problems.Add(ctx, model.NewProblem("Two Sum", model.DifficultyEasy, ""))
	require.NoError(t, err)

	p, ok, err := tr.Problems.Toggle(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, p.Completed)

	p, _, err = tr.Problems.Toggle(ctx, id)
	require.NoError(t, err)
	assert.False(t, p.Completed)

	_, ok, err = tr.Problems.Toggle(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

// =============================================================================
// Tracker Tests
// =============================================================================

func TestTrackerPersistsAcrossReload(t *testing.T) {
	db := setupDB(t)
	tr := setupTracker(t, db)
	ctx := context.Background()

	_, err := tr.Applications.Add(ctx, newApp("Acme"))
	require.NoError(t, err)
	require.NoError(t, tr.SetDailyGoal(5))

	reloaded := setupTracker(t, db)
	assert.Equal(t, tr.Applications.List(), reloaded.Applications.List())
	assert.Equal(t, 5, reloaded.DailyGoal())
}

func TestTrackerDailyGoal(t *testing.T) {
	tr := setupTracker(t, setupDB(t))
	assert.Equal(t, model.DefaultDailyGoal, tr.DailyGoal())

	assert.ErrorIs(t, tr.SetDailyGoal(0), errors.ErrValidation)
	assert.Equal(t, model.DefaultDailyGoal, tr.DailyGoal())

	tracker := NewTracker(Config{
		Applications: &fakeBackend[*model.Application]{},
		Events:       &fakeBackend[*model.Event]{},
		Problems:     &fakeBackend[*model.Problem]{},
	})
	assert.ErrorIs(t, tracker.SetDailyGoal(4), ErrNoSettings)
}

func TestTrackerCorruptedEventsDegradeAndRecover(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.SetRaw(model.KeyEvents, []byte(`[{"id":"e1","date":`)))

	tr := setupTracker(t, db)
	assert.Empty(t, tr.Events.List())

	ctx := context.Background()
	id, err := tr.Events.Add(ctx, model.NewEvent(time.Now(), "Tech Corp", "Intern", model.StepPhoneScreen))
	require.NoError(t, err)

	data, ok, err := db.GetRaw(model.KeyEvents)
	require.NoError(t, err)
	require.True(t, ok)

	events, err := storage.DecodeCollection[*model.Event](data)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ID)
}

func TestTrackerWatchRehydrates(t *testing.T) {
	db := setupDB(t)
	tr := setupTracker(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 16)
	go func() {
		_ = tr.Watch(ctx, db, func(key string) {
			select {
			case changed <- key:
			default:
			}
		})
	}()

	other := model.NewProblem("Two Sum", model.DifficultyEasy, "")
	other.ID = "p1"
	data, err := storage.EncodeCollection([]*model.Problem{other})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_ = db.SetRaw(model.KeyProblems, data)
		return tr.Problems.Len() == 1
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, model.KeyProblems, <-changed)
}
