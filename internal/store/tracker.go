package store

import (
	"context"
	"sync"

	"github.com/manav03panchal/jobtrack/internal/backend"
	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/model"
)

// Config selects the backends of a Tracker.
type Config struct {
	Applications backend.Backend[*model.Application]
	Events       backend.Backend[*model.Event]
	Problems     backend.Backend[*model.Problem]
	Settings     GoalSettings
	Options      []Option
}

// Tracker aggregates every store of one user together with the daily goal.
type Tracker struct {
	Applications Applications
	Events       Events
	Problems     Problems

	settings  GoalSettings
	goalMu    sync.Mutex
	dailyGoal int
}

// NewTracker creates a tracker with empty stores. Call Load to hydrate it.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{
		Applications: Applications{New("application", cfg.Applications, cfg.Options...)},
		Events:       Events{New("event", cfg.Events, cfg.Options...)},
		Problems:     Problems{New("problem", cfg.Problems, cfg.Options...)},
		settings:     cfg.Settings,
		dailyGoal:    model.DefaultDailyGoal,
	}
}

// Load hydrates every store and the daily goal. Stores that load are kept
// even when another fails; the failures are joined.
func (t *Tracker) Load(ctx context.Context) error {
	var errs []error
	if err := t.Applications.Hydrate(ctx); err != nil {
		errs = append(errs, errors.Wrap(err, "load applications"))
	}
	if err := t.Events.Hydrate(ctx); err != nil {
		errs = append(errs, errors.Wrap(err, "load events"))
	}
	if err := t.Problems.Hydrate(ctx); err != nil {
		errs = append(errs, errors.Wrap(err, "load problems"))
	}
	if err := t.loadGoal(ctx); err != nil {
		errs = append(errs, errors.Wrap(err, "load daily goal"))
	}
	return errors.Join(errs...)
}

func (t *Tracker) loadGoal(ctx context.Context) error {
	if t.settings == nil {
		return nil
	}
	goal, err := t.settings.DailyGoal(ctx)
	t.goalMu.Lock()
	t.dailyGoal = goal
	t.goalMu.Unlock()
	return err
}

// DailyGoal returns the number of problems to solve per day.
func (t *Tracker) DailyGoal() int {
	t.goalMu.Lock()
	defer t.goalMu.Unlock()
	return t.dailyGoal
}

// SetDailyGoal stores a new daily goal.
func (t *Tracker) SetDailyGoal(goal int) error {
	if t.settings == nil {
		return ErrNoSettings
	}
	if err := t.settings.SetDailyGoal(goal); err != nil {
		return err
	}
	t.goalMu.Lock()
	t.dailyGoal = goal
	t.goalMu.Unlock()
	return nil
}

// Watcher reports writes to storage keys.
type Watcher interface {
	Watch(ctx context.Context, keys []string, fn func(key string)) error
}

// keyed is implemented by backends that persist under one storage key.
type keyed interface {
	Key() string
}

// Watch re-hydrates the affected store whenever another writer changes one
// of the local keys, and calls onChange afterwards. It blocks until ctx is
// cancelled. Stores on a remote backend are not watched.
func (t *Tracker) Watch(ctx context.Context, w Watcher, onChange func(key string)) error {
	reload := make(map[string]func(context.Context) error)
	if k, ok := t.Applications.Backend().(keyed); ok {
		reload[k.Key()] = t.Applications.Hydrate
	}
	if k, ok := t.Events.Backend().(keyed); ok {
		reload[k.Key()] = t.Events.Hydrate
	}
	if k, ok := t.Problems.Backend().(keyed); ok {
		reload[k.Key()] = t.Problems.Hydrate
	}
	if t.settings != nil {
		reload[model.KeyDailyGoal] = t.loadGoal
	}

	keys := make([]string, 0, len(reload))
	for key := range reload {
		keys = append(keys, key)
	}

	return w.Watch(ctx, keys, func(key string) {
		fn, ok := reload[key]
		if !ok {
			return
		}
		if err := fn(ctx); err != nil {
			logging.FromContext(ctx).Warn("reload after storage change failed",
				logging.KeyStorageKey, key,
				logging.KeyError, err,
			)
			return
		}
		if onChange != nil {
			onChange(key)
		}
	})
}
