// Package runtime provides application runtime context for JobTrack.
package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/manav03panchal/jobtrack/internal/config"
	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/remote"
	"github.com/manav03panchal/jobtrack/internal/session"
	"github.com/manav03panchal/jobtrack/internal/storage"
	"github.com/manav03panchal/jobtrack/internal/store"
)

// Context holds the application runtime context.
type Context struct {
	DB        *storage.DB
	Formatter *output.Formatter

	// Session is the signed-in user, nil when working locally.
	Session *session.Session

	// Debug mode
	Debug bool

	httpTimeout time.Duration
	trackerOnce sync.Once
	tracker     *store.Tracker
	trackerErr  error
}

// Options configures the runtime context.
type Options struct {
	DBPath      string
	InMemory    bool
	Format      output.Format
	ColorMode   output.ColorMode
	Debug       bool
	HTTPTimeout time.Duration
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:      config.Global.Storage.Path,
		InMemory:    config.Global.Storage.InMemory,
		Format:      output.FormatCLI,
		ColorMode:   output.ColorAuto,
		Debug:       false,
		HTTPTimeout: config.Global.HTTP.Timeout,
	}
}

// New creates a new runtime context. The tracker is loaded on first use.
func New(opts Options) (*Context, error) {
	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, WrapDiskFullError(err, "open", opts.DBPath)
	}

	sess, err := session.Load(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = remote.DefaultTimeout
	}

	return &Context{
		DB:          db,
		Formatter:   formatter,
		Session:     sess,
		Debug:       opts.Debug,
		httpTimeout: timeout,
	}, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Authenticated reports whether records go to the API server.
func (c *Context) Authenticated() bool {
	return c.Session.Authenticated(time.Now())
}

// HTTPTimeout bounds one API call.
func (c *Context) HTTPTimeout() time.Duration {
	return c.httpTimeout
}

// Tracker returns the hydrated tracker. Collections are served by the API
// server while a session is authenticated and by local storage otherwise.
// The daily goal always stays local.
func (c *Context) Tracker(ctx context.Context) (*store.Tracker, error) {
	c.trackerOnce.Do(func() {
		cfg, err := c.trackerConfig(ctx)
		if err != nil {
			c.trackerErr = err
			return
		}
		t := store.NewTracker(cfg)
		if err := t.Load(ctx); err != nil {
			c.trackerErr = err
			return
		}
		c.tracker = t
	})
	return c.tracker, c.trackerErr
}

func (c *Context) trackerConfig(ctx context.Context) (store.Config, error) {
	cfg := store.Config{Settings: storage.NewLocalSettings(c.DB)}

	if !c.Authenticated() {
		cfg.Applications = storage.NewLocalCollection[*model.Application](c.DB, model.KeyApplications)
		cfg.Events = storage.NewLocalCollection[*model.Event](c.DB, model.KeyEvents)
		cfg.Problems = storage.NewLocalCollection[*model.Problem](c.DB, model.KeyProblems)
		logging.FromContext(ctx).Debug("using local storage", logging.KeyBackend, "local")
		return cfg, nil
	}

	client, err := remote.NewClient(ctx, c.Session.Server, c.Session.Token, c.httpTimeout)
	if err != nil {
		return cfg, err
	}
	cfg.Applications = remote.Applications(client)
	cfg.Events = remote.Events(client)
	cfg.Problems = remote.Problems(client)
	logging.FromContext(ctx).Debug("using api server",
		logging.KeyBackend, client.BaseURL(),
		logging.KeyUserID, c.Session.User,
	)
	return cfg, nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// PlainFormatter returns a plain formatter.
func (c *Context) PlainFormatter() *output.PlainFormatter {
	return output.NewPlainFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsPlain returns true if output format is plain.
func (c *Context) IsPlain() bool {
	return c.Formatter.Format == output.FormatPlain
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...interface{}) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}
