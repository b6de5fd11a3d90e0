package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/jobtrack/internal/auth"
	jterrors "github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/parser"
	"github.com/manav03panchal/jobtrack/internal/remote"
	"github.com/manav03panchal/jobtrack/internal/server"
	"github.com/manav03panchal/jobtrack/internal/session"
	"github.com/manav03panchal/jobtrack/internal/storage"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// =============================================================================
// Context Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.NotEmpty(t, opts.DBPath)
	assert.Equal(t, output.FormatCLI, opts.Format)
	assert.Equal(t, output.ColorAuto, opts.ColorMode)
	assert.False(t, opts.Debug)
	assert.Greater(t, opts.HTTPTimeout, time.Duration(0))
}

func TestNew(t *testing.T) {
	rt, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer rt.Close()

	assert.NotNil(t, rt.DB)
	assert.NotNil(t, rt.Formatter)
	assert.Nil(t, rt.Session)
	assert.False(t, rt.Authenticated())
}

func TestNewWithOptions(t *testing.T) {
	rt, err := New(Options{
		InMemory:  true,
		Format:    output.FormatJSON,
		ColorMode: output.ColorNever,
		Debug:     true,
	})
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, output.FormatJSON, rt.Formatter.Format)
	assert.Equal(t, output.ColorNever, rt.Formatter.ColorMode)
	assert.True(t, rt.Debug)
	assert.True(t, rt.IsJSON())
	assert.False(t, rt.IsPlain())
}

func TestNewOnDisk(t *testing.T) {
	rt, err := New(Options{DBPath: t.TempDir()})
	require.NoError(t, err)
	assert.NotEmpty(t, rt.DB.Path())
	assert.NoError(t, rt.Close())

	nilCtx := &Context{}
	assert.NoError(t, nilCtx.Close())
}

func TestContextDebugf(t *testing.T) {
	var buf bytes.Buffer
	rt, err := New(Options{InMemory: true, Debug: true})
	require.NoError(t, err)
	defer rt.Close()

	rt.Formatter.Writer = &buf
	rt.Debugf("test message %s", "arg1")
	assert.Contains(t, buf.String(), "[DEBUG] test message arg1")

	buf.Reset()
	rt.Debug = false
	rt.Debugf("hidden")
	assert.Empty(t, buf.String())
}

// =============================================================================
// Tracker Tests
// =============================================================================

func TestTrackerUsesLocalStorageWhenSignedOut(t *testing.T) {
	rt, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer rt.Close()
	ctx := context.Background()

	tr, err := rt.Tracker(ctx)
	require.NoError(t, err)
	_, isLocal := tr.Problems.Backend().(*storage.LocalCollection[*model.Problem])
	assert.True(t, isLocal)

	_, err = tr.Problems.Add(ctx, model.NewProblem("Two Sum", model.DifficultyEasy, ""))
	require.NoError(t, err)

	raw, ok, err := rt.DB.GetRaw(model.KeyProblems)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, string(raw), "Two Sum")

	again, err := rt.Tracker(ctx)
	require.NoError(t, err)
	assert.Same(t, tr, again)
}

func TestTrackerUsesServerWhenAuthenticated(t *testing.T) {
	srv, err := server.New(server.Config{JWTSecret: testSecret}, server.NewMemoryRepositories())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	token, err := auth.Issue(testSecret, "alice", time.Hour)
	require.NoError(t, err)

	db, err := storage.Open(storage.Options{Path: t.TempDir()})
	require.NoError(t, err)
	sess, err := session.New(ts.URL, token)
	require.NoError(t, err)
	require.NoError(t, session.Save(db, sess))
	path := db.Path()
	require.NoError(t, db.Close())

	rt, err := New(Options{DBPath: path})
	require.NoError(t, err)
	defer rt.Close()
	ctx := context.Background()

	require.True(t, rt.Authenticated())
	tr, err := rt.Tracker(ctx)
	require.NoError(t, err)
	_, isRemote := tr.Applications.Backend().(*remote.Collection[*model.Application])
	assert.True(t, isRemote)

	_, err = tr.Applications.Add(ctx, model.NewApplication("Acme", "SWE", time.Now(), ""))
	require.NoError(t, err)

	_, ok, err := rt.DB.GetRaw(model.KeyApplications)
	require.NoError(t, err)
	assert.False(t, ok, "records go to the server, not local storage")

	require.NoError(t, tr.SetDailyGoal(4))
	raw, _, _ := rt.DB.GetRaw(model.KeyDailyGoal)
	assert.Equal(t, "4", string(raw))
}

func TestTrackerExpiredSessionFallsBackToLocal(t *testing.T) {
	db, err := storage.Open(storage.Options{Path: t.TempDir()})
	require.NoError(t, err)
	token, err := auth.Issue(testSecret, "alice", time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, session.Save(db, &session.Session{Server: "https://jobtrack.example.com", Token: token, User: "alice"}))
	path := db.Path()
	require.NoError(t, db.Close())

	time.Sleep(1100 * time.Millisecond)

	rt, err := New(Options{DBPath: path})
	require.NoError(t, err)
	defer rt.Close()

	assert.False(t, rt.Authenticated())
	tr, err := rt.Tracker(context.Background())
	require.NoError(t, err)
	_, isLocal := tr.Events.Backend().(*storage.LocalCollection[*model.Event])
	assert.True(t, isLocal)
}

// =============================================================================
// Resolve Tests
// =============================================================================

func TestResolveID(t *testing.T) {
	items := []*model.Problem{{ID: "abc123"}, {ID: "abd456"}, {ID: "xyz"}}

	id, err := ResolveID(items, "abc", ErrProblemGone)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	id, err = ResolveID(items, "xyz", ErrProblemGone)
	require.NoError(t, err)
	assert.Equal(t, "xyz", id)

	_, err = ResolveID(items, "ab", ErrProblemGone)
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = ResolveID(items, "nope", ErrProblemGone)
	assert.ErrorIs(t, err, ErrProblemGone)

	_, err = ResolveID(items, " ", ErrProblemGone)
	assert.ErrorIs(t, err, ErrProblemGone)
}

func TestResolveItemID(t *testing.T) {
	items := []model.ActionItem{{ID: "a1"}, {ID: "b2"}}

	id, err := ResolveItemID(items, "b")
	require.NoError(t, err)
	assert.Equal(t, "b2", id)

	_, err = ResolveItemID(items, "c")
	assert.ErrorIs(t, err, ErrActionItemGone)
}

// =============================================================================
// Error Tests
// =============================================================================

func TestGetSuggestion(t *testing.T) {
	t.Run("known_error", func(t *testing.T) {
		assert.Contains(t, GetSuggestion(ErrProblemGone), "jobtrack problem list")
	})

	t.Run("wrapped_error", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", ErrAmbiguousID)
		assert.NotEmpty(t, GetSuggestion(wrapped))
	})

	t.Run("falls_back_to_taxonomy", func(t *testing.T) {
		assert.Contains(t, GetSuggestion(jterrors.ErrUnauthorized), "jobtrack login")
	})

	t.Run("unknown_error", func(t *testing.T) {
		assert.Empty(t, GetSuggestion(errors.New("some random error")))
	})
}

func TestFormatError(t *testing.T) {
	t.Run("with_suggestion", func(t *testing.T) {
		formatted := FormatError(ErrEventGone)
		assert.Contains(t, formatted, "event not found")
		assert.Contains(t, formatted, "jobtrack event list")
	})

	t.Run("system_error", func(t *testing.T) {
		err := jterrors.NewSystemError("request failed", jterrors.ErrTransientIO)
		assert.Contains(t, FormatError(err), "System error: request failed")
	})

	t.Run("parse_error_lists_examples", func(t *testing.T) {
		err := fmt.Errorf("event add: %w", parser.NewDateError("someday"))
		assert.Contains(t, FormatError(err), "Valid examples:")
	})

	t.Run("without_suggestion", func(t *testing.T) {
		assert.Equal(t, "custom error", FormatError(errors.New("custom error")))
	})
}

func TestSuggestionsMap(t *testing.T) {
	for _, err := range []error{
		ErrApplicationGone,
		ErrEventGone,
		ErrActionItemGone,
		ErrProblemGone,
		ErrAmbiguousID,
		ErrDiskFull,
	} {
		t.Run(err.Error(), func(t *testing.T) {
			suggestion, exists := Suggestions[err]
			assert.True(t, exists, "missing suggestion for %v", err)
			assert.NotEmpty(t, suggestion)
		})
	}
}

// =============================================================================
// DiskFullError Tests
// =============================================================================

func TestNewDiskFullError(t *testing.T) {
	err := NewDiskFullError("write", "/path/to/db", errors.New("underlying error"))

	assert.Equal(t, "write", err.Op)
	assert.Equal(t, "/path/to/db", err.Path)
	assert.Contains(t, err.Error(), "disk full during write on /path/to/db")
	assert.True(t, errors.Is(err, ErrDiskFull))

	noPath := NewDiskFullError("sync", "", errors.New("underlying error"))
	assert.NotContains(t, noPath.Error(), " on ")
}

func TestIsDiskFullError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil_error", nil, false},
		{"disk_full_error_type", NewDiskFullError("write", "", nil), true},
		{"wrapped_sentinel", fmt.Errorf("context: %w", ErrDiskFull), true},
		{"enospc_errno", syscall.ENOSPC, true},
		{"wrapped_enospc", fmt.Errorf("badger write: %w", syscall.ENOSPC), true},
		{"message_no_space", errors.New("no space left on device"), true},
		{"message_upper_case", errors.New("DISK FULL"), true},
		{"message_insufficient", errors.New("insufficient disk space"), true},
		{"regular_error", errors.New("connection timeout"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDiskFullError(tt.err))
		})
	}
}

func TestWrapDiskFullError(t *testing.T) {
	assert.Nil(t, WrapDiskFullError(nil, "write", "/path"))

	result := WrapDiskFullError(errors.New("no space left on device"), "write", "/path/to/db")
	var diskFullErr *DiskFullError
	require.True(t, errors.As(result, &diskFullErr))
	assert.Equal(t, "/path/to/db", diskFullErr.Path)

	plain := errors.New("connection timeout")
	assert.Equal(t, plain, WrapDiskFullError(plain, "write", "/path"))
}
