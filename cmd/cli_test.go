package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/jobtrack/internal/config"
	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/runtime"
	"github.com/manav03panchal/jobtrack/internal/server"
	"github.com/manav03panchal/jobtrack/internal/transfer"
	"github.com/manav03panchal/jobtrack/internal/views"
)

const testSecret = "cli-test-secret-0123456789"

// testContext runs the CLI in-process against a temporary database.
type testContext struct {
	t     *testing.T
	dbDir string
}

func setup(t *testing.T) *testContext {
	t.Helper()

	fixed := time.Date(2024, 5, 15, 10, 30, 0, 0, time.Local)
	now = func() time.Time { return fixed }
	t.Cleanup(func() {
		now = time.Now
		config.Global.Reset()
	})

	return &testContext{t: t, dbDir: t.TempDir()}
}

// resetFlags puts every flag back to its default between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes jobtrack with args and returns what it printed.
func (tc *testContext) run(args ...string) (string, error) {
	tc.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", tc.dbDir, "--color", "never"}, args...))

	err := Execute(context.Background())
	return out.String(), err
}

func (tc *testContext) mustRun(args ...string) string {
	tc.t.Helper()
	out, err := tc.run(args...)
	require.NoError(tc.t, err, out)
	return out
}

func (tc *testContext) mustRunJSON(v any, args ...string) {
	tc.t.Helper()
	out := tc.mustRun(append([]string{"--format", "json"}, args...)...)
	require.NoError(tc.t, json.Unmarshal([]byte(out), v), out)
}

func (tc *testContext) create(args ...string) string {
	tc.t.Helper()
	var resp output.MutationResponse
	tc.mustRunJSON(&resp, args...)
	require.Equal(tc.t, "created", resp.Status)
	require.NotEmpty(tc.t, resp.ID)
	return resp.ID
}

// =============================================================================
// Applications
// =============================================================================

func TestAppAddAndList(t *testing.T) {
	tc := setup(t)

	tc.create("app", "add", "Acme", "Backend Engineer", "--date", "2024-05-01")
	tc.create("app", "add", "Initech", "SRE", "--status", "phone screen")
	tc.create("app", "add", "acme ", "Platform Engineer", "--notes", "referral")

	var resp output.ApplicationsResponse
	tc.mustRunJSON(&resp, "app", "list")

	require.Len(t, resp.Groups, 2)
	assert.Equal(t, "Acme", resp.Groups[0].Company)
	assert.Len(t, resp.Groups[0].Applications, 2)
	assert.Equal(t, "Initech", resp.Groups[1].Company)
	assert.Equal(t, views.Counts{Total: 3, Interviewing: 1}, resp.Counts)

	tc.mustRunJSON(&resp, "app", "list", "--search", "platform")
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, "Platform Engineer", resp.Groups[0].Applications[0].Position)

	out := tc.mustRun("app", "list")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Backend Engineer")
}

func TestAppStatusByShortID(t *testing.T) {
	tc := setup(t)
	id := tc.create("app", "add", "Acme", "Backend Engineer")

	tc.mustRun("app", "status", id[:8], "final round")

	var stats StatsResponse
	tc.mustRunJSON(&stats, "app", "stats")
	require.Len(t, stats.ByStatus, 1)
	assert.Equal(t, "Final Round", string(stats.ByStatus[0].Status))
	assert.Equal(t, 1, stats.Counts.Interviewing)
	assert.Equal(t, views.Pipeline{Open: 1}, stats.Pipeline)
}

func TestAppUpdateAndRemove(t *testing.T) {
	tc := setup(t)
	id := tc.create("app", "add", "Acme", "Backend Engineer", "--notes", "first")

	tc.mustRun("app", "update", id, "--position", "Staff Engineer")

	var resp output.ApplicationsResponse
	tc.mustRunJSON(&resp, "app", "list")
	a := resp.Groups[0].Applications[0]
	assert.Equal(t, "Staff Engineer", a.Position)
	assert.Equal(t, "first", a.Notes, "unset flags are left alone")

	tc.mustRun("app", "rm", id)
	tc.mustRunJSON(&resp, "app", "list")
	assert.Empty(t, resp.Groups)
}

func TestAppUnknownID(t *testing.T) {
	tc := setup(t)

	_, err := tc.run("app", "show", "nope")
	assert.ErrorIs(t, err, runtime.ErrApplicationGone)

	_, err = tc.run("app", "status", "nope", "Ghosted")
	assert.Error(t, err)
}

func TestAppInvalidStatus(t *testing.T) {
	tc := setup(t)

	_, err := tc.run("app", "add", "Acme", "SWE", "--status", "Ghosted")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

// =============================================================================
// Events
// =============================================================================

func TestEventActionItems(t *testing.T) {
	tc := setup(t)
	eventID := tc.create("event", "add", "Acme", "Backend Engineer", "--step", "phone screen", "--date", "2024-05-15")

	itemID := tc.create("event", "item", "add", eventID[:8], "Send availability", "--deadline", "+2d")
	tc.create("event", "item", "add", eventID, "Read the team blog")

	var pending output.PendingResponse
	tc.mustRunJSON(&pending, "event", "pending")
	require.Len(t, pending.Items, 2)
	assert.Equal(t, "Send availability", pending.Items[0].Item.Text, "deadlines first")
	require.NotNil(t, pending.Items[0].Item.Deadline)
	assert.True(t, now().AddDate(0, 0, 2).Equal(*pending.Items[0].Item.Deadline))

	tc.mustRun("event", "item", "due", eventID, itemID, "2024-05-20")
	tc.mustRunJSON(&pending, "event", "pending")
	assert.Equal(t, 20, pending.Items[0].Item.Deadline.Day())

	tc.mustRun("event", "item", "toggle", eventID, itemID[:8])
	tc.mustRunJSON(&pending, "event", "pending")
	require.Len(t, pending.Items, 1)
	assert.Equal(t, "Read the team blog", pending.Items[0].Item.Text)

	tc.mustRun("event", "item", "rm", eventID, pending.Items[0].Item.ID)
	tc.mustRunJSON(&pending, "event", "pending")
	assert.Empty(t, pending.Items)

	var events output.EventsResponse
	tc.mustRunJSON(&events, "event", "list")
	require.Len(t, events.Events, 1)
	assert.Len(t, events.Events[0].ActionItems, 1)
}

func TestEventListPeriod(t *testing.T) {
	tc := setup(t)
	tc.create("event", "add", "Acme", "SWE", "--date", "2024-05-14")
	tc.create("event", "add", "Initech", "SRE", "--date", "2024-05-02")

	var events output.EventsResponse
	tc.mustRunJSON(&events, "event", "list", "--period", "this week")
	require.Len(t, events.Events, 1)
	assert.Equal(t, "Acme", events.Events[0].Company)

	tc.mustRunJSON(&events, "event", "list")
	require.Len(t, events.Events, 2)
	assert.Equal(t, "Initech", events.Events[0].Company, "date order")

	_, err := tc.run("event", "list", "--period", "fortnight")
	assert.Error(t, err)
}

func TestEventUnknownStep(t *testing.T) {
	tc := setup(t)
	_, err := tc.run("event", "add", "Acme", "SWE", "--step", "Coffee Chat")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

// =============================================================================
// Problems and goal
// =============================================================================

func TestProblemsAndGoal(t *testing.T) {
	tc := setup(t)
	first := tc.create("problem", "add", "Two Sum", "--difficulty", "easy")
	tc.create("problem", "add", "LRU Cache", "--difficulty", "hard")

	tc.mustRun("goal", "2")
	tc.mustRun("problem", "toggle", first[:8])

	var resp output.ProblemsResponse
	tc.mustRunJSON(&resp, "problem", "list")
	assert.Len(t, resp.Problems, 2)
	assert.Equal(t, views.Progress{Completed: 1, Goal: 2, Percent: 50}, resp.Progress)

	tc.mustRunJSON(&resp, "problem", "list", "--open")
	require.Len(t, resp.Problems, 1)
	assert.Equal(t, "LRU Cache", resp.Problems[0].Name)

	var goal output.GoalResponse
	tc.mustRunJSON(&goal, "goal")
	assert.Equal(t, 2, goal.DailyGoal)

	_, err := tc.run("goal", "0")
	assert.ErrorIs(t, err, errors.ErrValidation)
	_, err = tc.run("goal", "many")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestOverview(t *testing.T) {
	tc := setup(t)
	tc.create("app", "add", "Acme", "SWE", "--status", "offer")
	tc.create("event", "add", "Acme", "SWE", "--date", "2024-05-15", "--step", "final round")
	tc.create("problem", "add", "Two Sum")

	var resp OverviewResponse
	tc.mustRunJSON(&resp)
	assert.Equal(t, views.Counts{Total: 1, Offers: 1}, resp.Counts)
	assert.Len(t, resp.Today, 1)
	assert.Empty(t, resp.Pending)
	assert.Equal(t, 3, resp.Progress.Goal)

	out := tc.mustRun()
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Daily goal")
}

// =============================================================================
// Export / import
// =============================================================================

func TestExportImportRoundTrip(t *testing.T) {
	tc := setup(t)
	tc.create("app", "add", "Acme", "SWE")
	tc.create("problem", "add", "Two Sum")
	tc.mustRun("goal", "5")

	file := filepath.Join(t.TempDir(), "backup.json")
	tc.mustRun("export", "-o", file)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"companyApplications"`)

	other := &testContext{t: t, dbDir: t.TempDir()}
	other.mustRun("import", "--dry-run", file)

	var before output.ApplicationsResponse
	other.mustRunJSON(&before, "app", "list")
	assert.Empty(t, before.Groups, "dry run writes nothing")

	var imported output.ImportResponse
	other.mustRunJSON(&imported, "import", file)
	assert.True(t, imported.Result.ReloadRequired)

	var apps output.ApplicationsResponse
	other.mustRunJSON(&apps, "app", "list")
	require.Len(t, apps.Groups, 1)
	assert.Equal(t, "Acme", apps.Groups[0].Company)

	var goal output.GoalResponse
	other.mustRunJSON(&goal, "goal")
	assert.Equal(t, 5, goal.DailyGoal)
}

func TestExportDefaultFileName(t *testing.T) {
	tc := setup(t)
	tc.create("app", "add", "Acme", "SWE")
	t.Chdir(t.TempDir())

	var resp output.ExportResponse
	tc.mustRunJSON(&resp, "export")

	name := transfer.FileName(now())
	assert.Equal(t, "jobtrack-data-2024-05-15.json", name)
	assert.Equal(t, name, resp.Path)
	assert.FileExists(t, name)
	assert.Contains(t, exportCmd.Long, "jobtrack-data-YYYY-MM-DD.json")
}

func TestImportRejectsBadDocument(t *testing.T) {
	tc := setup(t)
	tc.create("app", "add", "Acme", "SWE")

	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"data":{"companyApplications":"[]"}}`), 0o600))

	_, err := tc.run("import", file)
	assert.ErrorIs(t, err, errors.ErrValidation)

	var apps output.ApplicationsResponse
	tc.mustRunJSON(&apps, "app", "list")
	assert.Len(t, apps.Groups, 1, "nothing was overwritten")
}

// =============================================================================
// Server session
// =============================================================================

func TestLoginSyncsWithServer(t *testing.T) {
	tc := setup(t)
	t.Setenv(config.EnvJWTSecret, testSecret)

	srv, err := server.New(server.Config{JWTSecret: testSecret}, server.NewMemoryRepositories())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	tc.create("app", "add", "Local Co", "SWE")

	token := strings.TrimSpace(tc.mustRun("token", "--user", "alice", "--ttl", "1h"))
	require.NotEmpty(t, token)

	tc.mustRun("login", "--server", ts.URL, "--token", token)

	var who output.SessionResponse
	tc.mustRunJSON(&who, "whoami")
	assert.True(t, who.Authenticated)
	assert.Equal(t, "alice", who.User)

	tc.create("app", "add", "Remote Inc", "SRE")
	var apps output.ApplicationsResponse
	tc.mustRunJSON(&apps, "app", "list")
	require.Len(t, apps.Groups, 1)
	assert.Equal(t, "Remote Inc", apps.Groups[0].Company)

	tc.mustRun("logout")
	tc.mustRunJSON(&apps, "app", "list")
	require.Len(t, apps.Groups, 1)
	assert.Equal(t, "Local Co", apps.Groups[0].Company, "local data is back after logout")
}

func TestLoginRejectsForeignToken(t *testing.T) {
	tc := setup(t)
	srv, err := server.New(server.Config{JWTSecret: testSecret}, server.NewMemoryRepositories())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	t.Setenv(config.EnvJWTSecret, "some-other-secret-0123456789")
	token := strings.TrimSpace(tc.mustRun("token", "--user", "mallory"))

	_, err = tc.run("login", "--server", ts.URL, "--token", token)
	require.Error(t, err)
	assert.True(t, errors.IsUserError(err))

	var who output.SessionResponse
	tc.mustRunJSON(&who, "whoami")
	assert.False(t, who.Authenticated)
}

func TestTokenRequiresSecret(t *testing.T) {
	tc := setup(t)
	t.Setenv(config.EnvJWTSecret, "short")

	_, err := tc.run("token", "--user", "alice")
	assert.Error(t, err)
}

// =============================================================================
// Output and helpers
// =============================================================================

func TestJSONErrorOutput(t *testing.T) {
	tc := setup(t)

	out, err := tc.run("--format", "json", "problem", "toggle", "missing")
	require.Error(t, err)

	var resp output.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.Message)
}

func TestConfigMasksSecrets(t *testing.T) {
	tc := setup(t)
	t.Setenv(config.EnvJWTSecret, testSecret)
	t.Setenv(config.EnvDatabaseURL, "postgres://jobtrack:hunter2@db:5432/jobtrack")

	var resp ConfigResponse
	tc.mustRunJSON(&resp, "config")
	assert.Equal(t, tc.dbDir, resp.Database)
	assert.NotContains(t, resp.JWTSecret, testSecret)
	assert.NotContains(t, resp.DatabaseURL, "hunter2")
}

func TestServeLogConfig(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, serveLogConfig(false).Level, "request logs are info lines")
	assert.True(t, serveLogConfig(false).JSON)
	assert.Equal(t, slog.LevelDebug, serveLogConfig(true).Level)
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"0", 0, false},
		{"12h", 12 * time.Hour, false},
		{"30d", 30 * 24 * time.Hour, false},
		{"-1h", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTTL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatching(t *testing.T) {
	assert.Equal(t, []string{"Phone Screen"}, matching([]string{"Applied", "Phone Screen"}, "ph"))
	assert.Empty(t, matching([]string{"Applied"}, "x"))
}
