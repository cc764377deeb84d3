package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/wealth-populate/internal/api"
	"github.com/rcliao/wealth-populate/internal/api/apitest"
	"github.com/rcliao/wealth-populate/internal/journal"
	"github.com/rcliao/wealth-populate/internal/logging"
	"github.com/rcliao/wealth-populate/internal/model"
	"github.com/rcliao/wealth-populate/internal/populate"
)

func parseRunFlags(t *testing.T, args ...string) runOptions {
	t.Helper()
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags(args))
	opts, err := readRunOptions(cmd)
	require.NoError(t, err)
	return opts
}

func TestReadRunOptionsDefaults(t *testing.T) {
	opts := parseRunFlags(t, "--host", "http://api.local:8080/")

	assert.Equal(t, "http://api.local:8080", opts.Host)
	assert.Equal(t, populate.DefaultClients, opts.Run.Clients)
	assert.Equal(t, populate.DefaultMinDocs, opts.Run.MinDocs)
	assert.Equal(t, populate.DefaultMaxDocs, opts.Run.MaxDocs)
	assert.False(t, opts.Run.DryRun)
	assert.True(t, opts.LLM.Enabled)
	assert.False(t, opts.SeedSet)
	assert.NotZero(t, opts.Seed)
}

func TestReadRunOptionsFlags(t *testing.T) {
	opts := parseRunFlags(t, "--clients", "5", "--min-docs", "2", "--max-docs", "2",
		"--dry-run", "--seed", "42", "--no-llm", "--faker")

	assert.Equal(t, populate.Config{Clients: 5, MinDocs: 2, MaxDocs: 2, DryRun: true}, opts.Run)
	assert.Equal(t, int64(42), opts.Seed)
	assert.True(t, opts.SeedSet)
	assert.True(t, opts.Faker)
	assert.False(t, opts.LLM.Enabled)
}

func TestProfileFillsUnsetFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
host: http://staging:9000
clients: 300
max_docs: 3
seed: 7
llm:
  enabled: false
  timeout: 2m
`), 0o644))

	opts := parseRunFlags(t, "--config", path, "--clients", "10")

	assert.Equal(t, "http://staging:9000", opts.Host)
	assert.Equal(t, 10, opts.Run.Clients, "explicit flag wins over the profile")
	assert.Equal(t, 3, opts.Run.MaxDocs)
	assert.Equal(t, int64(7), opts.Seed)
	assert.True(t, opts.SeedSet)
	assert.False(t, opts.LLM.Enabled)
	assert.Equal(t, 2*time.Minute, opts.LLM.Timeout)
}

func TestProfileBadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llm":{"timeout":"soon"}}`), 0o644))

	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))
	_, err := readRunOptions(cmd)
	assert.ErrorContains(t, err, "invalid llm timeout")
}

func newJournal(t *testing.T) *journal.SQLiteStore {
	t.Helper()
	s, err := journal.NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func decodeSummary(t *testing.T, out *bytes.Buffer) runSummary {
	t.Helper()
	var s runSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &s))
	return s
}

func TestExecuteRunDryRun(t *testing.T) {
	j := newJournal(t)
	var out bytes.Buffer
	opts := runOptions{
		Host: "http://127.0.0.1:1",
		Run:  populate.Config{Clients: 5, MinDocs: 2, MaxDocs: 2, DryRun: true},
		Seed: 3,
	}

	require.NoError(t, executeRun(context.Background(), opts, logging.Discard(), j, &out))

	s := decodeSummary(t, &out)
	assert.Equal(t, model.RunCompleted, s.Status)
	assert.True(t, s.DryRun)
	assert.Equal(t, 5, s.ClientsCreated)
	assert.Equal(t, 10, s.DocumentsCreated)

	run, err := j.Get(context.Background(), s.RunID)
	require.NoError(t, err)
	assert.Equal(t, model.RunCompleted, run.Status)
	assert.True(t, run.DryRun)
	assert.Equal(t, 10, run.DocumentsCreated)
	assert.Equal(t, int64(3), run.Seed)
}

func TestExecuteRunLive(t *testing.T) {
	srv := apitest.NewServer(t)
	j := newJournal(t)
	var out bytes.Buffer
	opts := runOptions{
		Host:  srv.URL,
		Token: "tok",
		Run:   populate.Config{Clients: 3, MinDocs: 1, MaxDocs: 2},
		Seed:  11,
		Faker: true,
	}

	require.NoError(t, executeRun(context.Background(), opts, logging.Discard(), j, &out))

	s := decodeSummary(t, &out)
	assert.Equal(t, 3, s.ClientsCreated)
	assert.Len(t, srv.Clients(), 3)
	assert.Len(t, srv.Documents(), s.DocumentsCreated)
}

func TestExecuteRunFailureIsJournaled(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.FailClientAt = 2
	j := newJournal(t)
	var out bytes.Buffer
	opts := runOptions{
		Host: srv.URL,
		Run:  populate.Config{Clients: 4, MinDocs: 0, MaxDocs: 0},
		Seed: 1,
	}

	err := executeRun(context.Background(), opts, logging.Discard(), j, &out)
	var ece *api.EntityCreationError
	require.ErrorAs(t, err, &ece)
	assert.Equal(t, http.StatusInternalServerError, ece.Status)

	s := decodeSummary(t, &out)
	assert.Equal(t, model.RunFailed, s.Status)
	assert.Equal(t, 1, s.ClientsCreated)
	assert.NotEmpty(t, s.Error)

	run, err := j.Get(context.Background(), s.RunID)
	require.NoError(t, err)
	assert.Equal(t, model.RunFailed, run.Status)
	assert.Equal(t, 1, run.ClientsCreated)
	assert.Contains(t, run.Error, "status 500")
}

func TestExecuteRunInvalidBounds(t *testing.T) {
	j := newJournal(t)
	var out bytes.Buffer
	opts := runOptions{Run: populate.Config{Clients: 1, MinDocs: 3, MaxDocs: 1}}

	err := executeRun(context.Background(), opts, logging.Discard(), j, &out)
	var cfgErr *populate.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Zero(t, out.Len())

	runs, _ := j.List(context.Background(), 10)
	assert.Empty(t, runs)
}

func TestExecuteRunWithoutJournal(t *testing.T) {
	var out bytes.Buffer
	opts := runOptions{Run: populate.Config{Clients: 2, MinDocs: 1, MaxDocs: 1, DryRun: true}, Seed: 1}
	require.NoError(t, executeRun(context.Background(), opts, logging.Discard(), nil, &out))
	assert.Equal(t, 2, decodeSummary(t, &out).DocumentsCreated)
}
