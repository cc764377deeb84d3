package populate

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/wealth-populate/internal/api"
	"github.com/rcliao/wealth-populate/internal/api/apitest"
	"github.com/rcliao/wealth-populate/internal/content"
	"github.com/rcliao/wealth-populate/internal/drafter"
	"github.com/rcliao/wealth-populate/internal/factory"
	"github.com/rcliao/wealth-populate/internal/metrics"
	"github.com/rcliao/wealth-populate/internal/model"
)

var fixed = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixed }

func newOrchestrator(cfg Config, seed int64, entityAPI EntityAPI, opts ...Option) *Orchestrator {
	f := factory.New(seed, factory.WithClock(fixedNow))
	chain := content.NewChain(nil, content.WithClock(fixedNow))
	return New(cfg, f, chain, entityAPI, opts...)
}

func TestDryRunCountsWithoutNetwork(t *testing.T) {
	srv := apitest.NewServer(t)
	o := newOrchestrator(Config{Clients: 5, MinDocs: 2, MaxDocs: 2, DryRun: true}, 1, api.New(srv.URL, "tok"))

	res, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, res.Counters.ClientsCreated)
	assert.Equal(t, 10, res.Counters.DocumentsCreated)
	assert.True(t, res.DryRun)
	assert.Equal(t, StateDone, res.State)
	assert.Zero(t, srv.Hits())
}

func TestDryRunWithoutAPI(t *testing.T) {
	res, err := newOrchestrator(Config{Clients: 3, MinDocs: 0, MaxDocs: 0, DryRun: true}, 1, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Counters.ClientsCreated)
	assert.Zero(t, res.Counters.DocumentsCreated)
}

func TestDryRunSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	_, err := newOrchestrator(Config{Clients: 2, MinDocs: 1, MaxDocs: 1, DryRun: true}, 1, nil, WithLogger(logger)).
		Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Would create 2 clients and 2 documents.")
}

func TestInvalidBoundsFailBeforeNetwork(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"min above max", Config{Clients: 3, MinDocs: 4, MaxDocs: 2}},
		{"negative min", Config{Clients: 3, MinDocs: -1, MaxDocs: 2}},
		{"negative max", Config{Clients: 3, MinDocs: 0, MaxDocs: -2}},
		{"negative clients", Config{Clients: -1, MinDocs: 0, MaxDocs: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer(t)
			res, err := newOrchestrator(tt.cfg, 1, api.New(srv.URL, "tok")).Run(context.Background())

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, StateFailed, res.State)
			assert.Zero(t, res.Counters.ClientsCreated)
			assert.Zero(t, srv.Hits())
		})
	}
}

func TestMaxDocsZeroForcesNoDocuments(t *testing.T) {
	srv := apitest.NewServer(t)
	res, err := newOrchestrator(Config{Clients: 4, MinDocs: 0, MaxDocs: 0}, 1, api.New(srv.URL, "tok")).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Counters.ClientsCreated)
	assert.Zero(t, res.Counters.DocumentsCreated)
	assert.Len(t, srv.Clients(), 4)
	assert.Empty(t, srv.Documents())
}

func TestLiveRun(t *testing.T) {
	srv := apitest.NewServer(t)
	m := metrics.New()
	o := newOrchestrator(Config{Clients: 6, MinDocs: 1, MaxDocs: 3}, 9, api.New(srv.URL, "tok"), WithMetrics(m))

	res, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, 6, res.Counters.ClientsCreated)
	assert.Len(t, srv.Clients(), 6)
	assert.Len(t, srv.Documents(), res.Counters.DocumentsCreated)
	assert.GreaterOrEqual(t, res.Counters.DocumentsCreated, 6)
	assert.LessOrEqual(t, res.Counters.DocumentsCreated, 18)

	for _, d := range srv.Documents() {
		assert.True(t, strings.HasPrefix(d.ClientID, "c-"))
		assert.Len(t, strings.Split(d.Content, "\n\n"), 4)
	}

	assert.Equal(t, 6.0, testutil.ToFloat64(m.ClientsCreated))
	assert.Equal(t, float64(res.Counters.DocumentsCreated), testutil.ToFloat64(m.DocumentsCreated))
	assert.Equal(t, float64(res.Counters.DocumentsCreated), testutil.ToFloat64(m.Generated.WithLabelValues("template")))
}

func TestLiveRunIsDeterministic(t *testing.T) {
	run := func() ([]apitest.Client, []apitest.Document) {
		srv := apitest.NewServer(t)
		_, err := newOrchestrator(Config{Clients: 8, MinDocs: 0, MaxDocs: 4}, 2024, api.New(srv.URL, "tok")).
			Run(context.Background())
		require.NoError(t, err)
		return srv.Clients(), srv.Documents()
	}
	c1, d1 := run()
	c2, d2 := run()
	if diff := cmp.Diff(c1, c2); diff != "" {
		t.Errorf("clients differ between runs:\n%s", diff)
	}
	if diff := cmp.Diff(d1, d2); diff != "" {
		t.Errorf("documents differ between runs:\n%s", diff)
	}
}

func TestClientFailureAbortsRun(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.FailClientAt = 3

	res, err := newOrchestrator(Config{Clients: 5, MinDocs: 1, MaxDocs: 1}, 1, api.New(srv.URL, "tok")).Run(context.Background())

	var ece *api.EntityCreationError
	require.ErrorAs(t, err, &ece)
	assert.Equal(t, http.StatusInternalServerError, ece.Status)
	assert.Contains(t, err.Error(), "client 3:")
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, 2, res.Counters.ClientsCreated)
	assert.Equal(t, 2, res.Counters.DocumentsCreated)
	assert.Equal(t, model.RunFailed, StatusOf(err))
}

func TestDocumentFailureAbortsRun(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.FailDocumentAt = 4
	srv.FailStatus = http.StatusBadRequest

	res, err := newOrchestrator(Config{Clients: 5, MinDocs: 2, MaxDocs: 2}, 1, api.New(srv.URL, "tok")).Run(context.Background())

	var ece *api.EntityCreationError
	require.ErrorAs(t, err, &ece)
	assert.Equal(t, "c-2", ece.ClientID)
	assert.Equal(t, http.StatusBadRequest, ece.Status)
	assert.Contains(t, ece.Body, "document rejected")
	assert.Contains(t, err.Error(), "client 2 document 2:")
	assert.Equal(t, 2, res.Counters.ClientsCreated)
	assert.Equal(t, 3, res.Counters.DocumentsCreated)
}

func TestMissingClientIDAbortsRun(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.OmitID = true

	res, err := newOrchestrator(Config{Clients: 2, MinDocs: 1, MaxDocs: 1}, 1, api.New(srv.URL, "tok")).Run(context.Background())
	assert.ErrorIs(t, err, api.ErrMissingID)
	assert.Zero(t, res.Counters.ClientsCreated)
}

func TestLiveRunRequiresAPI(t *testing.T) {
	_, err := newOrchestrator(Config{Clients: 1, MinDocs: 1, MaxDocs: 1}, 1, nil).Run(context.Background())
	assert.Error(t, err)
}

type cancellingAPI struct {
	cancel  context.CancelFunc
	after   int
	clients int
}

func (c *cancellingAPI) CreateClient(ctx context.Context, rec model.ClientRecord) (string, error) {
	c.clients++
	if c.clients == c.after {
		c.cancel()
	}
	return "id", nil
}

func (c *cancellingAPI) CreateDocument(ctx context.Context, clientID string, d model.DocumentRecord) error {
	return ctx.Err()
}

func TestInterruptedRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fake := &cancellingAPI{cancel: cancel, after: 2}

	res, err := newOrchestrator(Config{Clients: 10, MinDocs: 0, MaxDocs: 0}, 1, fake).Run(ctx)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, model.RunInterrupted, StatusOf(err))
	assert.Equal(t, 2, res.Counters.ClientsCreated)
	assert.Equal(t, 2, fake.clients)
}

func TestInterruptedDuringDocuments(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fake := &cancellingAPI{cancel: cancel, after: 1}

	res, err := newOrchestrator(Config{Clients: 3, MinDocs: 2, MaxDocs: 2}, 1, fake).Run(ctx)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, 1, res.Counters.ClientsCreated)
	assert.Zero(t, res.Counters.DocumentsCreated)
}

func TestProgressReports(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	srv := apitest.NewServer(t)

	tick := fixed
	clock := func() time.Time {
		tick = tick.Add(500 * time.Millisecond)
		return tick
	}
	_, err := newOrchestrator(Config{Clients: 5, MinDocs: 0, MaxDocs: 0}, 1, api.New(srv.URL, "tok"),
		WithLogger(logger), WithProgressEvery(2), WithClock(clock)).Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "Progress:"))
	assert.Contains(t, out, "Progress: 2 clients, 0 documents (4.0 clients/sec)")
	assert.Contains(t, out, "Progress: 4 clients, 0 documents")
	assert.Contains(t, out, "Data load complete in")
}

func TestLLMDraftsAreSubmitted(t *testing.T) {
	llm := chi.NewRouter()
	var calls atomic.Int32
	llm.Post("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1)%2 == 0 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"response":"Here you go: {\"title\":\"X\",\"content\":\"Y\"} thanks"}`))
	})
	llmSrv := httptest.NewServer(llm)
	defer llmSrv.Close()

	srv := apitest.NewServer(t)
	m := metrics.New()
	f := factory.New(5, factory.WithClock(fixedNow))
	chain := content.NewChain(drafter.NewOllamaDrafter(llmSrv.URL, "m", 0), content.WithClock(fixedNow))
	o := New(Config{Clients: 2, MinDocs: 2, MaxDocs: 2}, f, chain, api.New(srv.URL, "tok"), WithMetrics(m))

	res, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Counters.DocumentsCreated)
	assert.Equal(t, int32(4), calls.Load())

	docs := srv.Documents()
	require.Len(t, docs, 4)
	assert.Equal(t, "X", docs[0].Title)
	assert.Equal(t, "Y", docs[0].Content)
	assert.NotEqual(t, "X", docs[1].Title)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generated.WithLabelValues("llm")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generated.WithLabelValues("template")))
}

func TestRunIDGenerated(t *testing.T) {
	a := newOrchestrator(Config{DryRun: true}, 1, nil)
	b := newOrchestrator(Config{DryRun: true}, 1, nil, WithRunID("fixed"))
	ra, _ := a.Run(context.Background())
	rb, _ := b.Run(context.Background())
	assert.Len(t, ra.RunID, 26)
	assert.Equal(t, "fixed", rb.RunID)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, model.RunCompleted, StatusOf(nil))
	assert.Equal(t, model.RunInterrupted, StatusOf(ErrInterrupted))
	assert.Equal(t, model.RunFailed, StatusOf(errors.New("x")))
}
