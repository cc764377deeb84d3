// Package populate drives a seeding run: it builds each client, creates it
// remotely, then creates its documents, strictly in order.
package populate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/wealth-populate/internal/content"
	"github.com/rcliao/wealth-populate/internal/factory"
	"github.com/rcliao/wealth-populate/internal/logging"
	"github.com/rcliao/wealth-populate/internal/metrics"
	"github.com/rcliao/wealth-populate/internal/model"
)

// EntityAPI creates records on the remote service.
type EntityAPI interface {
	CreateClient(ctx context.Context, c model.ClientRecord) (string, error)
	CreateDocument(ctx context.Context, clientID string, d model.DocumentRecord) error
}

// DocumentGenerator resolves the title and body for a scenario.
type DocumentGenerator interface {
	Generate(ctx context.Context, gc model.GenerationContext) (model.DocumentRecord, content.Source)
}

// State is the orchestrator's position in a run.
type State string

const (
	StateInit             State = "init"
	StateValidating       State = "validating"
	StateCreatingClient   State = "creating_client"
	StateCreatingDocument State = "creating_document"
	StateReporting        State = "reporting"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// Result summarises a run. Counters only include confirmed creations, also
// when the run fails.
type Result struct {
	RunID    string
	DryRun   bool
	Counters model.RunCounters
	Elapsed  time.Duration
	State    State
}

// StatusOf maps a run error to a journal status.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return model.RunCompleted
	case errors.Is(err, ErrInterrupted):
		return model.RunInterrupted
	default:
		return model.RunFailed
	}
}

// Orchestrator runs one population pass. It is single-use and not safe for
// concurrent use.
type Orchestrator struct {
	cfg           Config
	factory       *factory.Factory
	generator     DocumentGenerator
	api           EntityAPI
	metrics       *metrics.Metrics
	logger        *slog.Logger
	now           func() time.Time
	progressEvery int
	runID         string

	state    State
	counters model.RunCounters
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithProgressEvery sets how many clients pass between progress reports.
func WithProgressEvery(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.progressEvery = n
		}
	}
}

// WithRunID sets the run identifier; a ulid is generated otherwise.
func WithRunID(id string) Option {
	return func(o *Orchestrator) { o.runID = id }
}

// New creates an orchestrator. api may be nil for dry runs.
func New(cfg Config, f *factory.Factory, gen DocumentGenerator, api EntityAPI, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:           cfg,
		factory:       f,
		generator:     gen,
		api:           api,
		logger:        logging.Discard(),
		now:           time.Now,
		progressEvery: DefaultProgressEvery,
		state:         StateInit,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.runID == "" {
		o.runID = ulid.Make().String()
	}
	return o
}

// Run executes the run. On error the returned Result still carries the
// counters confirmed before the failure.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	o.transition(StateValidating)
	if err := o.cfg.Validate(); err != nil {
		return o.fail(err)
	}
	if !o.cfg.DryRun && o.api == nil {
		return o.fail(errors.New("no entity API configured for a live run"))
	}

	o.counters = model.RunCounters{StartedAt: o.now()}
	o.logger.Info("starting population run",
		"run_id", o.runID,
		"clients", o.cfg.Clients,
		"min_docs", o.cfg.MinDocs,
		"max_docs", o.cfg.MaxDocs,
		"dry_run", o.cfg.DryRun)

	for idx := 1; idx <= o.cfg.Clients; idx++ {
		if ctx.Err() != nil {
			return o.fail(ErrInterrupted)
		}

		client := o.factory.Client(idx)
		docs := o.factory.DocCount(o.cfg.MinDocs, o.cfg.MaxDocs)
		o.logger.Debug("prepared client payload", "idx", idx, "email", client.Email, "documents", docs)

		if o.cfg.DryRun {
			o.counters.ClientsCreated++
			o.counters.DocumentsCreated += docs
			continue
		}

		if err := o.populateClient(ctx, idx, client, docs); err != nil {
			return o.fail(err)
		}

		if idx%o.progressEvery == 0 {
			o.reportProgress()
		}
	}

	o.transition(StateReporting)
	res := o.result()
	if o.cfg.DryRun {
		o.logger.Info(fmt.Sprintf("Dry run complete. Would create %d clients and %d documents.",
			res.Counters.ClientsCreated, res.Counters.DocumentsCreated))
	} else {
		o.logger.Info(fmt.Sprintf("Data load complete in %.1fs. Created %d clients and %d documents.",
			res.Elapsed.Seconds(), res.Counters.ClientsCreated, res.Counters.DocumentsCreated))
	}
	o.transition(StateDone)
	res.State = o.state
	return res, nil
}

func (o *Orchestrator) populateClient(ctx context.Context, idx int, client model.ClientRecord, docs int) error {
	o.transition(StateCreatingClient)
	clientID, err := o.api.CreateClient(ctx, client)
	if err != nil {
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		return fmt.Errorf("client %d: %w", idx, err)
	}
	o.counters.ClientsCreated++
	o.metrics.IncrementClientsCreated()
	o.logger.Info("created client", "idx", idx, "id", clientID)

	for docIdx := 1; docIdx <= docs; docIdx++ {
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		o.transition(StateCreatingDocument)

		gc := o.factory.Context(client, idx, docIdx)
		doc, source := o.generator.Generate(ctx, gc)
		o.metrics.RecordGenerated(string(source))

		if err := o.api.CreateDocument(ctx, clientID, doc); err != nil {
			if ctx.Err() != nil {
				return ErrInterrupted
			}
			return fmt.Errorf("client %d document %d: %w", idx, docIdx, err)
		}
		o.counters.DocumentsCreated++
		o.metrics.IncrementDocumentsCreated()
		o.logger.Debug("created document",
			"doc", fmt.Sprintf("%d/%d", docIdx, docs),
			"client_id", clientID,
			"title", doc.Title,
			"source", source)
	}
	return nil
}

func (o *Orchestrator) reportProgress() {
	elapsed := o.now().Sub(o.counters.StartedAt).Seconds()
	var rate float64
	if elapsed > 0 {
		rate = float64(o.counters.ClientsCreated) / elapsed
	}
	o.logger.Info(fmt.Sprintf("Progress: %d clients, %d documents (%.1f clients/sec)",
		o.counters.ClientsCreated, o.counters.DocumentsCreated, rate))
}

func (o *Orchestrator) fail(err error) (Result, error) {
	o.logger.Debug("run failed", "state", o.state, "error", err)
	o.transition(StateFailed)
	res := o.result()
	res.State = o.state
	return res, err
}

func (o *Orchestrator) result() Result {
	res := Result{
		RunID:    o.runID,
		DryRun:   o.cfg.DryRun,
		Counters: o.counters,
		State:    o.state,
	}
	if !o.cfg.DryRun && !o.counters.StartedAt.IsZero() {
		res.Elapsed = o.now().Sub(o.counters.StartedAt)
	}
	return res
}

func (o *Orchestrator) transition(s State) {
	o.state = s
}
