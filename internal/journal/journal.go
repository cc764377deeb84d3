// Package journal records population runs in a local SQLite file. Only
// run-level metadata is kept; generated records are never stored.
package journal

import (
	"context"
	"time"

	"github.com/rcliao/wealth-populate/internal/model"
)

// StartParams describes a run about to begin.
type StartParams struct {
	ID               string // generated when empty
	StartedAt        time.Time
	DryRun           bool
	Seed             int64
	Host             string
	ClientsRequested int
	MinDocs          int
	MaxDocs          int
}

// FinishParams records how a run ended.
type FinishParams struct {
	ID               string
	Status           string
	ClientsCreated   int
	DocumentsCreated int
	Err              error
}

// Store defines the run journal interface.
type Store interface {
	// Start records a running run and returns it.
	Start(ctx context.Context, p StartParams) (*model.Run, error)

	// Finish stamps the outcome of a run.
	Finish(ctx context.Context, p FinishParams) error

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]model.Run, error)

	// Get returns one run by id.
	Get(ctx context.Context, id string) (*model.Run, error)

	// Close closes the journal.
	Close() error
}
