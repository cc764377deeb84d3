package model

import "time"

// Run statuses recorded in the journal.
const (
	RunRunning     = "running"
	RunCompleted   = "completed"
	RunFailed      = "failed"
	RunInterrupted = "interrupted"
)

// Run is one population run as recorded in the local journal. It holds
// run-level metadata only, never the generated records.
type Run struct {
	ID               string     `json:"id"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	Status           string     `json:"status"`
	DryRun           bool       `json:"dry_run"`
	Seed             int64      `json:"seed"`
	Host             string     `json:"host,omitempty"`
	ClientsRequested int        `json:"clients_requested"`
	MinDocs          int        `json:"min_docs"`
	MaxDocs          int        `json:"max_docs"`
	ClientsCreated   int        `json:"clients_created"`
	DocumentsCreated int        `json:"documents_created"`
	Error            string     `json:"error,omitempty"`
}

// ValidRunStatuses are the allowed run statuses.
var ValidRunStatuses = map[string]bool{
	RunRunning:     true,
	RunCompleted:   true,
	RunFailed:      true,
	RunInterrupted: true,
}
