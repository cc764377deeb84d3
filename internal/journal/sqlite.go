package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/wealth-populate/internal/model"
)

// ErrNotFound is returned by Get and Finish for an unknown run id.
var ErrNotFound = errors.New("run not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a journal at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id                TEXT PRIMARY KEY,
		started_at        TEXT NOT NULL,
		finished_at       TEXT,
		status            TEXT NOT NULL DEFAULT 'running',
		dry_run           INTEGER NOT NULL DEFAULT 0,
		seed              INTEGER NOT NULL,
		host              TEXT,
		clients_requested INTEGER NOT NULL,
		min_docs          INTEGER NOT NULL,
		max_docs          INTEGER NOT NULL,
		clients_created   INTEGER NOT NULL DEFAULT 0,
		documents_created INTEGER NOT NULL DEFAULT 0,
		error             TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	`)
	return err
}

func (s *SQLiteStore) Start(ctx context.Context, p StartParams) (*model.Run, error) {
	id := p.ID
	if id == "" {
		id = s.newID()
	}
	started := p.StartedAt.UTC()
	if p.StartedAt.IsZero() {
		started = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, status, dry_run, seed, host, clients_requested, min_docs, max_docs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, started.Format(time.RFC3339Nano), model.RunRunning, p.DryRun, p.Seed, p.Host,
		p.ClientsRequested, p.MinDocs, p.MaxDocs)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return &model.Run{
		ID:               id,
		StartedAt:        started,
		Status:           model.RunRunning,
		DryRun:           p.DryRun,
		Seed:             p.Seed,
		Host:             p.Host,
		ClientsRequested: p.ClientsRequested,
		MinDocs:          p.MinDocs,
		MaxDocs:          p.MaxDocs,
	}, nil
}

func (s *SQLiteStore) Finish(ctx context.Context, p FinishParams) error {
	if !model.ValidRunStatuses[p.Status] || p.Status == model.RunRunning {
		return fmt.Errorf("invalid final status %q", p.Status)
	}
	var errText *string
	if p.Err != nil {
		msg := p.Err.Error()
		errText = &msg
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, clients_created = ?, documents_created = ?, error = ?
		 WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), p.Status, p.ClientsCreated, p.DocumentsCreated, errText, p.ID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectRuns = `SELECT id, started_at, finished_at, status, dry_run, seed, host,
	clients_requested, min_docs, max_docs, clients_created, documents_created, error FROM runs`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (model.Run, error) {
	var r model.Run
	var startedAt string
	var finishedAt, host, errText sql.NullString

	err := row.Scan(
		&r.ID, &startedAt, &finishedAt, &r.Status, &r.DryRun, &r.Seed, &host,
		&r.ClientsRequested, &r.MinDocs, &r.MaxDocs, &r.ClientsCreated, &r.DocumentsCreated, &errText,
	)
	if err != nil {
		return r, err
	}

	r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	if finishedAt.Valid {
		t, _ := time.Parse(time.RFC3339Nano, finishedAt.String)
		r.FinishedAt = &t
	}
	if host.Valid {
		r.Host = host.String
	}
	if errText.Valid {
		r.Error = errText.String
	}
	return r, nil
}
