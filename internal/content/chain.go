// Package content resolves document titles and bodies: a remote draft when
// one is available, otherwise deterministic template text.
package content

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/rcliao/wealth-populate/internal/drafter"
	"github.com/rcliao/wealth-populate/internal/model"
)

// Source reports which stage produced a document.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceTemplate Source = "template"
)

// Chain tries the drafter first and falls back to Template. It never fails.
type Chain struct {
	drafter drafter.Drafter
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Chain.
type Option func(*Chain)

// WithLogger sets the chain's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Chain) { c.logger = l }
}

// WithClock overrides the clock used for template timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Chain) { c.now = now }
}

// NewChain builds a chain. A nil drafter disables the remote stage.
func NewChain(d drafter.Drafter, opts ...Option) *Chain {
	c := &Chain{
		drafter: d,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RemoteEnabled reports whether a drafter is configured.
func (c *Chain) RemoteEnabled() bool {
	return c.drafter != nil
}

// Generate resolves the document for gc. The template is always rendered
// first so it is ready whatever the drafter does. The drafter is consulted
// for every document; an earlier failure does not disable it.
func (c *Chain) Generate(ctx context.Context, gc model.GenerationContext) (model.DocumentRecord, Source) {
	fallback := Template(gc, c.now())
	if c.drafter == nil {
		return fallback, SourceTemplate
	}

	title, body, err := c.drafter.DraftDocument(ctx, gc)
	if err != nil {
		c.logger.Warn("text generation failed, using template", "ref", gc.ReferenceID, "error", err)
		return fallback, SourceTemplate
	}
	c.logger.Debug("drafted document", "ref", gc.ReferenceID, "client", gc.ClientName)
	return model.DocumentRecord{Title: clampTitle(title), Content: body}, SourceLLM
}
