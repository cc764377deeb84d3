package content

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/wealth-populate/internal/drafter"
	"github.com/rcliao/wealth-populate/internal/model"
)

type fakeDrafter struct {
	calls   int
	results []func() (string, string, error)
}

func (f *fakeDrafter) DraftDocument(ctx context.Context, gc model.GenerationContext) (string, string, error) {
	r := f.results[f.calls%len(f.results)]
	f.calls++
	return r()
}

func ok(title, content string) func() (string, string, error) {
	return func() (string, string, error) { return title, content, nil }
}

func fail(err error) func() (string, string, error) {
	return func() (string, string, error) { return "", "", err }
}

func fixedNow() time.Time { return stamp }

func TestChain_NoDrafterUsesTemplate(t *testing.T) {
	c := NewChain(nil, WithClock(fixedNow))
	assert.False(t, c.RemoteEnabled())

	doc, src := c.Generate(context.Background(), sampleContext())
	assert.Equal(t, SourceTemplate, src)
	assert.Equal(t, Template(sampleContext(), stamp), doc)
}

func TestChain_UsesDraft(t *testing.T) {
	d := &fakeDrafter{results: []func() (string, string, error){ok("X", "Y")}}
	c := NewChain(d, WithClock(fixedNow))
	assert.True(t, c.RemoteEnabled())

	doc, src := c.Generate(context.Background(), sampleContext())
	assert.Equal(t, SourceLLM, src)
	assert.Equal(t, model.DocumentRecord{Title: "X", Content: "Y"}, doc)
}

func TestChain_FallsBackAndWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	d := &fakeDrafter{results: []func() (string, string, error){fail(drafter.ErrIncompleteDraft)}}
	c := NewChain(d, WithClock(fixedNow), WithLogger(logger))

	doc, src := c.Generate(context.Background(), sampleContext())
	assert.Equal(t, SourceTemplate, src)
	assert.Equal(t, Template(sampleContext(), stamp), doc)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "ref=12-3")
}

func TestChain_RetriesEveryDocument(t *testing.T) {
	d := &fakeDrafter{results: []func() (string, string, error){
		fail(errors.New("connection refused")),
		ok("Recovered", "Body"),
	}}
	c := NewChain(d, WithClock(fixedNow))

	_, first := c.Generate(context.Background(), sampleContext())
	doc, second := c.Generate(context.Background(), sampleContext())

	assert.Equal(t, SourceTemplate, first)
	assert.Equal(t, SourceLLM, second)
	assert.Equal(t, "Recovered", doc.Title)
	assert.Equal(t, 2, d.calls)
}

func TestChain_ClampsDraftTitle(t *testing.T) {
	long := "A very long generated title that keeps going well past the limit the remote API accepts"
	d := &fakeDrafter{results: []func() (string, string, error){ok(long, "Body")}}
	doc, _ := NewChain(d).Generate(context.Background(), sampleContext())
	assert.LessOrEqual(t, len([]rune(doc.Title)), MaxTitleLength)
}
