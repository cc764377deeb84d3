package api

import (
	"errors"
	"fmt"
)

// ErrMissingID is returned when a successful client response has no id.
var ErrMissingID = errors.New("response lacks 'id'")

// Entity kinds.
const (
	KindClient   = "client"
	KindDocument = "document"
)

// EntityCreationError is a failed create call. Status is 0 when the request
// never got a response.
type EntityCreationError struct {
	Kind     string
	ClientID string
	Status   int
	Body     string
	Err      error
}

func (e *EntityCreationError) Error() string {
	subject := e.Kind + " creation failed"
	if e.ClientID != "" {
		subject = fmt.Sprintf("%s for client %s", subject, e.ClientID)
	}
	switch {
	case e.Status == 0:
		return fmt.Sprintf("%s: %v", subject, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s (status %d): %v: %s", subject, e.Status, e.Err, truncate(e.Body))
	default:
		return fmt.Sprintf("%s (status %d): %s", subject, e.Status, truncate(e.Body))
	}
}

func (e *EntityCreationError) Unwrap() error { return e.Err }

func truncate(body string) string {
	if len(body) <= maxErrorBody {
		return body
	}
	return body[:maxErrorBody] + "..."
}
