package populate

import (
	"errors"
	"fmt"
)

// ErrInterrupted is returned when the run's context is cancelled.
var ErrInterrupted = errors.New("run interrupted")

// ConfigError is an invalid run configuration, reported before any network call.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
