package populate

// Defaults match a full local seeding run.
const (
	DefaultClients       = 10000
	DefaultMinDocs       = 1
	DefaultMaxDocs       = 7
	DefaultProgressEvery = 100
)

// Config holds the run parameters the orchestrator acts on.
type Config struct {
	Clients int
	MinDocs int
	MaxDocs int
	DryRun  bool
}

// Validate checks the bounds before any work starts.
func (c Config) Validate() error {
	if c.Clients < 0 {
		return &ConfigError{Field: "clients", Reason: "must be non-negative"}
	}
	if c.MinDocs < 0 || c.MaxDocs < 0 {
		return &ConfigError{Field: "document counts", Reason: "must be non-negative"}
	}
	if c.MinDocs > c.MaxDocs {
		return &ConfigError{Field: "document counts", Reason: "min-docs cannot exceed max-docs"}
	}
	return nil
}
