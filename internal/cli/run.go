package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/rcliao/wealth-populate/internal/api"
	"github.com/rcliao/wealth-populate/internal/config"
	"github.com/rcliao/wealth-populate/internal/content"
	"github.com/rcliao/wealth-populate/internal/drafter"
	"github.com/rcliao/wealth-populate/internal/factory"
	"github.com/rcliao/wealth-populate/internal/journal"
	"github.com/rcliao/wealth-populate/internal/metrics"
	"github.com/rcliao/wealth-populate/internal/populate"
)

const pushJob = "wealth_populate"

func init() {
	RootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create synthetic clients and documents",
		Long:  "Create synthetic clients and documents against the API. Use --dry-run to only report the intended load.",
		Args:  cobra.NoArgs,
		Run:   runRun,
	}

	llm := drafter.ConfigFromEnv()
	cmd.Flags().String("host", "http://localhost:8080", "Base URL of the API")
	cmd.Flags().String("token", config.EnvOr("WS_API_TOKEN", "demo-token"), "Bearer token (default: $WS_API_TOKEN or demo-token)")
	cmd.Flags().Int("clients", populate.DefaultClients, "Number of clients to create")
	cmd.Flags().Int("min-docs", populate.DefaultMinDocs, "Minimum documents per client")
	cmd.Flags().Int("max-docs", populate.DefaultMaxDocs, "Maximum documents per client")
	cmd.Flags().Int64("seed", 0, "Random seed for reproducible data (default: time based)")
	cmd.Flags().Bool("dry-run", false, "Do not call the API, only report the intended load")
	cmd.Flags().Bool("faker", false, "Use locale-aware generated names and countries")
	cmd.Flags().Bool("no-llm", false, "Disable LLM drafting and use template documents only")
	cmd.Flags().String("llm-provider", llm.Provider, "LLM provider: ollama or openai")
	cmd.Flags().String("llm-url", llm.BaseURL, "LLM base URL (default: $OLLAMA_BASE_URL)")
	cmd.Flags().String("llm-model", llm.Model, "LLM model (default: $OLLAMA_MODEL)")
	cmd.Flags().String("llm-api-key", llm.APIKey, "API key for the openai provider (default: $OPENAI_API_KEY)")
	cmd.Flags().Duration("llm-timeout", llm.Timeout, "Timeout for one LLM call")
	cmd.Flags().String("pushgateway", "", "Prometheus Pushgateway URL to push run metrics to")
	cmd.Flags().StringP("config", "c", "", "Run profile (YAML or JSON)")

	return cmd
}

// runOptions is the resolved configuration of one run.
type runOptions struct {
	Host        string
	Token       string
	Run         populate.Config
	Seed        int64
	SeedSet     bool
	Faker       bool
	LLM         drafter.Config
	Pushgateway string
}

func readRunOptions(cmd *cobra.Command) (runOptions, error) {
	f := cmd.Flags()
	var o runOptions
	o.Host, _ = f.GetString("host")
	o.Token, _ = f.GetString("token")
	o.Run.Clients, _ = f.GetInt("clients")
	o.Run.MinDocs, _ = f.GetInt("min-docs")
	o.Run.MaxDocs, _ = f.GetInt("max-docs")
	o.Run.DryRun, _ = f.GetBool("dry-run")
	o.Seed, _ = f.GetInt64("seed")
	o.SeedSet = f.Changed("seed")
	o.Faker, _ = f.GetBool("faker")
	o.Pushgateway, _ = f.GetString("pushgateway")

	noLLM, _ := f.GetBool("no-llm")
	o.LLM.Enabled = !noLLM
	o.LLM.Provider, _ = f.GetString("llm-provider")
	o.LLM.BaseURL, _ = f.GetString("llm-url")
	o.LLM.Model, _ = f.GetString("llm-model")
	o.LLM.APIKey, _ = f.GetString("llm-api-key")
	o.LLM.Timeout, _ = f.GetDuration("llm-timeout")

	if path, _ := f.GetString("config"); path != "" {
		p, err := config.LoadFile(path)
		if err != nil {
			return o, err
		}
		if err := applyProfile(cmd, &o, p); err != nil {
			return o, err
		}
	}

	o.Host = strings.TrimRight(o.Host, "/")
	if !o.SeedSet {
		o.Seed = time.Now().UnixNano()
	}
	return o, nil
}

// applyProfile fills every option whose flag was not set explicitly.
func applyProfile(cmd *cobra.Command, o *runOptions, p *config.Profile) error {
	unset := func(name string) bool { return !cmd.Flags().Changed(name) }

	if p.Host != "" && unset("host") {
		o.Host = p.Host
	}
	if p.Token != "" && unset("token") {
		o.Token = p.Token
	}
	if p.Clients != nil && unset("clients") {
		o.Run.Clients = *p.Clients
	}
	if p.MinDocs != nil && unset("min-docs") {
		o.Run.MinDocs = *p.MinDocs
	}
	if p.MaxDocs != nil && unset("max-docs") {
		o.Run.MaxDocs = *p.MaxDocs
	}
	if p.Seed != nil && unset("seed") {
		o.Seed = *p.Seed
		o.SeedSet = true
	}
	if p.DryRun != nil && unset("dry-run") {
		o.Run.DryRun = *p.DryRun
	}
	if p.Faker != nil && unset("faker") {
		o.Faker = *p.Faker
	}
	if p.Pushgateway != "" && unset("pushgateway") {
		o.Pushgateway = p.Pushgateway
	}
	if p.LLM.Enabled != nil && unset("no-llm") {
		o.LLM.Enabled = *p.LLM.Enabled
	}
	if p.LLM.Provider != "" && unset("llm-provider") {
		o.LLM.Provider = p.LLM.Provider
	}
	if p.LLM.BaseURL != "" && unset("llm-url") {
		o.LLM.BaseURL = p.LLM.BaseURL
	}
	if p.LLM.Model != "" && unset("llm-model") {
		o.LLM.Model = p.LLM.Model
	}
	if p.LLM.APIKey != "" && unset("llm-api-key") {
		o.LLM.APIKey = p.LLM.APIKey
	}
	if p.LLM.Timeout != "" && unset("llm-timeout") {
		d, err := time.ParseDuration(p.LLM.Timeout)
		if err != nil {
			return fmt.Errorf("invalid llm timeout: %w", err)
		}
		o.LLM.Timeout = d
	}
	return nil
}

// runSummary is printed on stdout when a run ends.
type runSummary struct {
	RunID            string  `json:"run_id"`
	Status           string  `json:"status"`
	DryRun           bool    `json:"dry_run"`
	Seed             int64   `json:"seed"`
	ClientsCreated   int     `json:"clients_created"`
	DocumentsCreated int     `json:"documents_created"`
	ElapsedSeconds   float64 `json:"elapsed_seconds"`
	Error            string  `json:"error,omitempty"`
}

func runRun(cmd *cobra.Command, args []string) {
	opts, err := readRunOptions(cmd)
	if err != nil {
		exitErr("config", err)
	}

	logger, closeLog := setupLogger()

	var j journal.Store
	if !noJournal {
		s, err := openJournal()
		if err != nil {
			logger.Warn("run journal unavailable", "path", getJournalPath(), "error", err)
		} else {
			j = s
		}
	}

	err = executeRun(cmd.Context(), opts, logger, j, os.Stdout)
	if j != nil {
		j.Close()
	}
	closeLog()

	if errors.Is(err, populate.ErrInterrupted) {
		fmt.Fprintln(os.Stderr, "interrupted by user")
		os.Exit(130)
	}
	if err != nil {
		exitErr("run", err)
	}
}

// executeRun performs one run and writes its summary to out. j may be nil.
func executeRun(ctx context.Context, opts runOptions, logger *slog.Logger, j journal.Store, out io.Writer) error {
	// Bounds are checked before anything is recorded or contacted.
	if err := opts.Run.Validate(); err != nil {
		return err
	}

	var factoryOpts []factory.Option
	if opts.Faker {
		factoryOpts = append(factoryOpts, factory.WithNameSource(factory.NewFakerSource(opts.Seed)))
	}
	f := factory.New(opts.Seed, factoryOpts...)

	var d drafter.Drafter
	if !opts.Run.DryRun {
		d = drafter.New(opts.LLM)
	}
	chain := content.NewChain(d, content.WithLogger(logger))

	m := metrics.New()
	var entityAPI populate.EntityAPI
	if !opts.Run.DryRun {
		entityAPI = api.New(opts.Host, opts.Token, api.WithObserver(m.ObserveRequest))
	}

	runID := ulid.Make().String()
	runLogger := logger.With("run_id", runID)
	orch := populate.New(opts.Run, f, chain, entityAPI,
		populate.WithLogger(runLogger),
		populate.WithMetrics(m),
		populate.WithRunID(runID))

	runLogger.Info("run configured",
		"host", opts.Host,
		"seed", opts.Seed,
		"faker", opts.Faker,
		"llm", chain.RemoteEnabled(),
		"llm_provider", opts.LLM.Provider,
		"llm_model", opts.LLM.Model)

	if j != nil {
		if _, err := j.Start(ctx, journal.StartParams{
			ID:               runID,
			DryRun:           opts.Run.DryRun,
			Seed:             opts.Seed,
			Host:             opts.Host,
			ClientsRequested: opts.Run.Clients,
			MinDocs:          opts.Run.MinDocs,
			MaxDocs:          opts.Run.MaxDocs,
		}); err != nil {
			runLogger.Warn("could not record run start", "error", err)
			j = nil
		}
	}

	res, runErr := orch.Run(ctx)
	status := populate.StatusOf(runErr)
	afterCtx := context.WithoutCancel(ctx)

	if j != nil {
		if err := j.Finish(afterCtx, journal.FinishParams{
			ID:               res.RunID,
			Status:           status,
			ClientsCreated:   res.Counters.ClientsCreated,
			DocumentsCreated: res.Counters.DocumentsCreated,
			Err:              runErr,
		}); err != nil {
			runLogger.Warn("could not record run outcome", "error", err)
		}
	}

	if opts.Pushgateway != "" && !opts.Run.DryRun {
		pushCtx, cancel := context.WithTimeout(afterCtx, 10*time.Second)
		if err := m.Push(pushCtx, opts.Pushgateway, pushJob, res.RunID); err != nil {
			runLogger.Warn("pushing metrics failed", "url", opts.Pushgateway, "error", err)
		}
		cancel()
	}

	summary := runSummary{
		RunID:            res.RunID,
		Status:           status,
		DryRun:           res.DryRun,
		Seed:             opts.Seed,
		ClientsCreated:   res.Counters.ClientsCreated,
		DocumentsCreated: res.Counters.DocumentsCreated,
		ElapsedSeconds:   res.Elapsed.Seconds(),
	}
	if runErr != nil {
		summary.Error = runErr.Error()
	}
	b, _ := json.Marshal(summary)
	fmt.Fprintln(out, string(b))

	return runErr
}
