package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/wealth-populate/internal/content"
	"github.com/rcliao/wealth-populate/internal/factory"
	"github.com/rcliao/wealth-populate/internal/model"
	"github.com/rcliao/wealth-populate/internal/populate"
)

func init() {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print generated records without calling any service",
		Long:  "Print the clients and template documents a seed produces, as JSON. No network calls are made.",
		Args:  cobra.NoArgs,
		Run:   runPreview,
	}

	cmd.Flags().Int("clients", 3, "Number of clients to generate")
	cmd.Flags().Int("min-docs", populate.DefaultMinDocs, "Minimum documents per client")
	cmd.Flags().Int("max-docs", 2, "Maximum documents per client")
	cmd.Flags().Int64("seed", 0, "Random seed (default: time based)")
	cmd.Flags().Bool("faker", false, "Use locale-aware generated names and countries")

	RootCmd.AddCommand(cmd)
}

type previewClient struct {
	Index     int                    `json:"index"`
	Client    model.ClientRecord     `json:"client"`
	Documents []model.DocumentRecord `json:"documents"`
}

func runPreview(cmd *cobra.Command, args []string) {
	clients, _ := cmd.Flags().GetInt("clients")
	minDocs, _ := cmd.Flags().GetInt("min-docs")
	maxDocs, _ := cmd.Flags().GetInt("max-docs")
	seed, _ := cmd.Flags().GetInt64("seed")
	useFaker, _ := cmd.Flags().GetBool("faker")
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}

	cfg := populate.Config{Clients: clients, MinDocs: minDocs, MaxDocs: maxDocs, DryRun: true}
	if err := writePreview(cmd.OutOrStdout(), cfg, seed, useFaker, time.Now); err != nil {
		exitErr("preview", err)
	}
}

// writePreview walks the same draw sequence as a live run with template text.
func writePreview(out io.Writer, cfg populate.Config, seed int64, useFaker bool, now func() time.Time) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := []factory.Option{factory.WithClock(now)}
	if useFaker {
		opts = append(opts, factory.WithNameSource(factory.NewFakerSource(seed)))
	}
	f := factory.New(seed, opts...)
	chain := content.NewChain(nil, content.WithClock(now))

	preview := make([]previewClient, 0, cfg.Clients)
	for idx := 1; idx <= cfg.Clients; idx++ {
		c := f.Client(idx)
		n := f.DocCount(cfg.MinDocs, cfg.MaxDocs)
		pc := previewClient{Index: idx, Client: c, Documents: []model.DocumentRecord{}}
		for docIdx := 1; docIdx <= n; docIdx++ {
			doc, _ := chain.Generate(context.Background(), f.Context(c, idx, docIdx))
			pc.Documents = append(pc.Documents, doc)
		}
		preview = append(preview, pc)
	}

	b, err := json.MarshalIndent(preview, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
