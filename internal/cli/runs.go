package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Long:  "List runs from the local journal, newest first. Use --id to show a single run.",
		Args:  cobra.NoArgs,
		Run:   runRuns,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max runs")
	cmd.Flags().String("id", "", "Show a single run")

	RootCmd.AddCommand(cmd)
}

func runRuns(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	id, _ := cmd.Flags().GetString("id")

	s, err := openJournal()
	if err != nil {
		exitErr("open journal", err)
	}
	defer s.Close()

	if id != "" {
		run, err := s.Get(cmd.Context(), id)
		if err != nil {
			exitErr("runs", err)
		}
		b, _ := json.MarshalIndent(run, "", "  ")
		fmt.Println(string(b))
		return
	}

	runs, err := s.List(cmd.Context(), limit)
	if err != nil {
		exitErr("runs", err)
	}
	if len(runs) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(runs, "", "  ")
	fmt.Println(string(b))
}
