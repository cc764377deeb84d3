// Package cli implements the wealth-populate CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rcliao/wealth-populate/internal/journal"
	"github.com/rcliao/wealth-populate/internal/logging"
)

var (
	logFile     string
	logLevel    string
	journalPath string
	noJournal   bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "wealth-populate",
	Short: "Seed the Wealth Search API with synthetic clients and documents",
	Long: "Creates synthetic clients and their documents against a running Wealth Search API " +
		"for load and integration testing. Document text comes from an optional LLM with a template fallback.",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&logFile, "log-file", logging.DefaultFile, "Run log file with debug detail (empty disables)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Console log level: debug, info, warn, error")
	RootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "Run journal path (default: $WEALTH_POPULATE_JOURNAL or ~/.wealth-populate/runs.db)")
	RootCmd.PersistentFlags().BoolVar(&noJournal, "no-journal", false, "Do not record runs in the journal")
}

func getJournalPath() string {
	if journalPath != "" {
		return journalPath
	}
	if env := os.Getenv("WEALTH_POPULATE_JOURNAL"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wealth-populate", "runs.db")
}

func openJournal() (*journal.SQLiteStore, error) {
	return journal.NewSQLiteStore(getJournalPath())
}

func setupLogger() (*slog.Logger, func() error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		exitErr("log level", err)
	}
	logger, closeFn, err := logging.Setup(logging.Options{Level: level, FilePath: logFile})
	if err != nil {
		exitErr("logging", err)
	}
	return logger, closeFn
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
