package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"

	"github.com/pagekeep/pagekeep/app/config"
	"github.com/pagekeep/pagekeep/app/database"
	"github.com/pagekeep/pagekeep/app/fetch"
	"github.com/pagekeep/pagekeep/app/index"
	"github.com/pagekeep/pagekeep/app/pipeline"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pagekeep",
	Short: "Remember web pages and search them later",
	Long: `pagekeep ingests URLs, extracts their readable content and keeps it in
a local full-text index. Raw fetches can be archived and replayed later
without re-downloading.`,
	SilenceUsage:     true,
	PersistentPreRun: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.DefaultPath(), "Location of the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func setupLogging(cmd *cobra.Command, args []string) {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	handler := slogctx.NewHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}), nil)
	slog.SetDefault(slog.New(handler))
}

// openPipeline constructs the process-wide handles. The caller owns the
// returned pipeline and must Close it.
func openPipeline() (*pipeline.Pipeline, error) {
	cfg, err := config.Read(flagConfig)
	if err != nil {
		return nil, err
	}

	db, err := database.SQLiteFromFile(cfg.Paths.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Setup(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up database: %w", err)
	}

	ix, err := index.Open(cfg.Paths.Index)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening index: %w", err)
	}

	p, err := pipeline.New(cfg, db, ix, fetch.NewHTTPFetcher())
	if err != nil {
		ix.Close()
		db.Close()
		return nil, err
	}
	return p, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
