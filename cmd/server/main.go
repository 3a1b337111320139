package main // Entry point package

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinebook/internal/config"
)

var (
	cfg    config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "cinebook",
		Short: "Movie seat booking service",
		Long: `cinebook serves the cinema catalog, renders seat maps and books seats
with a no-double-booking guarantee backed by Redis, MySQL or memory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			logger = newLogger(cfg)
			slog.SetDefault(logger)
			return nil
		},
	}
)

func main() {
	rootCmd.AddCommand(serveCmd, consumeCmd, hashPasswordCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger emits JSON in production and human-readable text elsewhere.
func newLogger(c config.Config) *slog.Logger {
	level := slog.LevelInfo
	if !c.IsProduction() {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
