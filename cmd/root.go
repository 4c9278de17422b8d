package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/attestiz/internal/config"
	"github.com/abhisek/attestiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "attestiz",
	Short: "Two-block knowledge assessments over chat and terminal",
	Long: "attestiz runs knowledge assessments: a common question block followed by a\n" +
		"role-specific block, with per-answer feedback and a final report.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite results database (overrides ATTESTIZ_DB env var)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the file named by --config and applies --db.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Results.DBPath = p
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then ATTESTIZ_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Results.DBPath != "" {
		return cfg.Results.DBPath, store.EnsureDir(cfg.Results.DBPath)
	}
	return store.DefaultDBPath()
}

// newLogger builds the logger from cfg. Logs go to --log-file when set,
// otherwise to fallback. The returned close func releases the file.
func newLogger(cmd *cobra.Command, cfg config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	path, _ := cmd.Flags().GetString("log-file")
	if path == "" {
		return cfg.NewLogger(fallback), func() {}, nil
	}
	if err := store.EnsureDir(path); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return cfg.NewLogger(f), func() { _ = f.Close() }, nil
}
