package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leettrack/internal/config"
	"leettrack/internal/llm"
	"leettrack/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "leettrack",
	Short: "Interview prep tracker with an AI mentor",
	Long:  "leettrack tracks company-wise LeetCode progress, chats with an AI mentor, and supports studying together in shared rooms.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEETTRACK_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to TOML config file (default: $XDG_CONFIG_HOME/leettrack/config.toml)")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(companiesCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(roomCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the full application config, honoring the --config
// and --db flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	return cfg, nil
}

// openStore opens the SQLite store at the configured path.
func openStore(cfg config.Config) (*store.Store, error) {
	if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// buildProvider constructs the configured LLM provider. Returns nil when
// no credential is set up: AI features degrade, everything else works.
func buildProvider(ctx context.Context, cfg config.Config, events llm.EventSink) llm.Provider {
	provider, err := llm.NewProvider(ctx, cfg.LLM, events)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", llm.UserMessage(err))
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		return nil
	}
	return provider
}
