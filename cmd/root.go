package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/config"
	"github.com/ayurai/ayurai/internal/logging"
	"github.com/ayurai/ayurai/internal/store"
)

var (
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "ayurai",
	Short: "Ayurvedic dosha wellness tracker",
	Long: "AyurAI: a terminal companion that scores your Prakriti and Vikriti, tracks vitals and\n" +
		"daily rituals, and explains your balance with AI-written guidance.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c

		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := logging.New(logging.Options{
			Level:   cfg.Log.Level,
			Verbose: verbose,
			File:    cfg.Log.File,
		})
		if err != nil {
			return err
		}
		logger = l
		logger.Debug("config loaded", zap.String("file", cfg.File), zap.String("user", cfg.UserID))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides AYURAI_DB env var)")
	rootCmd.PersistentFlags().String("user", "", "Profile to act on (overrides AYURAI_USER env var)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/ayurai/config.yaml)")
	rootCmd.PersistentFlags().String("bank", "", "Question bank YAML file replacing the built-in questions")
	rootCmd.PersistentFlags().String("mode", "", "Guidance mode (Modern, Traditional or Integrated)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(deltaCmd)
	rootCmd.AddCommand(vitalsCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then AYURAI_DB / the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// resolveUser returns the --user flag, falling back to the configured user.
func resolveUser(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	if cfg != nil && cfg.UserID != "" {
		return cfg.UserID
	}
	return config.DefaultUser
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("store opened", zap.String("path", dbPath))
	return s, nil
}
