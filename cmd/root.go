package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/config"
	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/logging"
	"github.com/abhisek/skillcheck/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "skillcheck",
	Short: "Digital skills quiz with skill gap analysis",
	Long: "Skillcheck runs a short digital literacy quiz in the terminal, scores it by skill\n" +
		"and difficulty, and recommends what to learn next in English or Hindi.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file (default ./skillcheck.yaml or ~/.config/skillcheck/)")
	pf.String("db", "", "Path to SQLite database file (overrides SKILLCHECK_DB env var)")
	pf.String("api", "", "Base URL of the assessment service (overrides api.base_url)")
	pf.String("lang", "", "Interface language: en or hi (overrides the stored preference)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if u, _ := cmd.Flags().GetString("api"); u != "" {
		cfg.API.BaseURL = u
	}
	if l, _ := cmd.Flags().GetString("lang"); l != "" {
		if !i18n.IsSupported(l) {
			return nil, fmt.Errorf("unsupported language %q (use en or hi)", l)
		}
		cfg.Language = l
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the file logger. console adds a stderr copy and must
// stay off while the TUI owns the terminal.
func newLogger(cfg *config.Config, console bool) (*zap.Logger, error) {
	lc := cfg.Log
	lc.Console = lc.Console || console
	log, err := logging.New(lc)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db.path from config, then SKILLCHECK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command, cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
