package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/app"
	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take the skills quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds the API client, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, api.WithLogger(log.Named("api")))
	log.Info("starting quiz client", zap.String("api", client.BaseURL()))

	opts := app.Options{
		API:      client,
		Prefs:    st.PrefRepo(),
		Attempts: st.AttemptRepo(),
		Logger:   log.Named("tui"),
		Timeout:  cfg.API.Timeout,
	}
	// Only an explicit --lang beats the stored preference; the config
	// language is the fallback for a fresh install.
	if l, _ := cmd.Flags().GetString("lang"); l != "" {
		opts.Lang = i18n.Lang(l)
	} else if v, err := st.PrefRepo().Get(cmd.Context(), store.PrefLanguage, ""); err == nil && v == "" {
		opts.Lang = i18n.Lang(cfg.Language)
	}

	return app.Run(opts)
}
