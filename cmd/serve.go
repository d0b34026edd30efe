package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/assistant"
	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessment service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		log, err := newLogger(cfg, true)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		bank, err := server.DefaultBank()
		if cfg.Server.QuestionsFile != "" {
			bank, err = server.LoadBank(cfg.Server.QuestionsFile)
		}
		if err != nil {
			return fmt.Errorf("load question bank: %w", err)
		}

		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		// The assistant works without a model; it falls back to canned replies.
		a := cfg.Assistant
		llmCfg := llm.ConfigFromSettings(llm.Settings{
			Provider:    a.Provider,
			Model:       a.Model,
			APIKey:      a.APIKey,
			BaseURL:     a.BaseURL,
			Timeout:     a.Timeout,
			MaxAttempts: a.MaxAttempts,
		})
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log.Named("llm"))
		switch {
		case errors.Is(err, llm.ErrDisabled):
			log.Info("chat assistant running without a language model")
		case err != nil:
			log.Warn("LLM provider not configured, chat falls back to canned replies", zap.Error(err))
			provider = nil
		default:
			log.Info("chat assistant model ready",
				zap.String("provider", llmCfg.Provider),
				zap.String("model", provider.ModelID()))
		}

		srv, err := server.New(server.Options{
			Bank:           bank,
			Profiles:       st.ProfileRepo(),
			Results:        st.ResultRepo(),
			Chats:          st.ChatRepo(),
			Assistant:      assistant.New(provider, assistant.WithLogger(log.Named("assistant"))),
			Logger:         log.Named("http"),
			Mode:           cfg.Server.Mode,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			ChatPerMinute:  cfg.Server.ChatPerMinute,
			ChatTimeout:    cfg.Assistant.Timeout,
		})
		if err != nil {
			return err
		}
		log.Info("question bank loaded", zap.Int("questions", bank.Len()))

		return srv.Run(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
