package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/api"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the assessment service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client := api.New(cfg.API.BaseURL, cfg.API.Timeout)
		h, err := client.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("health check %s: %w", client.BaseURL(), err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Service:   %s\n", client.BaseURL())
		fmt.Fprintf(out, "Status:    %s\n", h.Status)
		fmt.Fprintf(out, "Assistant: %s\n", h.RAGBot)
		if h.Version != "" {
			fmt.Fprintf(out, "Version:   %s\n", h.Version)
		}
		return nil
	},
}
