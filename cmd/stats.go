package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/analysis"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize quiz attempts on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		attempts, err := st.AttemptRepo().Recent(cmd.Context(), 0)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No attempts yet.")
			return nil
		}

		best, sum := attempts[0], 0
		for _, a := range attempts {
			sum += a.Percentage
			if a.Percentage > best.Percentage {
				best = a
			}
		}
		latest := attempts[0]
		avg := (sum + len(attempts)/2) / len(attempts)

		fmt.Fprintf(out, "Attempts:  %d\n", len(attempts))
		fmt.Fprintf(out, "Latest:    %d%% (%s) on %s\n",
			latest.Percentage, analysis.LevelName(latest.Percentage),
			latest.CreatedAt.Local().Format("2006-01-02"))
		fmt.Fprintf(out, "Best:      %d%% (%s)\n", best.Percentage, analysis.LevelName(best.Percentage))
		fmt.Fprintf(out, "Average:   %d%%\n", avg)
		if len(attempts) > 1 {
			fmt.Fprintf(out, "Change:    %+d points since the first attempt\n",
				latest.Percentage-attempts[len(attempts)-1].Percentage)
		}
		return nil
	},
}
