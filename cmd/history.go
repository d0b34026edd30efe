package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/analysis"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past quiz attempts on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
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

		attempts, err := st.AttemptRepo().Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No attempts yet. Run `skillcheck play` to take the quiz.")
			return nil
		}

		fmt.Fprintf(out, "%-19s  %-4s  %-7s  %-5s  %-12s  %s\n",
			"Timestamp", "Lang", "Score", "%", "Level", "Time")
		fmt.Fprintln(out, strings.Repeat("─", 64))
		for _, a := range attempts {
			fmt.Fprintf(out, "%-19s  %-4s  %-7s  %-5d  %-12s  %s\n",
				a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				a.Lang,
				fmt.Sprintf("%d/%d", a.Score, a.Total),
				a.Percentage,
				analysis.LevelName(a.Percentage),
				formatElapsed(a.Elapsed.Milliseconds()),
			)
		}
		return nil
	},
}

func formatElapsed(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Number of attempts to show (0 for all)")
}
