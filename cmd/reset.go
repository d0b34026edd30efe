package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored user and language",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		all, _ := cmd.Flags().GetBool("all")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		prefs := st.PrefRepo()
		for _, key := range []string{store.PrefUserID, store.PrefLanguage} {
			if err := prefs.Set(ctx, key, ""); err != nil {
				return fmt.Errorf("clear %s: %w", key, err)
			}
		}
		if all {
			if _, err := st.DB().ExecContext(ctx, `DELETE FROM attempts`); err != nil {
				return fmt.Errorf("clear attempts: %w", err)
			}
		}

		msg := "Stored user and language cleared."
		if all {
			msg = "Stored user, language and attempt history cleared."
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Also delete the local attempt history")
}
