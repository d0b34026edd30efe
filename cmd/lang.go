package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/store"
)

var langCmd = &cobra.Command{
	Use:   "lang [en|hi]",
	Short: "Show or set the stored interface language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
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
		prefs := st.PrefRepo()

		if len(args) == 0 {
			code, err := prefs.Get(ctx, store.PrefLanguage, cfg.Language)
			if err != nil {
				return fmt.Errorf("read language: %w", err)
			}
			l := i18n.Normalize(code)
			fmt.Fprintf(out, "%s (%s)\n", l, l.Label())
			return nil
		}

		code := strings.ToLower(strings.TrimSpace(args[0]))
		if !i18n.IsSupported(code) {
			return fmt.Errorf("unsupported language %q (use en or hi)", args[0])
		}
		if err := prefs.Set(ctx, store.PrefLanguage, code); err != nil {
			return fmt.Errorf("save language: %w", err)
		}
		l := i18n.Lang(code)
		fmt.Fprintf(out, "Language set to %s (%s)\n", l, l.Label())
		return nil
	},
}
