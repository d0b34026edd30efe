package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/server"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "skillcheck", version)
		fmt.Fprintf(cmd.OutOrStdout(), "api %s (serves %s)\n", api.APIMajor, server.APIVersion)
	},
}
