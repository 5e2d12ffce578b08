package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vios-project/vios/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the vios version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vios %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
