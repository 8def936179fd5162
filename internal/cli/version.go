package cmd

import (
	"fmt"

	"github.com/seoaudit/engine/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the seoaudit build version.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), build.FullVersion())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
