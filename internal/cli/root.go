package cli

import (
	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/catalog"
)

var rootCmd = &cobra.Command{
	Use:           "redday",
	Short:         "Holiday calendar for the terminal",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

func catalogVersion() int {
	return catalog.Default().Version
}
