package cli

import "github.com/spf13/cobra"

var configCmd = GroupCommand{
	Use:   "config",
	Short: "Read and change settings",
	Subcommands: []*cobra.Command{
		configGetCmd,
		configSetCmd,
	},
}.Build()
