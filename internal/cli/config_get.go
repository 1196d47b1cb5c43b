package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/settings"
)

var configGetCmd = LeafCommand{
	Use:   "get [key]",
	Short: "Print effective settings, including environment overrides",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		key := ""
		if len(args) > 0 {
			key = args[0]
		}
		return runConfigGet(cmd, dir, key)
	},
}.Build()

func runConfigGet(cmd *cobra.Command, dir, key string) error {
	s, err := settings.Load(dir)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if key != "" {
		v, err := s.Get(key)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, Text(v))
		return nil
	}

	for _, k := range settings.Keys {
		v, _ := s.Get(k)
		_, _ = fmt.Fprintf(w, "%s %s\n", Primary(fmt.Sprintf("%-18s", k)), Text(v))
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", Silent(fmt.Sprintf("%-18s", "file")), Silent(settings.Path(dir)))
	return nil
}
