package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/catalog"
	"github.com/Flyrell/redday/internal/settings"
)

var configSetCmd = LeafCommand{
	Use:   "set <key> <value>",
	Short: "Change a setting in config.json",
	Args:  cobra.ExactArgs(2),
	Example: `  redday config set regions SE,NO
  redday config set show_holidays false
  redday config set locale sv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		return runConfigSet(cmd, dir, args[0], args[1])
	},
}.Build()

func runConfigSet(cmd *cobra.Command, dir, key, value string) error {
	// Environment overrides are not written back.
	s, err := settings.ReadFile(dir)
	if err != nil {
		return err
	}
	if err := s.Set(key, value); err != nil {
		return err
	}

	if key == "regions" {
		cat := catalog.Default()
		for _, code := range s.Regions {
			if !cat.HasRegion(code) {
				return fmt.Errorf("unknown region %q (available: %s)", code, strings.Join(cat.Regions(), ", "))
			}
		}
	}

	if err := settings.WriteFile(dir, s); err != nil {
		return err
	}

	v, _ := s.Get(key)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", Primary(key), Text("="), Text(v))
	return nil
}
