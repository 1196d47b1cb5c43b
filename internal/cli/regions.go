package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/catalog"
	"github.com/Flyrell/redday/internal/settings"
)

var regionsCmd = LeafCommand{
	Use:   "regions",
	Short: "List the regions with built-in holidays",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		return runRegions(cmd, dir)
	},
}.Build()

func runRegions(cmd *cobra.Command, dir string) error {
	s, err := settings.Load(dir)
	if err != nil {
		return err
	}
	selected := make(map[string]bool)
	for _, code := range s.SelectedRegions() {
		selected[code] = true
	}

	cat := catalog.Default()
	w := cmd.OutOrStdout()
	for _, code := range cat.Regions() {
		bank := 0
		rules := cat.ForRegion(code)
		for _, rec := range rules {
			if rec.BankHoliday {
				bank++
			}
		}
		line := fmt.Sprintf("%s  %s", Primary(code), Text(fmt.Sprintf("%2d rules, %2d bank holidays", len(rules), bank)))
		if selected[code] {
			line += "  " + Info("selected")
		}
		_, _ = fmt.Fprintln(w, line)
	}
	_, _ = fmt.Fprintln(w, Silent(fmt.Sprintf("catalog v%d (%s)", cat.Version, cat.Fingerprint)))
	return nil
}
