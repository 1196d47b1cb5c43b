package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/catalog"
	"github.com/Flyrell/redday/internal/settings"
)

var initCmd = LeafCommand{
	Use:   "init",
	Short: "Choose regions and load the built-in holiday rules",
	Args:  cobra.NoArgs,
	Example: `  redday init --regions SE
  redday init --regions SE,NO --storage sqlite`,
	StrFlags: []StringFlag{
		{Name: "regions", Usage: "comma-separated region codes (at most 2)"},
		{Name: "storage", Usage: "storage backend: json or sqlite"},
	},
	BoolFlags: []BoolFlag{
		{Name: "yes", Usage: "skip confirmation prompt"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}

		regions, _ := cmd.Flags().GetString("regions")
		storage, _ := cmd.Flags().GetString("storage")
		yes, _ := cmd.Flags().GetBool("yes")

		var pick MultiSelectFunc
		if isTerminal(os.Stdin) {
			pick = NewMultiSelectFunc()
		}

		return runInit(cmd, dir, time.Now(), regions, storage,
			ResolveConfirmFunc(yes, cmd.InOrStdin(), cmd.OutOrStdout()), pick)
	},
}.Build()

func runInit(cmd *cobra.Command, dir string, now time.Time, regions, storage string, confirm ConfirmFunc, pick MultiSelectFunc) error {
	current, err := settings.ReadFile(dir)
	if err != nil {
		return err
	}

	cat := catalog.Default()
	if strings.TrimSpace(regions) == "" {
		if pick == nil {
			return fmt.Errorf("no regions given (available: %s)", strings.Join(cat.Regions(), ", "))
		}
		codes := cat.Regions()
		idx, err := pick("Which regions do you want to follow?", codes, settings.MaxRegions)
		if err != nil {
			return err
		}
		var picked []string
		for _, i := range idx {
			picked = append(picked, codes[i])
		}
		regions = strings.Join(picked, ",")
	}

	next := current
	if err := next.Set("regions", regions); err != nil {
		return err
	}
	if len(next.Regions) == 0 {
		return fmt.Errorf("select at least one region")
	}
	for _, code := range next.Regions {
		if !cat.HasRegion(code) {
			return fmt.Errorf("unknown region %q (available: %s)", code, strings.Join(cat.Regions(), ", "))
		}
	}
	if storage != "" {
		if err := next.Set("storage", storage); err != nil {
			return err
		}
	}

	if len(current.SelectedRegions()) > 0 {
		ok, err := confirm(fmt.Sprintf("Replace regions %s with %s?",
			strings.Join(current.SelectedRegions(), ", "), strings.Join(next.SelectedRegions(), ", ")))
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Text("init cancelled"))
			return nil
		}
	}

	if err := settings.WriteFile(dir, next); err != nil {
		return err
	}

	a, err := openApp(cmd, dir, now)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	snap := a.manager.Snapshot()
	years := snap.Years()

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s %s\n", Text("initialized redday in"), Primary(dir))
	_, _ = fmt.Fprintf(w, "%s %s\n", Text("regions:"), Primary(strings.Join(next.SelectedRegions(), ", ")))
	if len(years) > 0 {
		_, _ = fmt.Fprintf(w, "%s\n", Silent(fmt.Sprintf("%d holidays cached for %d-%d",
			snap.Len(), years[0], years[len(years)-1])))
	}
	return nil
}
