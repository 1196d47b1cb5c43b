package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var rulesDeleteCmd = LeafCommand{
	Use:     "delete <rule>",
	Aliases: []string{"rm"},
	Short:   "Delete a rule",
	Args:    cobra.ExactArgs(1),
	StrFlags: []StringFlag{
		{Name: "note", Usage: "note stored in the change log"},
	},
	BoolFlags: []BoolFlag{
		{Name: "yes", Usage: "skip confirmation prompt"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		note, _ := cmd.Flags().GetString("note")
		yes, _ := cmd.Flags().GetBool("yes")
		return runRulesDelete(cmd, dir, time.Now(), args[0], note,
			ResolveConfirmFunc(yes, cmd.InOrStdin(), cmd.OutOrStdout()))
	},
}.Build()

func runRulesDelete(cmd *cobra.Command, dir string, now time.Time, arg, note string, confirm ConfirmFunc) error {
	a, err := openApp(cmd, dir, now)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	rec, err := findRule(a, arg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	prompt := fmt.Sprintf("Delete %s (%s)?", rec.Key(), recordLabel(rec))
	if _, builtin := a.catalog.Lookup(rec.Key()); builtin {
		_, _ = fmt.Fprintln(w, Warning("built-in rules return when the catalog is updated; use 'redday rules disable' to hide it for good"))
	}
	ok, err := confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(w, Text("delete cancelled"))
		return nil
	}

	if err := a.manager.DeleteRule(rec.Key(), note); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", Text("deleted"), Primary(rec.Key().String()))
	return nil
}
