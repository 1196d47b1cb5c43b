package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var rulesEnableCmd = LeafCommand{
	Use:   "enable <rule>",
	Short: "Show a disabled rule again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		return runRulesSetEnabled(cmd, dir, time.Now(), args[0], true)
	},
}.Build()

var rulesDisableCmd = LeafCommand{
	Use:   "disable <rule>",
	Short: "Hide a rule without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		return runRulesSetEnabled(cmd, dir, time.Now(), args[0], false)
	},
}.Build()

func runRulesSetEnabled(cmd *cobra.Command, dir string, now time.Time, arg string, enabled bool) error {
	a, err := openApp(cmd, dir, now)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	rec, err := findRule(a, arg)
	if err != nil {
		return err
	}

	changed, err := a.manager.SetEnabled(rec.Key(), enabled)
	if err != nil {
		return err
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	w := cmd.OutOrStdout()
	if !changed {
		_, _ = fmt.Fprintf(w, "%s %s\n", Primary(rec.Key().String()), Text("is already "+state))
		return nil
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", Text(state), Primary(rec.Key().String()))
	return nil
}
