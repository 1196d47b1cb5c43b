package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Flyrell/redday/internal/catalog"
	"github.com/Flyrell/redday/internal/settings"
	"github.com/Flyrell/redday/internal/store"
)

func init() {
	for _, cmd := range []*cobra.Command{
		rulesShowCmd, rulesEditCmd, rulesDeleteCmd, rulesEnableCmd, rulesDisableCmd,
	} {
		cmd.ValidArgsFunction = completeStoredRules
	}
	rulesResetCmd.ValidArgsFunction = completeCatalogRules

	for _, cmd := range []*cobra.Command{showCmd, rulesListCmd, historyCmd, exportCmd} {
		_ = cmd.RegisterFlagCompletionFunc("region", completeRegions)
	}
	_ = historyCmd.RegisterFlagCompletionFunc("rule", completeStoredRules)
	_ = exportCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"ics", "csv"}, cobra.ShellCompDirectiveNoFileComp))
}

// completeStoredRules reads rule keys straight from storage; completion
// must not seed or write anything.
func completeStoredRules(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	dir, err := dataDir()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return storedRuleKeys(dir, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func storedRuleKeys(dir, prefix string) []string {
	s, err := settings.Load(dir)
	if err != nil {
		return nil
	}
	st, err := store.Open(s.Storage, dir)
	if err != nil {
		return nil
	}
	defer func() { _ = st.Close() }()

	recs, err := st.List()
	if err != nil {
		return nil
	}
	var keys []string
	for _, rec := range recs {
		if k := rec.Key().String(); strings.HasPrefix(strings.ToLower(k), strings.ToLower(prefix)) {
			keys = append(keys, k+"\t"+recordLabel(rec))
		}
	}
	return keys
}

func completeCatalogRules(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var keys []string
	for _, rec := range catalog.Default().Rules() {
		if k := rec.Key().String(); strings.HasPrefix(strings.ToLower(k), strings.ToLower(toComplete)) {
			keys = append(keys, k+"\t"+recordLabel(rec))
		}
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}

func completeRegions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return catalog.Default().Regions(), cobra.ShellCompDirectiveNoFileComp
}
