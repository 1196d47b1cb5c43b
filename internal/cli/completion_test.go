package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredRuleKeys(t *testing.T) {
	dir := setupDataDir(t, "SE")
	cmd, _ := newTestCmd()
	a, err := openApp(cmd, dir, cliNow)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	keys := storedRuleKeys(dir, "se/holiday.jul")

	assert.Contains(t, keys, "SE/holiday.julafton\tJulafton")
	assert.Contains(t, keys, "SE/holiday.juldagen\tJuldagen")
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k, "SE/holiday.jul"), k)
	}
}

func TestStoredRuleKeysDoesNotSeed(t *testing.T) {
	dir := setupDataDir(t, "SE")

	assert.Empty(t, storedRuleKeys(dir, ""))
	assert.NoDirExists(t, dir+"/rules")
}

func TestCompleteCatalogRules(t *testing.T) {
	keys, directive := completeCatalogRules(&cobra.Command{}, nil, "US/holiday.th")

	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.Equal(t, []string{"US/holiday.thanksgiving\tThanksgiving"}, keys)

	keys, _ = completeCatalogRules(&cobra.Command{}, []string{"already"}, "")
	assert.Empty(t, keys)
}

func TestRulesCommandsHaveCompletion(t *testing.T) {
	for _, cmd := range []*cobra.Command{rulesShowCmd, rulesEditCmd, rulesDeleteCmd, rulesEnableCmd, rulesDisableCmd, rulesResetCmd} {
		assert.NotNil(t, cmd.ValidArgsFunction, cmd.Name())
	}
}
