package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootHasSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"init", "show", "day", "rules", "config", "history", "export", "regions", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootUseName(t *testing.T) {
	assert.Equal(t, "redday", rootCmd.Use)
}

func TestRulesSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range rulesCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"list", "show", "add", "edit", "delete", "enable", "disable", "reset"}, names)
}
