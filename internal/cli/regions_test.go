package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegions(t *testing.T) {
	dir := setupDataDir(t, "SE")
	cmd, stdout := newTestCmd()

	require.NoError(t, runRegions(cmd, dir))

	out := stdout.String()
	for _, code := range []string{"CN", "DE", "GB", "NO", "SE", "US"} {
		assert.Contains(t, out, code)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "SE") {
			assert.Contains(t, line, "20 rules")
			assert.Contains(t, line, "selected")
		}
		if strings.HasPrefix(line, "NO") {
			assert.NotContains(t, line, "selected")
		}
	}
	assert.Contains(t, out, "catalog v")
}
