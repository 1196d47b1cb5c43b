package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flyrell/redday/internal/settings"
)

func execInit(t *testing.T, dir, regions, storage string, confirm ConfirmFunc, pick MultiSelectFunc) (string, error) {
	t.Helper()
	cmd, stdout := newTestCmd()
	err := runInit(cmd, dir, cliNow, regions, storage, confirm, pick)
	return stdout.String(), err
}

func TestInitWritesConfigAndSeeds(t *testing.T) {
	dir := t.TempDir()

	stdout, err := execInit(t, dir, "se,no", "", AlwaysYes(), nil)

	require.NoError(t, err)
	assert.Contains(t, stdout, "initialized redday in "+dir)
	assert.Contains(t, stdout, "regions: SE, NO")
	assert.Contains(t, stdout, "holidays cached for 2023-2027")

	s, err := settings.ReadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"SE", "NO"}, s.Regions)
}

func TestInitSQLite(t *testing.T) {
	dir := t.TempDir()

	_, err := execInit(t, dir, "SE", "sqlite", AlwaysYes(), nil)

	require.NoError(t, err)
	assert.FileExists(t, dir+"/redday.db")
	s, err := settings.ReadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, settings.StorageSQLite, s.Storage)
}

func TestInitConfirmsReplacingRegions(t *testing.T) {
	dir := setupDataDir(t, "SE")

	var asked string
	confirm := func(prompt string) (bool, error) {
		asked = prompt
		return false, nil
	}
	stdout, err := execInit(t, dir, "NO", "", confirm, nil)

	require.NoError(t, err)
	assert.Equal(t, "Replace regions SE with NO?", asked)
	assert.Contains(t, stdout, "init cancelled")

	s, err := settings.ReadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"SE"}, s.Regions)
}

func TestInitPicksRegionsInteractively(t *testing.T) {
	dir := t.TempDir()

	var offered []string
	pick := func(title string, options []string, limit int) ([]int, error) {
		offered = options
		assert.Equal(t, settings.MaxRegions, limit)
		return []int{len(options) - 1}, nil
	}
	stdout, err := execInit(t, dir, "", "", AlwaysYes(), pick)

	require.NoError(t, err)
	assert.Equal(t, []string{"CN", "DE", "GB", "NO", "SE", "US"}, offered)
	assert.Contains(t, stdout, "regions: US")
}

func TestInitErrors(t *testing.T) {
	tests := []struct {
		name    string
		regions string
		storage string
	}{
		{"no regions without a terminal", "", ""},
		{"unknown region", "XX", ""},
		{"too many regions", "SE,NO,DE", ""},
		{"bad storage", "SE", "postgres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := execInit(t, dir, tt.regions, tt.storage, AlwaysYes(), nil)
			assert.Error(t, err)
			assert.NoFileExists(t, settings.Path(dir))
		})
	}
}
