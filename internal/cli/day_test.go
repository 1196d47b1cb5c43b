package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execDay(t *testing.T, dir, arg string) (string, error) {
	t.Helper()
	cmd, stdout := newTestCmd()
	err := runDay(cmd, dir, cliNow, arg)
	return stdout.String(), err
}

func TestParseDayArg(t *testing.T) {
	tests := map[string]string{
		"":           "2025-06-15",
		"today":      "2025-06-15",
		"Tomorrow":   "2025-06-16",
		"yesterday":  "2025-06-14",
		"2025-12-24": "2025-12-24",
	}
	for arg, want := range tests {
		d, err := parseDayArg(arg, cliNow)
		require.NoError(t, err, arg)
		assert.Equal(t, want, d.String(), arg)
	}

	_, err := parseDayArg("24/12", cliNow)
	assert.Error(t, err)
}

func TestDayWithoutHolidaysShowsNext(t *testing.T) {
	dir := setupDataDir(t, "SE")

	stdout, err := execDay(t, dir, "")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Sunday 2025-06-15")
	assert.Contains(t, stdout, "no holidays")
	assert.Contains(t, stdout, "2025-06-20 Midsommarafton (in 5 days)")
}

func TestDayJulafton(t *testing.T) {
	dir := setupDataDir(t, "SE")

	stdout, err := execDay(t, dir, "2025-12-24")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Wednesday 2025-12-24")
	assert.Contains(t, stdout, "Julafton")
	assert.Contains(t, stdout, "SE/holiday.julafton")
	assert.Contains(t, stdout, "gift")
	assert.Contains(t, stdout, "2025-12-25 Juldagen (in 1 days)")
}

func TestDayInvalidDate(t *testing.T) {
	dir := setupDataDir(t, "SE")

	_, err := execDay(t, dir, "2025-02-30")

	assert.Error(t, err)
}
