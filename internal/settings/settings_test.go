package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestDefaults(t *testing.T) {
	var s Settings
	assert.True(t, s.HolidaysVisible())
	assert.Equal(t, DefaultSpan, s.Span())
	assert.Empty(t, s.SelectedRegions())
}

func TestSelectedRegions(t *testing.T) {
	tests := []struct {
		name string
		s    Settings
		want []string
	}{
		{"legacy single region", Settings{Region: "se"}, []string{"SE"}},
		{"list wins over legacy", Settings{Regions: []string{"NO"}, Region: "SE"}, []string{"NO"}},
		{"dedupe", Settings{Regions: []string{"se", "SE", "us"}}, []string{"SE", "US"}},
		{"capped at two", Settings{Regions: []string{"SE", "NO", "DE"}}, []string{"SE", "NO"}},
		{"blank entries", Settings{Regions: []string{" ", "de"}}, []string{"DE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.SelectedRegions())
		})
	}
}

func TestNormalize(t *testing.T) {
	s := Settings{Region: "se"}
	s.Normalize()
	assert.Equal(t, []string{"SE"}, s.Regions)
	assert.Empty(t, s.Region)
}

func TestSpanAllowsZero(t *testing.T) {
	assert.Equal(t, 0, Settings{CacheSpanYears: intPtr(0)}.Span())
	assert.Equal(t, DefaultSpan, Settings{CacheSpanYears: intPtr(-3)}.Span())
}

func TestReadFileMissing(t *testing.T) {
	s, err := ReadFile(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Settings{}, s)
}

func TestWriteAndReadFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	in := Settings{ShowHolidays: boolPtr(false), Region: "SE", CacheSpanYears: intPtr(3), Storage: StorageSQLite}
	require.NoError(t, WriteFile(dir, in))

	out, err := ReadFile(dir)
	require.NoError(t, err)
	assert.False(t, out.HolidaysVisible())
	assert.Equal(t, []string{"SE"}, out.Regions)
	assert.Empty(t, out.Region)
	assert.Equal(t, 3, out.Span())
	assert.Equal(t, StorageSQLite, out.Storage)
}

func TestReadFileCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(dir), []byte("{nope"), 0644))

	_, err := ReadFile(dir)
	assert.Error(t, err)
}

func TestLoadLegacyRegion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(dir), []byte(`{"region":"se"}`), 0644))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"SE"}, s.Regions)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(dir, Settings{Regions: []string{"SE"}, Storage: StorageJSON}))

	t.Setenv(EnvRegions, "us,gb")
	t.Setenv(EnvStorage, StorageSQLite)
	t.Setenv(EnvShowHolidays, "false")
	t.Setenv(EnvCacheSpan, "5")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"US", "GB"}, s.Regions)
	assert.Equal(t, StorageSQLite, s.Storage)
	assert.False(t, s.HolidaysVisible())
	assert.Equal(t, 5, s.Span())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REDDAY_LOG_LEVEL=debug\nREDDAY_REGIONS=NO\n"), 0644))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, []string{"NO"}, s.Regions)
}

func TestProcessEnvBeatsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REDDAY_LOG_LEVEL=debug\n"), 0644))
	t.Setenv(EnvLogLevel, "error")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "error", s.LogLevel)
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv(EnvCacheSpan, "lots")
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestDir(t *testing.T) {
	t.Setenv(EnvHome, "")
	assert.Equal(t, filepath.Join("/home/u", ".redday"), Dir("/home/u"))

	t.Setenv(EnvHome, "/srv/redday")
	assert.Equal(t, "/srv/redday", Dir("/home/u"))
}

func TestGetSet(t *testing.T) {
	var s Settings

	require.NoError(t, s.Set("regions", "se, no"))
	v, err := s.Get("regions")
	require.NoError(t, err)
	assert.Equal(t, "SE,NO", v)

	require.NoError(t, s.Set("show_holidays", "false"))
	v, _ = s.Get("show_holidays")
	assert.Equal(t, "false", v)

	require.NoError(t, s.Set("cache_span_years", "4"))
	v, _ = s.Get("cache_span_years")
	assert.Equal(t, "4", v)

	v, _ = s.Get("storage")
	assert.Equal(t, StorageJSON, v)
	v, _ = s.Get("log_level")
	assert.Equal(t, "warn", v)
}

func TestSetRejectsInvalid(t *testing.T) {
	s := Settings{Storage: StorageJSON}

	assert.Error(t, s.Set("regions", "SE,NO,DE"))
	assert.Error(t, s.Set("regions", "S3"))
	assert.Error(t, s.Set("storage", "postgres"))
	assert.Error(t, s.Set("log_level", "loud"))
	assert.Error(t, s.Set("cache_span_years", "-1"))
	assert.Error(t, s.Set("show_holidays", "maybe"))
	assert.Error(t, s.Set("colour", "red"))

	_, err := s.Get("colour")
	assert.Error(t, err)

	assert.Equal(t, StorageJSON, s.Storage)
}

func TestStaticSource(t *testing.T) {
	src := Static(Settings{Locale: "sv"})
	s, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, "sv", s.Locale)

	s, err = File{Dir: t.TempDir()}.Load()
	require.NoError(t, err)
	assert.True(t, s.HolidaysVisible())
}
