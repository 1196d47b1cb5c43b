package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Flyrell/redday/internal/catalog"
)

func TestVersion(t *testing.T) {
	tests := []struct {
		version, commit, date string
	}{
		{"dev", "none", "unknown"},
		{"1.0.0", "abc1234", "2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			SetVersionInfo(tt.version, tt.commit, tt.date)
			t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

			buf := new(bytes.Buffer)
			rootCmd.SetOut(buf)
			rootCmd.SetArgs([]string{"version"})
			err := rootCmd.Execute()

			assert.NoError(t, err)
			want := fmt.Sprintf("redday %s (commit: %s, built: %s, catalog: v%d)\n",
				tt.version, tt.commit, tt.date, catalog.Default().Version)
			assert.Equal(t, want, buf.String())
		})
	}
}
