package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestColorizeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"section header", "Available Commands:", []string{"Available Commands:"}},
		{"command listing", "  show        Show holidays for a year or month", []string{"show", "Show holidays"}},
		{"flag line", "      --region string   region code", []string{"--region string", "region code"}},
		{"example", "  redday rules add SE/custom.fika --type fixed", []string{"redday rules add SE/custom.fika"}},
		{"footer", `Use "redday [command] --help" for more information about a command.`, []string{"redday [command]"}},
		{"plain", "Holiday calendar for the terminal", []string{"Holiday calendar for the terminal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := colorizeLine(tt.line)
			for _, w := range tt.want {
				assert.Contains(t, result, w)
			}
		})
	}
}

func TestColorizedHelpFunc(t *testing.T) {
	cmd := &cobra.Command{Use: "test-app", Short: "A test CLI app"}
	cmd.AddCommand(&cobra.Command{Use: "sub", Short: "A subcommand", Run: func(*cobra.Command, []string) {}})

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	colorizedHelpFunc()(cmd, nil)

	assert.Contains(t, buf.String(), "test-app")
	assert.Contains(t, buf.String(), "Flags:")

	buf.Reset()
	cmd.Print("after")
	assert.Equal(t, "after", buf.String())
}
