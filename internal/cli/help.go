package cli

import (
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// "Usage:", "Available Commands:", "Flags:", "Examples:"
	sectionHeaderRe = regexp.MustCompile(`^[A-Z][A-Za-z ]+:$`)
	// "  show          Show holidays for a year or month"
	commandListingRe = regexp.MustCompile(`^( {2})(\S+)(\s{2,}.*)$`)
	// "      --region string   region code"
	flagLineRe = regexp.MustCompile(`^( +)(-.+?)( {2,}.*)$`)
	// "  redday rules add ..." inside an Examples block
	exampleLineRe = regexp.MustCompile(`^( +)(redday\b.*)$`)
	footerRe      = regexp.MustCompile(`^Use "`)
)

// colorizedHelpFunc renders cobra's usage text line by line through colorizeLine.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		origOut := cmd.OutOrStdout()

		var buf strings.Builder
		cmd.SetOut(&buf)
		cmd.InitDefaultHelpFlag()
		_ = cmd.Usage()
		cmd.SetOut(origOut)

		var result strings.Builder
		for _, line := range strings.Split(buf.String(), "\n") {
			result.WriteString(colorizeLine(line))
			result.WriteString("\n")
		}
		cmd.Print(strings.TrimRight(result.String(), "\n") + "\n")
	}
}

func colorizeLine(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case sectionHeaderRe.MatchString(trimmed):
		return Info(line)
	case footerRe.MatchString(trimmed):
		return Silent(line)
	}

	if m := exampleLineRe.FindStringSubmatch(line); m != nil {
		return m[1] + Silent(m[2])
	}
	if m := flagLineRe.FindStringSubmatch(line); m != nil {
		return m[1] + Primary(m[2]) + Text(m[3])
	}
	if m := commandListingRe.FindStringSubmatch(line); m != nil {
		return m[1] + Primary(m[2]) + Text(m[3])
	}
	return Text(line)
}
