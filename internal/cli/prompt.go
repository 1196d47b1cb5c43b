package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ConfirmFunc prompts the user for confirmation and returns true if confirmed.
type ConfirmFunc func(prompt string) (bool, error)

// NewConfirmFunc creates a ConfirmFunc reading from in. On a terminal it uses
// huh's interactive confirm component; otherwise it reads a y/N line.
func NewConfirmFunc(in io.Reader, out io.Writer) ConfirmFunc {
	if isTerminal(in) {
		return func(prompt string) (bool, error) {
			var result bool
			err := huh.NewConfirm().
				Title(prompt).
				Value(&result).
				Run()
			return result, err
		}
	}

	reader := bufio.NewReader(in)
	return func(prompt string) (bool, error) {
		_, _ = fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}

// AlwaysYes returns a ConfirmFunc that always confirms.
func AlwaysYes() ConfirmFunc {
	return func(_ string) (bool, error) {
		return true, nil
	}
}

// ResolveConfirmFunc returns AlwaysYes when yes is set, else an interactive
// confirm bound to the given streams.
func ResolveConfirmFunc(yes bool, in io.Reader, out io.Writer) ConfirmFunc {
	if yes {
		return AlwaysYes()
	}
	return NewConfirmFunc(in, out)
}

// MultiSelectFunc prompts the user to select multiple options. Returns 0-based indices.
type MultiSelectFunc func(title string, options []string, limit int) ([]int, error)

// NewMultiSelectFunc creates a MultiSelectFunc using huh's interactive multi-select component.
func NewMultiSelectFunc() MultiSelectFunc {
	return func(title string, options []string, limit int) ([]int, error) {
		var result []int
		opts := make([]huh.Option[int], len(options))
		for i, o := range options {
			opts[i] = huh.NewOption(o, i)
		}
		err := huh.NewMultiSelect[int]().
			Title(title).
			Options(opts...).
			Limit(limit).
			Value(&result).
			Run()
		return result, err
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
