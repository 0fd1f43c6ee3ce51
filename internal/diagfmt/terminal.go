package diagfmt

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to an interactive terminal,
// used to resolve the CLI's --color=auto default (SPEC_FULL.md §1).
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ShouldColor resolves the --color flag value ("auto"|"on"|"off")
// against out's terminal-ness.
func ShouldColor(colorFlag string, out *os.File) bool {
	switch colorFlag {
	case "on":
		return true
	case "off":
		return false
	default:
		return IsTerminal(out)
	}
}
