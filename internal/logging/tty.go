package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// isTerminal reports whether w is a terminal. It supports os.File and any
// wrapper that provides an Fd() method.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SupportsColor returns true if the given writer supports ANSI color codes.
//
// CLICOLOR_FORCE (any value other than "0") forces color on. Otherwise color
// is off when NO_COLOR is set, when TERM is "dumb", or when w is not a TTY.
func SupportsColor(w io.Writer) bool {
	return supportsColor(isTerminal(w))
}

func supportsColor(isTTY bool) bool {
	if v, ok := os.LookupEnv("CLICOLOR_FORCE"); ok && v != "0" {
		return true
	}

	// https://no-color.org
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return isTTY
}
