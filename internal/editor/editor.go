// Package editor launches the user's preferred text editor on a file.
package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/prefkeep/internal/errors"
)

// ErrNoEditor indicates the editor setting is blank.
var ErrNoEditor = errors.New("no editor configured")

// Open runs the user's editor on path and waits for it to exit. The
// location is printed to out first so it can be found after a crash.
// $EDITOR and $VISUAL may carry arguments, e.g. "code --wait".
func Open(ctx context.Context, path string, out io.Writer) error {
	argv := strings.Fields(detectEditor())
	if len(argv) == 0 {
		return ErrNoEditor
	}

	fmt.Fprintf(out, "Location: %s\n", path)

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}

	return nil
}

// detectEditor returns the editor command line to use. Fallback chain:
// $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor
	}

	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}

	return "vi"
}
