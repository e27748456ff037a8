// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thoreinstein/prefkeep/internal/errors"
)

// Sentinel errors for confirmation prompts.
var (
	ErrInvalidAnswer  = errors.New("invalid answer")
	ErrPromptCanceled = errors.New("prompt cancelled")
)

// Confirmer asks yes/no questions.
type Confirmer struct {
	reader io.Reader
	writer io.Writer
}

// NewConfirmer creates a Confirmer using stdin and stdout.
func NewConfirmer() *Confirmer {
	return &Confirmer{
		reader: os.Stdin,
		writer: os.Stdout,
	}
}

// NewConfirmerWithIO creates a Confirmer with custom reader and writer for testing.
func NewConfirmerWithIO(r io.Reader, w io.Writer) *Confirmer {
	return &Confirmer{
		reader: r,
		writer: w,
	}
}

// Confirm prints question and reads a y/n answer. An empty answer selects
// def.
//
// Returns:
//   - ErrPromptCanceled if input is EOF (e.g., Ctrl+D)
//   - ErrInvalidAnswer if the answer is neither yes nor no
func (c *Confirmer) Confirm(question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	fmt.Fprintf(c.writer, "%s %s: ", question, hint)

	reader := bufio.NewReader(c.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input == "" {
			return false, ErrPromptCanceled
		}
		if !errors.Is(err, io.EOF) {
			return false, errors.Wrap(err, "reading answer")
		}
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, errors.Wrapf(ErrInvalidAnswer, "%q", strings.TrimSpace(input))
	}
}
