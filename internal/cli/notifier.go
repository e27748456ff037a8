package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/prefkeep/internal/backup"
)

// Notifier prints backup and restore outcome messages, one line each.
type Notifier struct {
	out io.Writer
}

// NewNotifier returns a Notifier writing to out.
func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

// Notify implements backup.UserNotifier.
func (n *Notifier) Notify(kind backup.MessageKind) {
	switch {
	case kind.Success():
		fmt.Fprintln(n.out, color.GreenString("✓ %s", kind))
	case kind == backup.MsgPermissionDenied:
		fmt.Fprintln(n.out, color.YellowString("! %s", kind))
	default:
		fmt.Fprintln(n.out, color.RedString("✗ %s", kind))
	}
}
