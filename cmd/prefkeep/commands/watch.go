package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prefkeep/internal/errors"
	"github.com/thoreinstein/prefkeep/internal/notify"
	"github.com/thoreinstein/prefkeep/internal/paths"
	"github.com/thoreinstein/prefkeep/internal/permfix"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep preference stores in sync with their files",
	Long: `Watch the preference directory until interrupted. When a preference
file is rewritten, for example by a restore, the matching store reloads it;
when its permissions change, world readability is put back.

The storage permissions are normalized once in the background on start.
Every event is logged at debug level (-vv).`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

// logListener logs every notification.
type logListener struct {
	logger *slog.Logger
}

func (l logListener) OnFileUpdated(path string) {
	l.logger.Debug("preference file updated", "file", path)
}

func (l logListener) OnFileAttributesChanged(path string) {
	l.logger.Debug("preference file attributes changed", "file", path)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	dir := a.resolver.Resolve()
	if err := paths.EnsureDir(dir, 0); err != nil {
		return errors.NewSystemError(err, "Check the preference directory can be created")
	}
	n, err := notify.New(dir, notify.WithLogger(a.logger))
	if err != nil {
		return errors.NewSystemError(err, "Check the preference directory exists")
	}
	defer n.Close()

	main, err := a.mainStore()
	if err != nil {
		return err
	}
	n.Register(main)
	for _, name := range watchedStores {
		s, err := a.provider.Open(name)
		if err != nil {
			return errors.NewSystemError(err, "Check the preference directory is readable")
		}
		n.Register(s)
	}
	n.Register(logListener{logger: a.logger})

	a.fixer(permfix.WithDoneHook(func(results []permfix.FixResult) {
		a.logger.Debug("storage permissions normalized", "paths", len(results))
	})).FixAsync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("watching preference directory", "dir", dir, "listeners", n.Listeners())
	if err := n.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return errors.NewSystemError(err, "Re-run with -v for details")
	}
	return nil
}
