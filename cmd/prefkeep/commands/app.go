package commands

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prefkeep/internal/backup"
	"github.com/thoreinstein/prefkeep/internal/cli"
	"github.com/thoreinstein/prefkeep/internal/config"
	"github.com/thoreinstein/prefkeep/internal/errors"
	"github.com/thoreinstein/prefkeep/internal/identity"
	"github.com/thoreinstein/prefkeep/internal/logging"
	"github.com/thoreinstein/prefkeep/internal/paths"
	"github.com/thoreinstein/prefkeep/internal/permfix"
	"github.com/thoreinstein/prefkeep/internal/prefdir"
	"github.com/thoreinstein/prefkeep/internal/prefs"
)

// watchedStores are the stores kept in sync with their files by watch.
var watchedStores = []string{"ledcontrol", "quiet_hours", "tuner"}

// app wires the settings components for one command invocation.
type app struct {
	cfg      *config.Config
	layout   paths.Layout
	logger   *slog.Logger
	provider *prefs.Provider
	resolver *prefdir.Resolver
}

func newApp(cmd *cobra.Command) (*app, error) {
	if configLoadErr != nil {
		return nil, errors.NewConfigError(configLoadErr)
	}
	if loadedConfig == nil {
		return nil, errors.NewConfigError(errors.New("configuration not loaded"))
	}

	cfg := loadedConfig
	logger := logging.FromContext(cmd.Context())
	layout := cfg.Layout()

	storeDir := cfg.PrefsDir
	if storeDir == "" {
		storeDir = layout.FallbackPrefsDir()
	}
	provider := prefs.NewProvider(storeDir, logger)

	open := func(name string) (prefdir.Store, error) {
		s, err := provider.Open(name)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	return &app{
		cfg:      cfg,
		layout:   layout,
		logger:   logger,
		provider: provider,
		resolver: prefdir.New(open, layout.FallbackPrefsDir(), prefdir.WithLogger(logger)),
	}, nil
}

// mainStore opens the primary preference store.
func (a *app) mainStore() (*prefs.Store, error) {
	s, err := a.provider.Open(a.layout.MainPrefsName())
	if err != nil {
		return nil, errors.NewSystemError(err, "Check the preference directory is readable")
	}
	return s, nil
}

func (a *app) identity() (*identity.Manager, error) {
	s, err := a.mainStore()
	if err != nil {
		return nil, err
	}
	return identity.NewManager(s, identity.WithLogger(a.logger)), nil
}

// lazyIdentity opens the main store only when the identity is first needed,
// so a damaged primary file never blocks a backup or a restore.
type lazyIdentity struct {
	app *app
}

func (l lazyIdentity) GetOrCreate() (string, error) {
	m, err := l.app.identity()
	if err != nil {
		return "", err
	}
	return m.GetOrCreate()
}

// engine builds the backup engine reporting outcomes to out.
func (a *app) engine(out io.Writer, policy backup.AppPickerFailurePolicy) *backup.Engine {
	opts := []backup.Option{
		backup.WithLogger(a.logger),
		backup.WithNotifier(cli.NewNotifier(out)),
		backup.WithIdentity(lazyIdentity{app: a}),
		backup.WithLegacyPrimaryNames(a.cfg.LegacyPrimaryNames),
		backup.WithAppPickerFailurePolicy(policy),
		backup.WithPermissionChecker(a.permissionChecker()),
	}

	return backup.NewEngine(a.cfg.BackupRoot, a.layout, a.resolver, opts...)
}

// permissionChecker answers the storage permission question for the
// backup root, honoring skip_permission_check.
func (a *app) permissionChecker() backup.PermissionChecker {
	if a.cfg.SkipPermissionCheck {
		return backup.PermissionFunc(func() bool { return true })
	}
	return paths.AccessChecker{Path: a.cfg.BackupRoot}
}

// storageTargets lists the directories other processes read from.
func (a *app) storageTargets() []permfix.Target {
	return []permfix.Target{
		{Dir: a.layout.DataDir},
		{Dir: a.layout.CacheDir()},
		{Dir: a.layout.FilesDir(), Entries: true},
		{Dir: filepath.Join(a.resolver.Resolve(), paths.AppPickerDirName), Entries: true},
	}
}

// fixer builds the permission fixer for the application's storage tree.
func (a *app) fixer(opts ...permfix.Option) *permfix.Fixer {
	return permfix.New(a.storageTargets(), append([]permfix.Option{permfix.WithLogger(a.logger)}, opts...)...)
}

// engineError maps an engine failure to a CLI exit error. The engine has
// already told the user what went wrong.
func engineError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, backup.ErrNoBackup), errors.Is(err, backup.ErrSourceMissing):
		return errors.NewUserError(err, "Run 'prefkeep status' to inspect the backup root")
	case errors.Is(err, backup.ErrPermissionDenied):
		return errors.NewUserError(err, "Grant read/write access to the backup root or set skip_permission_check")
	default:
		return errors.NewSystemError(err, "Re-run with -v for details")
	}
}
