package backup

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/prefkeep/internal/paths"
)

// Engine backs up and restores the application's settings to a single
// backup slot under root. It does not serialize its own calls: callers must
// not run Backup and Restore concurrently.
type Engine struct {
	root     string
	layout   paths.Layout
	prefDir  DirResolver
	manifest Manifest
	legacy   []string

	copier   Copier
	perms    PermissionChecker
	notifier UserNotifier
	identity IdentityProvider
	policy   AppPickerFailurePolicy
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithManifest replaces the default artifact list.
func WithManifest(m Manifest) Option {
	return func(e *Engine) {
		if len(m) > 0 {
			e.manifest = slices.Clone(m)
		}
	}
}

// WithLegacyPrimaryNames replaces the legacy primary file names tried on restore.
func WithLegacyPrimaryNames(names []string) Option {
	return func(e *Engine) {
		e.legacy = slices.Clone(names)
	}
}

// WithCopier sets the file copy primitive.
func WithCopier(c Copier) Option {
	return func(e *Engine) {
		if c != nil {
			e.copier = c
		}
	}
}

// WithPermissionChecker sets the storage permission check.
func WithPermissionChecker(p PermissionChecker) Option {
	return func(e *Engine) {
		if p != nil {
			e.perms = p
		}
	}
}

// WithNotifier sets where outcome messages go.
func WithNotifier(n UserNotifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithIdentity sets the identity used for the restore marker. Without one
// no marker is written.
func WithIdentity(p IdentityProvider) Option {
	return func(e *Engine) {
		e.identity = p
	}
}

// WithAppPickerFailurePolicy sets how restore reports app picker copy failures.
func WithAppPickerFailurePolicy(p AppPickerFailurePolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine writing backups to root for the application
// described by layout, with live preference files in prefDir.
func NewEngine(root string, layout paths.Layout, prefDir DirResolver, opts ...Option) *Engine {
	e := &Engine{
		root:     root,
		layout:   layout,
		prefDir:  prefDir,
		manifest: DefaultManifest(layout.MainPrefsName() + ".xml"),
		legacy:   slices.Clone(LegacyPrimaryNames),
		copier:   DefaultCopier,
		perms:    paths.AccessChecker{Path: root},
		notifier: NopNotifier{},
		policy:   AppPickerFailureReportsSuccess,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Root returns the backup root.
func (e *Engine) Root() string { return e.root }

// Manifest returns a copy of the artifact list.
func (e *Engine) Manifest() Manifest { return slices.Clone(e.manifest) }

// FlagPath returns the path of the backup flag.
func (e *Engine) FlagPath() string { return filepath.Join(e.root, FlagName) }

// ObsoleteFlagPath returns the path of the legacy backup flag.
func (e *Engine) ObsoleteFlagPath() string { return filepath.Join(e.root, ObsoleteFlagName) }

// IsBackupAvailable reports whether a completed backup exists.
func (e *Engine) IsBackupAvailable() bool {
	return exists(e.FlagPath())
}

// IsBackupObsolete reports whether only a backup from an older release
// line exists.
func (e *Engine) IsBackupObsolete() bool {
	return exists(e.ObsoleteFlagPath()) && !e.IsBackupAvailable()
}

func (e *Engine) filesDir() string {
	return filepath.Join(e.root, FilesDirName)
}

func (e *Engine) appPickerBackupDir() string {
	return filepath.Join(e.root, FilesDirName, AppPickerDirName)
}

// artifactPath returns where name of class c lives inside the backup root.
func (e *Engine) artifactPath(name string, c Class) string {
	if c == ClassFile {
		return filepath.Join(e.filesDir(), name)
	}
	return filepath.Join(e.root, name)
}

// fail logs, notifies the user once and returns an error marked with sentinel.
func (e *Engine) fail(kind MessageKind, sentinel, cause error, msg string, args ...any) error {
	var err error
	if cause != nil {
		err = errors.Wrap(errors.Mark(cause, sentinel), msg)
	} else {
		err = errors.Wrap(sentinel, msg)
	}
	e.logger.Error(msg, append(args, "error", err)...)
	e.notifier.Notify(kind)
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func missing(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}
