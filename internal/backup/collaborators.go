package backup

import "github.com/thoreinstein/prefkeep/pkg/fileutil"

// Copier copies one file. Implementations must leave dst untouched or
// fully written.
type Copier interface {
	Copy(src, dst string) error
}

// CopyFunc adapts a function to Copier.
type CopyFunc func(src, dst string) error

// Copy implements Copier.
func (f CopyFunc) Copy(src, dst string) error { return f(src, dst) }

// DefaultCopier copies with fileutil.CopyFile.
var DefaultCopier Copier = CopyFunc(fileutil.CopyFile)

// PermissionChecker reports whether storage access has been granted.
type PermissionChecker interface {
	HasStorageReadWrite() bool
}

// PermissionFunc adapts a function to PermissionChecker.
type PermissionFunc func() bool

// HasStorageReadWrite implements PermissionChecker.
func (f PermissionFunc) HasStorageReadWrite() bool { return f() }

// UserNotifier presents outcome messages to the user.
type UserNotifier interface {
	Notify(kind MessageKind)
}

// NotifyFunc adapts a function to UserNotifier.
type NotifyFunc func(kind MessageKind)

// Notify implements UserNotifier.
func (f NotifyFunc) Notify(kind MessageKind) { f(kind) }

// NopNotifier discards messages.
type NopNotifier struct{}

// Notify implements UserNotifier.
func (NopNotifier) Notify(MessageKind) {}

// IdentityProvider supplies the identity embedded in the restore marker.
type IdentityProvider interface {
	GetOrCreate() (string, error)
}

// DirResolver returns the live preference directory.
type DirResolver interface {
	Resolve() string
}

// StaticDir is a DirResolver that always returns itself.
type StaticDir string

// Resolve implements DirResolver.
func (d StaticDir) Resolve() string { return string(d) }
