package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names the prefkeep directories under the XDG homes.
const AppName = "prefkeep"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns the directory searched for prefkeep's config.yaml.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// DefaultDataDir returns the default application private data root,
// $XDG_DATA_HOME/prefkeep.
func DefaultDataDir() string {
	return filepath.Join(DataHome(), AppName)
}

// DefaultBackupRoot returns the default external backup location,
// ~/GravityBox/backup. It returns an empty string when no home directory
// can be resolved.
func DefaultBackupRoot() string {
	home, err := ResolveHome()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "GravityBox", "backup")
}
