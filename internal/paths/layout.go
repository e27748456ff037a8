package paths

import "path/filepath"

// Directory names inside the application data root.
const (
	FilesDirName     = "files"
	CacheDirName     = "cache"
	SharedPrefsName  = "shared_prefs"
	AppPickerDirName = "app_picker"
)

// Layout describes the application's private storage tree.
type Layout struct {
	// DataDir is the private data root every other directory hangs off.
	DataDir string

	// PackageName prefixes the primary preference file name.
	PackageName string
}

// FilesDir returns DataDir/files.
func (l Layout) FilesDir() string {
	return filepath.Join(l.DataDir, FilesDirName)
}

// CacheDir returns DataDir/cache.
func (l Layout) CacheDir() string {
	return filepath.Join(l.DataDir, CacheDirName)
}

// FallbackPrefsDir returns the well-known preference directory used when
// the store cannot report its own location.
func (l Layout) FallbackPrefsDir() string {
	return filepath.Join(l.DataDir, SharedPrefsName)
}

// MainPrefsName returns the store name of the primary preference file,
// without extension.
func (l Layout) MainPrefsName() string {
	return l.PackageName + "_preferences"
}
