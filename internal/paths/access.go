package paths

import (
	"os"
	"path/filepath"
)

// AccessChecker reports whether the process may read and write below Path.
// Path itself does not need to exist; the nearest existing ancestor is checked.
type AccessChecker struct {
	Path string
}

// HasStorageReadWrite reports whether read and write access is granted.
func (c AccessChecker) HasStorageReadWrite() bool {
	if c.Path == "" {
		return false
	}
	dir := NearestExisting(c.Path)
	if dir == "" {
		return false
	}
	return canReadWrite(dir)
}

// NearestExisting walks up from path and returns the first component that
// exists, or "" if none does.
func NearestExisting(path string) string {
	p := filepath.Clean(path)
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return ""
		}
		p = parent
	}
}
