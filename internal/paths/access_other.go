//go:build !unix

package paths

import "os"

// canReadWrite probes by creating and removing a temp file.
func canReadWrite(path string) bool {
	f, err := os.CreateTemp(path, ".prefkeep-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	return os.Remove(name) == nil
}
