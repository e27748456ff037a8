package backup

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Backup copies every artifact to the backup root.
//
// The backup flag is removed before the first write and recreated only
// after the last one succeeds, so a failed or interrupted backup is never
// reported as available. Copies made before a failure stay on disk.
func (e *Engine) Backup(ctx context.Context) error {
	if !e.perms.HasStorageReadWrite() {
		return e.fail(MsgPermissionDenied, ErrPermissionDenied, nil, "backup not permitted", "root", e.root)
	}

	// app_picker is the deepest directory; creating it creates the rest.
	if err := os.MkdirAll(e.appPickerBackupDir(), 0o755); err != nil {
		return e.fail(MsgBackupFailed, ErrDirectoryCreate, err, "creating backup directories", "root", e.root)
	}

	e.ensureNoMedia()

	if err := os.Remove(e.FlagPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return e.fail(MsgBackupFailed, ErrFlagWrite, err, "invalidating previous backup", "flag", e.FlagPath())
	}

	prefDir := e.prefDir.Resolve()
	e.logger.Debug("backing up settings", "from", prefDir, "to", e.root)

	for _, a := range e.manifest {
		if err := ctx.Err(); err != nil {
			return e.fail(MsgBackupFailed, ErrCopyFailed, err, "backup cancelled")
		}

		src := filepath.Join(prefDir, a.Name)
		if missing(src) {
			if a.Required {
				return e.fail(MsgBackupNoPrefs, ErrSourceMissing, nil, "primary preferences missing", "path", src)
			}
			continue
		}

		dst := e.artifactPath(a.Name, a.Class)
		if err := e.copier.Copy(src, dst); err != nil {
			return e.fail(MsgBackupFailed, ErrCopyFailed, err, "backing up artifact", "artifact", a.Name)
		}
		e.logger.Debug("artifact backed up", "artifact", a.Name)
	}

	appPicker := filepath.Join(prefDir, AppPickerDirName)
	if name, err := e.copyEntries(ctx, appPicker, e.appPickerBackupDir(), false); err != nil {
		return e.fail(MsgBackupFailed, ErrCopyFailed, err, "backing up app picker item", "file", name)
	}

	if name, err := e.copyEntries(ctx, e.layout.FilesDir(), e.filesDir(), false); err != nil {
		return e.fail(MsgBackupFailed, ErrCopyFailed, err, "backing up file", "file", name)
	}

	if err := touch(e.FlagPath()); err != nil {
		return e.fail(MsgBackupFailed, ErrFlagWrite, err, "writing backup flag", "flag", e.FlagPath())
	}

	e.logger.Info("settings backed up", "root", e.root)
	e.notifier.Notify(MsgBackupSuccess)
	return nil
}

// ensureNoMedia creates the media-scan suppression marker. Failures are ignored.
func (e *Engine) ensureNoMedia() {
	p := filepath.Join(e.root, NoMediaName)
	if exists(p) {
		return
	}
	if err := touch(p); err != nil {
		e.logger.Debug("creating no-media marker", "path", p, "error", err)
	}
}

// copyEntries copies each regular file directly inside srcDir to dstDir and
// returns the name of the first file that failed. An unreadable or missing
// srcDir has nothing to copy.
func (e *Engine) copyEntries(ctx context.Context, srcDir, dstDir string, worldReadable bool) (string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		e.logger.Debug("nothing to copy", "dir", srcDir, "error", err)
		return "", nil
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return entry.Name(), err
		}

		dst := filepath.Join(dstDir, entry.Name())
		if err := e.copier.Copy(filepath.Join(srcDir, entry.Name()), dst); err != nil {
			return entry.Name(), err
		}
		if worldReadable {
			e.makeWorldReadable(dst)
		}
	}
	return "", nil
}

// touch creates an empty file, truncating any existing one.
func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
