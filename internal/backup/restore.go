package backup

import (
	"context"
	"os"
	"path/filepath"
)

// Restore copies the backed-up artifacts back to their live locations.
//
// It requires the backup flag and never modifies it. The primary
// preference file is looked up under its current name first and then under
// each legacy name, so backups from older release lines restore into the
// current name.
func (e *Engine) Restore(ctx context.Context) error {
	if !e.perms.HasStorageReadWrite() {
		return e.fail(MsgPermissionDenied, ErrPermissionDenied, nil, "restore not permitted", "root", e.root)
	}

	if !e.IsBackupAvailable() {
		return e.fail(MsgRestoreNoBackup, ErrNoBackup, nil, "no backup to restore", "root", e.root)
	}

	e.writeRestoreMarker()

	prefDir := e.prefDir.Resolve()
	if err := os.MkdirAll(prefDir, 0o755); err != nil {
		return e.fail(MsgRestoreFailed, ErrDirectoryCreate, err, "creating preference directory", "dir", prefDir)
	}
	e.logger.Debug("restoring settings", "from", e.root, "to", prefDir)

	for _, a := range e.manifest {
		if err := ctx.Err(); err != nil {
			return e.fail(MsgRestoreFailed, ErrCopyFailed, err, "restore cancelled")
		}

		var src string
		if a.Required {
			src = e.locatePrimary(a)
			if src == "" {
				return e.fail(MsgRestoreNoBackup, ErrSourceMissing, nil, "primary preferences missing from backup", "artifact", a.Name)
			}
		} else {
			src = e.artifactPath(a.Name, a.Class)
			if !exists(src) {
				continue
			}
		}

		dst := filepath.Join(prefDir, a.Name)
		if err := e.copier.Copy(src, dst); err != nil {
			return e.fail(MsgRestoreFailed, ErrCopyFailed, err, "restoring artifact", "artifact", a.Name)
		}
		e.makeWorldReadable(dst)
		e.logger.Debug("artifact restored", "artifact", a.Name, "source", filepath.Base(src))
	}

	appPicker := filepath.Join(prefDir, AppPickerDirName)
	e.ensureReadableDir(appPicker)
	if name, err := e.copyEntries(ctx, e.appPickerBackupDir(), appPicker, true); err != nil {
		if e.policy == AppPickerFailureAborts {
			return e.fail(MsgRestoreFailed, ErrCopyFailed, err, "restoring app picker item", "file", name)
		}
		e.logger.Error("restoring app picker item", "file", name, "error", err)
		e.notifier.Notify(MsgRestoreFailed)
		return nil
	}

	filesDir := e.layout.FilesDir()
	e.ensureReadableDir(filesDir)
	if name, err := e.copyEntries(ctx, e.filesDir(), filesDir, true); err != nil {
		return e.fail(MsgRestoreFailed, ErrCopyFailed, err, "restoring file", "file", name)
	}

	e.logger.Info("settings restored", "root", e.root)
	e.notifier.Notify(MsgRestoreSuccess)
	return nil
}

// PrimaryCandidates returns the backup paths tried for the required
// artifact a, in order.
func (e *Engine) PrimaryCandidates(a Artifact) []string {
	candidates := make([]string, 0, 1+len(e.legacy))
	candidates = append(candidates, e.artifactPath(a.Name, a.Class))
	for _, name := range e.legacy {
		candidates = append(candidates, e.artifactPath(name, a.Class))
	}
	return candidates
}

func (e *Engine) locatePrimary(a Artifact) string {
	for _, p := range e.PrimaryCandidates(a) {
		if exists(p) {
			return p
		}
	}
	return ""
}

// writeRestoreMarker leaves uuid_<identity> in the files directory so the
// next start can run post-restore tasks. Failures are ignored.
func (e *Engine) writeRestoreMarker() {
	if e.identity == nil {
		return
	}
	id, err := e.identity.GetOrCreate()
	if err != nil {
		e.logger.Debug("restore marker skipped", "error", err)
		return
	}
	dir := e.layout.FilesDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.logger.Debug("restore marker skipped", "error", err)
		return
	}
	if err := touch(filepath.Join(dir, RestoreMarkerPrefix+id)); err != nil {
		e.logger.Debug("restore marker skipped", "error", err)
	}
}

// ensureReadableDir creates dir as world readable and traversable when it
// does not exist yet. Failures surface later as copy failures.
func (e *Engine) ensureReadableDir(dir string) {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.logger.Debug("creating directory", "dir", dir, "error", err)
		return
	}
	if err := os.Chmod(dir, 0o755); err != nil {
		e.logger.Debug("setting directory permissions", "dir", dir, "error", err)
	}
}

func (e *Engine) makeWorldReadable(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if err := os.Chmod(path, info.Mode().Perm()|0o044); err != nil {
		e.logger.Debug("making file world readable", "path", path, "error", err)
	}
}
