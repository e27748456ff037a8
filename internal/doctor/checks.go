package doctor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/prefkeep/internal/backup"
	"github.com/thoreinstein/prefkeep/internal/errors"
	"github.com/thoreinstein/prefkeep/internal/permfix"
	"github.com/thoreinstein/prefkeep/internal/prefs"
)

// BackupRootCheck verifies the backup root can be written.
type BackupRootCheck struct {
	Root   string
	Access backup.PermissionChecker
}

var _ Check = (*BackupRootCheck)(nil)

func (c *BackupRootCheck) Name() string     { return "backup-root" }
func (c *BackupRootCheck) Category() string { return "backup" }

func (c *BackupRootCheck) Run() *CheckResult {
	r := &CheckResult{Name: c.Name(), Category: c.Category()}

	if !c.Access.HasStorageReadWrite() {
		r.Status = SeverityError
		r.Message = "backup root is not readable and writable"
		r.Details = []string{c.Root}
		r.FixHint = "grant read/write access to " + c.Root + " or set skip_permission_check"
		return r
	}

	info, err := os.Stat(c.Root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.Status = SeverityInfo
		r.Message = "backup root does not exist yet; the first backup creates it"
	case err != nil:
		r.Status = SeverityError
		r.Message = "backup root cannot be inspected: " + err.Error()
	case !info.IsDir():
		r.Status = SeverityError
		r.Message = "backup root is not a directory"
		r.Details = []string{c.Root}
	default:
		r.Status = SeverityPass
		r.Message = "backup root is writable"
	}
	return r
}

// StatusSource reports the backup slot state.
type StatusSource interface {
	Status() (*backup.Status, error)
}

// BackupStateCheck inspects the flags and the primary artifact.
type BackupStateCheck struct {
	Source StatusSource
}

var _ Check = (*BackupStateCheck)(nil)

func (c *BackupStateCheck) Name() string     { return "backup-state" }
func (c *BackupStateCheck) Category() string { return "backup" }

func (c *BackupStateCheck) Run() *CheckResult {
	r := &CheckResult{Name: c.Name(), Category: c.Category()}

	s, err := c.Source.Status()
	if err != nil {
		r.Status = SeverityError
		r.Message = "reading backup state: " + err.Error()
		return r
	}

	var primary *backup.ArtifactStatus
	for i := range s.Artifacts {
		if s.Artifacts[i].Required {
			primary = &s.Artifacts[i]
			break
		}
	}

	switch {
	case s.Available && primary != nil && !primary.Present:
		r.Status = SeverityError
		r.Message = "backup is marked complete but holds no primary preferences"
		r.FixHint = "run 'prefkeep backup' again"
	case s.Available && primary != nil && primary.Source != "":
		r.Status = SeverityInfo
		r.Message = "backup available; primary preferences will be restored from " + primary.Source
	case s.Available:
		r.Status = SeverityPass
		r.Message = "backup available"
	case s.Obsolete:
		r.Status = SeverityWarning
		r.Message = "only a backup from an older release exists; it cannot be restored"
		r.FixHint = "run 'prefkeep backup' to create a current backup"
	default:
		r.Status = SeverityInfo
		r.Message = "no backup yet"
	}
	return r
}

// PreferenceStoreCheck verifies every store file in Dir parses and is
// world readable.
type PreferenceStoreCheck struct {
	Dir string

	unreadable []string
}

var (
	_ Check = (*PreferenceStoreCheck)(nil)
	_ Fixer = (*PreferenceStoreCheck)(nil)
)

func (c *PreferenceStoreCheck) Name() string     { return "preference-stores" }
func (c *PreferenceStoreCheck) Category() string { return "storage" }

func (c *PreferenceStoreCheck) Run() *CheckResult {
	r := &CheckResult{Name: c.Name(), Category: c.Category()}
	c.unreadable = nil

	matches, err := filepath.Glob(filepath.Join(c.Dir, "*"+prefs.FileExt))
	if err != nil || len(matches) == 0 {
		r.Status = SeverityInfo
		r.Message = "no preference stores in " + c.Dir
		return r
	}

	var broken []string
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), prefs.FileExt)
		if _, err := prefs.Open(c.Dir, name); err != nil {
			broken = append(broken, path)
			continue
		}
		info, err := os.Stat(path)
		if err == nil && info.Mode().Perm()&0o044 != 0o044 {
			c.unreadable = append(c.unreadable, path)
		}
	}

	switch {
	case len(broken) > 0:
		r.Status = SeverityError
		r.Message = fmt.Sprintf("%d of %d preference stores cannot be parsed", len(broken), len(matches))
		r.Details = broken
		r.FixHint = "restore a backup or remove the damaged files"
	case len(c.unreadable) > 0:
		r.Status = SeverityWarning
		r.Message = fmt.Sprintf("%d preference stores are not world readable", len(c.unreadable))
		r.Details = c.unreadable
		r.Fixable = true
		r.FixHint = "run 'prefkeep doctor --fix'"
	default:
		r.Status = SeverityPass
		r.Message = fmt.Sprintf("all %d preference stores are valid", len(matches))
	}
	return r
}

// CanFix implements Fixer.
func (c *PreferenceStoreCheck) CanFix() bool { return len(c.unreadable) > 0 }

// Fix implements Fixer.
func (c *PreferenceStoreCheck) Fix() []permfix.FixResult {
	results := make([]permfix.FixResult, 0, len(c.unreadable))
	for _, path := range c.unreadable {
		res := permfix.FixResult{Path: path}
		info, err := os.Stat(path)
		if err == nil {
			err = os.Chmod(path, info.Mode().Perm()|0o044)
		}
		if err != nil {
			res.Error = err
			res.Description = "failed to make world readable: " + err.Error()
		} else {
			res.Fixed = true
			res.Description = "made world readable"
		}
		results = append(results, res)
	}
	return results
}

// StorageTreeCheck verifies the directories other processes read from
// carry read and execute permission for everyone.
type StorageTreeCheck struct {
	Targets []permfix.Target
	Fixer   *permfix.Fixer

	closed []string
}

var (
	_ Check = (*StorageTreeCheck)(nil)
	_ Fixer = (*StorageTreeCheck)(nil)
)

func (c *StorageTreeCheck) Name() string     { return "storage-permissions" }
func (c *StorageTreeCheck) Category() string { return "storage" }

func (c *StorageTreeCheck) Run() *CheckResult {
	r := &CheckResult{Name: c.Name(), Category: c.Category()}
	c.closed = nil
	checked := 0

	visit := func(path string) {
		info, err := os.Lstat(path)
		if err != nil || info.Mode()&fs.ModeSymlink != 0 {
			return
		}
		checked++
		if info.Mode().Perm()&permfix.ReadExec != permfix.ReadExec {
			c.closed = append(c.closed, path)
		}
	}

	for _, t := range c.Targets {
		if info, err := os.Stat(t.Dir); err != nil || !info.IsDir() {
			continue
		}
		visit(t.Dir)
		if !t.Entries {
			continue
		}
		entries, err := os.ReadDir(t.Dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			visit(filepath.Join(t.Dir, e.Name()))
		}
	}

	if len(c.closed) == 0 {
		r.Status = SeverityPass
		r.Message = fmt.Sprintf("all %d storage paths are readable", checked)
		return r
	}

	r.Status = SeverityWarning
	r.Message = fmt.Sprintf("%d of %d storage paths are not readable by other processes", len(c.closed), checked)
	r.Details = c.closed
	r.Fixable = c.Fixer != nil
	r.FixHint = "run 'prefkeep fix-perms'"
	return r
}

// CanFix implements Fixer.
func (c *StorageTreeCheck) CanFix() bool { return c.Fixer != nil && len(c.closed) > 0 }

// Fix implements Fixer.
func (c *StorageTreeCheck) Fix() []permfix.FixResult {
	return c.Fixer.Fix()
}
