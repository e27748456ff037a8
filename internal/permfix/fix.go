// Package permfix opens the application's private storage tree for reading
// by other processes.
package permfix

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/prefkeep/internal/errors"
)

// ReadExec is the permission added for owner, group and others (r-x).
const ReadExec os.FileMode = 0o555

// FixResult describes the outcome of one chmod.
type FixResult struct {
	// Path is the file or directory that was targeted.
	Path string

	// Fixed indicates whether the permission change was applied.
	Fixed bool

	// Description explains what was changed or why it couldn't be.
	Description string

	// Error contains the error if the change failed.
	Error error
}

// Target is a directory to normalize. When Entries is set, each direct
// child of the directory is normalized too.
type Target struct {
	Dir     string
	Entries bool
}

// Fixer normalizes read/execute permissions on a fixed set of targets.
type Fixer struct {
	targets []Target
	logger  *slog.Logger
	done    func([]FixResult)
}

// Option configures a Fixer.
type Option func(*Fixer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fixer) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithDoneHook registers fn to receive the results of every FixAsync pass.
func WithDoneHook(fn func([]FixResult)) Option {
	return func(f *Fixer) {
		f.done = fn
	}
}

// New returns a Fixer for targets, processed in order.
func New(targets []Target, opts ...Option) *Fixer {
	f := &Fixer{
		targets: targets,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FixAsync runs Fix on a new goroutine and returns immediately. The caller
// cannot observe completion unless a done hook was configured.
func (f *Fixer) FixAsync() {
	go func() {
		results := f.Fix()
		if f.done != nil {
			f.done(results)
		}
	}()
}

// Fix normalizes every target synchronously. Missing directories are
// skipped; failures are logged and reported in the results.
func (f *Fixer) Fix() []FixResult {
	var results []FixResult
	for _, t := range f.targets {
		info, err := os.Stat(t.Dir)
		if err != nil || !info.IsDir() {
			f.logger.Debug("skipping missing directory", "dir", t.Dir)
			continue
		}

		results = append(results, f.fixPath(t.Dir, info.Mode()))

		if !t.Entries {
			continue
		}
		entries, err := os.ReadDir(t.Dir)
		if err != nil {
			f.logger.Warn("listing directory", "dir", t.Dir, "error", err)
			continue
		}
		for _, e := range entries {
			p := filepath.Join(t.Dir, e.Name())
			ei, err := os.Lstat(p)
			if err != nil || ei.Mode()&fs.ModeSymlink != 0 {
				continue
			}
			results = append(results, f.fixPath(p, ei.Mode()))
		}
	}
	return results
}

func (f *Fixer) fixPath(path string, mode os.FileMode) FixResult {
	result := FixResult{Path: path}

	target := mode.Perm() | ReadExec
	if target == mode.Perm() {
		result.Description = fmt.Sprintf("already %04o", target)
		return result
	}
	if err := os.Chmod(path, target); err != nil {
		result.Description = fmt.Sprintf("failed to chmod %04o: %v", target, err)
		result.Error = errors.Wrapf(err, "chmod %04o %s", target, path)
		f.logger.Warn("fixing permissions", "path", path, "error", err)
		return result
	}

	result.Fixed = true
	result.Description = fmt.Sprintf("chmod %04o", target)
	return result
}
