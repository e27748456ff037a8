// Package prefdir locates the directory that holds every preference store.
package prefdir

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/thoreinstein/prefkeep/internal/errors"
)

// ProbeName is the throwaway store used to discover the directory.
const ProbeName = "dummy"

// Store is the part of a preference store the resolver relies on.
type Store interface {
	// SetBool writes a value and forces it to disk.
	SetBool(key string, v bool) error
	// BackingFilePath returns the file the store persists to.
	BackingFilePath() string
}

// Opener opens a named preference store.
type Opener func(name string) (Store, error)

// Resolver determines the preference directory once and caches it.
type Resolver struct {
	open     Opener
	fallback string
	logger   *slog.Logger

	once sync.Once
	dir  string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a Resolver that asks open for a probe store and falls back
// to fallback when that does not yield a directory. open may be nil, in
// which case the fallback is always used.
func New(open Opener, fallback string, opts ...Option) *Resolver {
	r := &Resolver{
		open:     open,
		fallback: fallback,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the preference directory. The first call does the work;
// later calls return the cached result.
func (r *Resolver) Resolve() string {
	r.once.Do(func() {
		dir, err := r.probe()
		if err != nil {
			r.logger.Warn("could not determine preference folder, using default",
				"fallback", r.fallback, "error", err)
			r.dir = r.fallback
			return
		}
		r.logger.Debug("preference folder resolved", "dir", dir)
		r.dir = dir
	})
	return r.dir
}

func (r *Resolver) probe() (string, error) {
	if r.open == nil {
		return "", errors.New("no store opener configured")
	}

	s, err := r.open(ProbeName)
	if err != nil {
		return "", errors.Wrap(err, "opening probe store")
	}

	if err := s.SetBool(ProbeName, false); err != nil {
		return "", errors.Wrap(err, "persisting probe store")
	}

	path := s.BackingFilePath()
	if path == "" {
		return "", errors.New("probe store reports no backing file")
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return "", errors.Wrap(err, "resolving probe directory")
	}
	return abs, nil
}
