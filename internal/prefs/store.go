package prefs

import (
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/thoreinstein/prefkeep/internal/errors"
	"github.com/thoreinstein/prefkeep/pkg/fileutil"
)

// FileExt is the extension of every store's backing file.
const FileExt = ".xml"

// WorldReadable is the permission every committed store file carries.
const WorldReadable os.FileMode = 0o644

// Store is a named key/value store backed by a single world-readable XML file.
// It is safe for concurrent use.
type Store struct {
	name   string
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]entry
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for reload diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open loads the store name from dir. A missing file yields an empty store;
// the file is created on the first Commit.
func Open(dir, name string, opts ...Option) (*Store, error) {
	if name == "" {
		return nil, errors.New("store name is required")
	}

	s := &Store{
		name:    name,
		path:    filepath.Join(dir, name+FileExt),
		logger:  slog.Default(),
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the store name.
func (s *Store) Name() string {
	return s.name
}

// BackingFilePath returns the absolute path of the file holding the store.
func (s *Store) BackingFilePath() string {
	return s.path
}

// Get returns the value stored under key in its string form. Set members
// are joined with commas.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if e.kind == kindSet {
		return strings.Join(e.items, ","), ok
	}
	return e.value, ok
}

// GetStringSet returns a copy of the string set stored under key.
func (s *Store) GetStringSet(key string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || e.kind != kindSet {
		return nil, false
	}
	return slices.Clone(e.items), true
}

// GetBool returns the boolean stored under key, or def when absent or malformed.
func (s *Store) GetBool(key string, def bool) bool {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Len returns the number of keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.entries))
}

// SetBool stores a boolean and commits immediately.
func (s *Store) SetBool(key string, v bool) error {
	return s.Edit().PutBool(key, v).Commit()
}

// Reload replaces the in-memory state with the contents of the backing file.
func (s *Store) Reload() error {
	data, err := fileutil.ReadFileWithLimit(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			data = nil
		} else {
			return errors.Wrapf(err, "loading store %s", s.name)
		}
	}

	entries, err := decode(data)
	if err != nil {
		return errors.Wrapf(err, "loading store %s", s.name)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Edit starts a batch of changes applied atomically by Editor.Commit.
func (s *Store) Edit() *Editor {
	return &Editor{store: s}
}

// commit applies ops to a copy of the current state, persists it, then
// publishes it. The in-memory state is untouched when the write fails.
func (s *Store) commit(ops []func(map[string]entry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.entries)
	for _, op := range ops {
		op(next)
	}

	data, err := encode(next)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for store %s", s.name)
	}
	if err := fileutil.AtomicWriteFile(s.path, data, WorldReadable); err != nil {
		return errors.Wrapf(err, "committing store %s", s.name)
	}

	s.entries = next
	return nil
}

// OnFileUpdated reloads the store when its backing file was rewritten by
// another writer, such as a restore.
func (s *Store) OnFileUpdated(path string) {
	if !s.owns(path) {
		return
	}
	if err := s.Reload(); err != nil {
		s.logger.Warn("reloading preference store", "store", s.name, "error", err)
		return
	}
	s.logger.Debug("preference store reloaded", "store", s.name)
}

// OnFileAttributesChanged re-asserts world readability of the backing file.
func (s *Store) OnFileAttributesChanged(path string) {
	if !s.owns(path) {
		return
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return
	}
	if mode := info.Mode().Perm(); mode&0o044 != 0o044 {
		if err := os.Chmod(s.path, mode|0o044); err != nil {
			s.logger.Warn("restoring store readability", "store", s.name, "error", err)
		}
	}
}

func (s *Store) owns(path string) bool {
	return path == filepath.Base(s.path) || path == s.path
}
