// Package identity keeps a stable random identifier for the installation.
package identity

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/thoreinstein/prefkeep/internal/errors"
	"github.com/thoreinstein/prefkeep/internal/prefs"
)

// Key is the preference key holding the identity.
const Key = "settings_uuid"

// Store is the preference store the identity lives in.
type Store interface {
	Get(key string) (string, bool)
	Edit() *prefs.Editor
}

// Manager reads, lazily creates and resets the identity.
type Manager struct {
	store  Store
	logger *slog.Logger
	newID  func() string

	// mu makes GetOrCreate's read-generate-commit sequence atomic.
	mu sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithGenerator replaces the identifier generator.
func WithGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager returns a Manager persisting into store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetOrCreate returns the persisted identity, generating and committing a
// new one when none exists.
func (m *Manager) GetOrCreate() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.store.Get(Key); ok && id != "" {
		return id, nil
	}

	id := m.newID()
	if err := m.store.Edit().PutString(Key, id).Commit(); err != nil {
		return "", errors.Wrap(err, "persisting identity")
	}
	m.logger.Debug("identity created", "id", id)
	return id, nil
}

// Reset overwrites the identity. A nil id clears it so the next
// GetOrCreate generates a fresh one.
func (m *Manager) Reset(id *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ed := m.store.Edit()
	if id == nil {
		ed.Remove(Key)
	} else {
		ed.PutString(Key, *id)
	}
	if err := ed.Commit(); err != nil {
		return errors.Wrap(err, "resetting identity")
	}
	return nil
}
