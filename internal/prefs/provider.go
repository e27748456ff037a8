package prefs

import (
	"log/slog"
	"sync"
)

// Provider opens stores that all live in one directory and hands out a
// single *Store per name.
type Provider struct {
	dir    string
	logger *slog.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

// NewProvider returns a Provider rooted at dir.
func NewProvider(dir string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{dir: dir, logger: logger, stores: make(map[string]*Store)}
}

// Open returns the store called name, loading it on first use.
func (p *Provider) Open(name string) (*Store, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.stores[name]; ok {
		return s, nil
	}
	s, err := Open(p.dir, name, WithLogger(p.logger))
	if err != nil {
		return nil, err
	}
	p.stores[name] = s
	return s, nil
}
