package prefdir

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/prefkeep/internal/errors"
	"github.com/thoreinstein/prefkeep/internal/logging"
	"github.com/thoreinstein/prefkeep/internal/prefs"
)

type fakeStore struct {
	path      string
	commitErr error
}

func (f *fakeStore) SetBool(string, bool) error { return f.commitErr }
func (f *fakeStore) BackingFilePath() string    { return f.path }

func TestResolve_UsesProbeStoreDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shared_prefs")
	provider := prefs.NewProvider(dir, logging.ForTest(t))

	r := New(func(name string) (Store, error) {
		return provider.Open(name)
	}, "/unused/fallback", WithLogger(logging.ForTest(t)))

	assert.Equal(t, dir, r.Resolve())
	assert.FileExists(t, filepath.Join(dir, "dummy.xml"), "probe store must be persisted")
}

func TestResolve_FallsBack(t *testing.T) {
	const fallback = "/data/app/shared_prefs"

	tests := []struct {
		name string
		open Opener
	}{
		{"nil opener", nil},
		{"open error", func(string) (Store, error) { return nil, errors.New("unsupported") }},
		{"commit error", func(string) (Store, error) {
			return &fakeStore{path: "/x/dummy.xml", commitErr: errors.New("read-only")}, nil
		}},
		{"empty backing path", func(string) (Store, error) { return &fakeStore{}, nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.open, fallback, WithLogger(logging.ForTest(t)))
			assert.Equal(t, fallback, r.Resolve())
		})
	}
}

func TestResolve_CachesResult(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	r := New(func(string) (Store, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return &fakeStore{path: "/prefs/dummy.xml"}, nil
	}, "/fallback", WithLogger(logging.ForTest(t)))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "/prefs", r.Resolve())
		}()
	}
	wg.Wait()

	require.Equal(t, 1, calls)
}
