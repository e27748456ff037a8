package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/prefkeep/internal/logging"
	"github.com/thoreinstein/prefkeep/internal/prefs"
)

func newStore(t *testing.T) *prefs.Store {
	t.Helper()
	s, err := prefs.Open(t.TempDir(), "com.example_preferences")
	require.NoError(t, err)
	return s
}

func TestGetOrCreate_Stable(t *testing.T) {
	m := NewManager(newStore(t), WithLogger(logging.ForTest(t)))

	first, err := m.GetOrCreate()
	require.NoError(t, err)
	second, err := m.GetOrCreate()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	_, err = uuid.Parse(first)
	assert.NoError(t, err, "identity should be a UUID")
}

func TestGetOrCreate_Persisted(t *testing.T) {
	s := newStore(t)
	id, err := NewManager(s).GetOrCreate()
	require.NoError(t, err)

	reopened, err := prefs.Open(filepath.Dir(s.BackingFilePath()), s.Name())
	require.NoError(t, err)
	got, err := NewManager(reopened).GetOrCreate()
	require.NoError(t, err)

	assert.Equal(t, id, got)
}

func TestReset_NilRegenerates(t *testing.T) {
	m := NewManager(newStore(t))

	before, err := m.GetOrCreate()
	require.NoError(t, err)

	require.NoError(t, m.Reset(nil))

	after, err := m.GetOrCreate()
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestReset_ExplicitValue(t *testing.T) {
	s := newStore(t)
	m := NewManager(s)

	id := "fixed-identity"
	require.NoError(t, m.Reset(&id))

	got, err := m.GetOrCreate()
	require.NoError(t, err)
	assert.Equal(t, "fixed-identity", got)

	v, ok := s.Get(Key)
	assert.True(t, ok)
	assert.Equal(t, "fixed-identity", v)
}

func TestWithGenerator(t *testing.T) {
	m := NewManager(newStore(t), WithGenerator(func() string { return "generated" }))

	got, err := m.GetOrCreate()
	require.NoError(t, err)
	assert.Equal(t, "generated", got)
}

func TestGetOrCreate_CommitFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prefs")
	s, err := prefs.Open(dir, "main")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dir, nil, 0o644))

	_, err = NewManager(s).GetOrCreate()
	assert.Error(t, err)
}

func TestGetOrCreate_KeepsOtherPreferences(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.xml")
	xmlData := `<map><set name="pref_qs_tiles"><string>wifi</string><string>bt</string></set>` +
		`<string name="pref_x">x</string></map>`
	require.NoError(t, os.WriteFile(path, []byte(xmlData), 0o644))

	s, err := prefs.Open(dir, "main")
	require.NoError(t, err)
	_, err = NewManager(s).GetOrCreate()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pref_qs_tiles")
	assert.Contains(t, string(data), "<string>bt</string>")
	assert.Contains(t, string(data), "pref_x")
}
