package prefs

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/prefkeep/internal/logging"
)

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, "tuner")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "tuner.xml"), s.BackingFilePath())
	assert.Equal(t, 0, s.Len())
	_, ok := s.Get("anything")
	assert.False(t, ok)

	_, err = os.Stat(s.BackingFilePath())
	assert.True(t, os.IsNotExist(err), "Open must not create the file")
}

func TestOpen_RequiresName(t *testing.T) {
	_, err := Open(t.TempDir(), "")
	assert.Error(t, err)
}

func TestOpen_ParsesSharedPrefsXML(t *testing.T) {
	dir := t.TempDir()
	xmlData := `<?xml version='1.0' encoding='utf-8' standalone='yes' ?>
<map>
    <string name="settings_uuid">abc-123</string>
    <boolean name="pref_statusbar_clock" value="true" />
    <int name="pref_battery_style" value="2" />
    <long name="last_seen" value="1700000000" />
    <float name="scale" value="1.5" />
    <set name="pref_qs_tiles"><string>wifi</string><string>bt</string></set>
</map>
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.xml"), []byte(xmlData), 0o600))

	s, err := Open(dir, "main")
	require.NoError(t, err)

	v, ok := s.Get("settings_uuid")
	assert.True(t, ok)
	assert.Equal(t, "abc-123", v)
	assert.True(t, s.GetBool("pref_statusbar_clock", false))
	v, _ = s.Get("pref_battery_style")
	assert.Equal(t, "2", v)
	v, _ = s.Get("scale")
	assert.Equal(t, "1.5", v)
	tiles, ok := s.GetStringSet("pref_qs_tiles")
	assert.True(t, ok)
	assert.Equal(t, []string{"wifi", "bt"}, tiles)
	v, _ = s.Get("pref_qs_tiles")
	assert.Equal(t, "wifi,bt", v)
	assert.Equal(t, 6, s.Len())
}

func TestEditor_CommitKeepsSetsAndUnknownElements(t *testing.T) {
	dir := t.TempDir()
	xmlData := `<?xml version='1.0' encoding='utf-8' standalone='yes' ?>
<map>
    <set name="pref_qs_tiles"><string>wifi</string><string>bt</string></set>
    <string name="pref_x">keep</string>
    <custom name="pref_future" flavor="mint"><item>a</item></custom>
</map>
`
	path := filepath.Join(dir, "main.xml")
	require.NoError(t, os.WriteFile(path, []byte(xmlData), 0o644))

	s, err := Open(dir, "main")
	require.NoError(t, err)
	require.NoError(t, s.Edit().PutString("settings_uuid", "id-1").Commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `<set name="pref_qs_tiles">`)
	assert.Contains(t, out, `<custom name="pref_future" flavor="mint"><item>a</item></custom>`)

	reopened, err := Open(dir, "main")
	require.NoError(t, err)
	tiles, ok := reopened.GetStringSet("pref_qs_tiles")
	require.True(t, ok)
	assert.Equal(t, []string{"wifi", "bt"}, tiles)
	v, _ := reopened.Get("pref_x")
	assert.Equal(t, "keep", v)
	v, _ = reopened.Get("settings_uuid")
	assert.Equal(t, "id-1", v)
	assert.Equal(t, 4, reopened.Len())
}

func TestEditor_PutStringSet(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "tuner")
	require.NoError(t, err)

	in := []string{"a", "b"}
	require.NoError(t, s.Edit().PutStringSet("pref_set", in).Commit())
	in[0] = "changed"

	reopened, err := Open(dir, "tuner")
	require.NoError(t, err)
	got, ok := reopened.GetStringSet("pref_set")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	_, ok = reopened.GetStringSet("missing")
	assert.False(t, ok)
}

func TestOpen_RejectsMalformedXML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.xml"), []byte("<map><string"), 0o644))

	_, err := Open(dir, "bad")
	assert.Error(t, err)
}

func TestEditor_CommitPersistsWorldReadable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shared_prefs")

	s, err := Open(dir, "ledcontrol")
	require.NoError(t, err)

	err = s.Edit().
		PutString("color", "#ff0000").
		PutBool("enabled", true).
		Commit()
	require.NoError(t, err)

	info, err := os.Stat(s.BackingFilePath())
	require.NoError(t, err)
	assert.Equal(t, WorldReadable, info.Mode().Perm())

	reopened, err := Open(dir, "ledcontrol")
	require.NoError(t, err)
	v, ok := reopened.Get("color")
	assert.True(t, ok)
	assert.Equal(t, "#ff0000", v)
	assert.True(t, reopened.GetBool("enabled", false))
}

func TestEditor_RemoveAndClear(t *testing.T) {
	s, err := Open(t.TempDir(), "quiet_hours")
	require.NoError(t, err)
	require.NoError(t, s.Edit().PutString("a", "1").PutString("b", "2").Commit())

	require.NoError(t, s.Edit().Remove("a").Commit())
	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Edit().Clear().PutString("c", "3").Commit())
	assert.Equal(t, 1, s.Len())
	v, _ := s.Get("c")
	assert.Equal(t, "3", v)
}

func TestStore_KeysSorted(t *testing.T) {
	s, err := Open(t.TempDir(), "ledcontrol")
	require.NoError(t, err)
	require.NoError(t, s.Edit().PutString("zeta", "1").PutBool("alpha", true).Commit())

	assert.Equal(t, []string{"alpha", "zeta"}, s.Keys())
}

func TestEditor_NothingVisibleBeforeCommit(t *testing.T) {
	s, err := Open(t.TempDir(), "main")
	require.NoError(t, err)

	ed := s.Edit().PutString("k", "v")
	_, ok := s.Get("k")
	assert.False(t, ok)

	require.NoError(t, ed.Commit())
	_, ok = s.Get("k")
	assert.True(t, ok)
}

func TestEditor_FailedCommitKeepsState(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shared_prefs")
	s, err := Open(dir, "main")
	require.NoError(t, err)

	// Occupy the directory path with a regular file so the commit cannot write.
	require.NoError(t, os.WriteFile(dir, nil, 0o644))

	err = s.Edit().PutString("k", "v").Commit()
	require.Error(t, err)
	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestStore_SetBool(t *testing.T) {
	s, err := Open(t.TempDir(), "dummy")
	require.NoError(t, err)

	require.NoError(t, s.SetBool("dummy", false))
	assert.False(t, s.GetBool("dummy", true))
	assert.FileExists(t, s.BackingFilePath())
}

func TestStore_OnFileUpdatedReloads(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "tuner", WithLogger(logging.ForTest(t)))
	require.NoError(t, err)

	other, err := Open(dir, "tuner")
	require.NoError(t, err)
	require.NoError(t, other.Edit().PutString("qs_tiles", "wifi,bt").Commit())

	s.OnFileUpdated("unrelated.xml")
	_, ok := s.Get("qs_tiles")
	assert.False(t, ok, "events for other files must be ignored")

	s.OnFileUpdated("tuner.xml")
	v, ok := s.Get("qs_tiles")
	assert.True(t, ok)
	assert.Equal(t, "wifi,bt", v)
}

func TestStore_OnFileAttributesChangedRestoresReadability(t *testing.T) {
	s, err := Open(t.TempDir(), "main")
	require.NoError(t, err)
	require.NoError(t, s.SetBool("x", true))
	require.NoError(t, os.Chmod(s.BackingFilePath(), 0o600))

	s.OnFileAttributesChanged("main.xml")

	info, err := os.Stat(s.BackingFilePath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s, err := Open(t.TempDir(), "main")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Edit().PutBool("flag", i%2 == 0).Commit()
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get("flag")
		}()
	}
	wg.Wait()

	_, ok := s.Get("flag")
	assert.True(t, ok)
}

func TestProvider_ReturnsSameStore(t *testing.T) {
	p := NewProvider(t.TempDir(), nil)

	a, err := p.Open("main")
	require.NoError(t, err)
	b, err := p.Open("main")
	require.NoError(t, err)
	c, err := p.Open("tuner")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}
