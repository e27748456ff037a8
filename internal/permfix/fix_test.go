package permfix

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/prefkeep/internal/logging"
)

func mode(t *testing.T, path string) os.FileMode {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Mode().Perm()
}

func TestFix_AddsReadExec(t *testing.T) {
	root := t.TempDir()
	files := filepath.Join(root, "files")
	require.NoError(t, os.Mkdir(files, 0o700))
	wallpaper := filepath.Join(files, "lockwallpaper")
	require.NoError(t, os.WriteFile(wallpaper, []byte("img"), 0o600))
	require.NoError(t, os.Chmod(root, 0o700))

	f := New([]Target{
		{Dir: root},
		{Dir: files, Entries: true},
	}, WithLogger(logging.ForTest(t)))

	results := f.Fix()

	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.Fixed, "%s: %s", r.Path, r.Description)
		assert.NoError(t, r.Error)
	}
	assert.Equal(t, os.FileMode(0o755), mode(t, root))
	assert.Equal(t, os.FileMode(0o755), mode(t, files))
	assert.Equal(t, os.FileMode(0o755), mode(t, wallpaper))
}

func TestFix_DirectoryOnlyTargetLeavesEntries(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "secret")
	require.NoError(t, os.WriteFile(child, nil, 0o600))

	results := New([]Target{{Dir: root}}).Fix()

	require.Len(t, results, 1)
	assert.Equal(t, os.FileMode(0o600), mode(t, child))
}

func TestFix_SkipsMissingDirectories(t *testing.T) {
	root := t.TempDir()

	results := New([]Target{
		{Dir: filepath.Join(root, "cache")},
		{Dir: filepath.Join(root, "shared_prefs", "app_picker"), Entries: true},
		{Dir: root},
	}, WithLogger(logging.ForTest(t))).Fix()

	require.Len(t, results, 1)
	assert.Equal(t, root, results[0].Path)
}

func TestFixAsync_RunsInBackground(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Chmod(root, 0o700))

	done := make(chan []FixResult, 1)
	New([]Target{{Dir: root}}, WithDoneHook(func(r []FixResult) { done <- r })).FixAsync()

	select {
	case results := <-done:
		require.Len(t, results, 1)
		assert.True(t, results[0].Fixed)
	case <-time.After(5 * time.Second):
		t.Fatal("FixAsync did not complete")
	}
	assert.Equal(t, os.FileMode(0o755), mode(t, root))
}

func TestFix_AlreadyReadableIsUnchanged(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Chmod(root, 0o755))

	results := New([]Target{{Dir: root}}).Fix()

	require.Len(t, results, 1)
	assert.False(t, results[0].Fixed)
	assert.NoError(t, results[0].Error)
	assert.Equal(t, "already 0755", results[0].Description)
}
