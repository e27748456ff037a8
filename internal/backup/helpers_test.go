package backup

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/prefkeep/internal/logging"
	"github.com/thoreinstein/prefkeep/internal/paths"
)

const testPackage = "com.example.settings"

var testPrimary = testPackage + "_preferences.xml"

type recorder struct {
	mu    sync.Mutex
	kinds []MessageKind
}

func (r *recorder) Notify(kind MessageKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
}

func (r *recorder) messages() []MessageKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]MessageKind(nil), r.kinds...)
}

type fixture struct {
	t       *testing.T
	root    string
	prefDir string
	layout  paths.Layout
	notes   *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	layout := paths.Layout{DataDir: filepath.Join(base, "data"), PackageName: testPackage}
	f := &fixture{
		t:       t,
		root:    filepath.Join(base, "backup"),
		prefDir: layout.FallbackPrefsDir(),
		layout:  layout,
		notes:   &recorder{},
	}
	return f
}

func (f *fixture) engine(opts ...Option) *Engine {
	base := []Option{
		WithNotifier(f.notes),
		WithLogger(logging.ForTest(f.t)),
		WithPermissionChecker(PermissionFunc(func() bool { return true })),
	}
	return NewEngine(f.root, f.layout, StaticDir(f.prefDir), append(base, opts...)...)
}

func (f *fixture) write(path, content string) {
	f.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		f.t.Fatal(err)
	}
}

func (f *fixture) read(path string) string {
	f.t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		f.t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// seedLive populates the live side with a full set of artifacts.
func (f *fixture) seedLive() {
	f.write(filepath.Join(f.prefDir, testPrimary), "<map />")
	f.write(filepath.Join(f.prefDir, "ledcontrol.xml"), "led")
	f.write(filepath.Join(f.prefDir, "lockwallpaper"), "wallpaper")
	f.write(filepath.Join(f.prefDir, AppPickerDirName, "shortcut.png"), "icon")
	f.write(filepath.Join(f.layout.FilesDir(), "keep.bin"), "archive")
}

// seedBackup populates the backup root as a completed backup would.
func (f *fixture) seedBackup(primary string) {
	f.write(filepath.Join(f.root, primary), "<map>backup</map>")
	f.write(filepath.Join(f.root, "tuner.xml"), "tuner")
	f.write(filepath.Join(f.root, FilesDirName, "caller_photo"), "photo")
	f.write(filepath.Join(f.root, FilesDirName, AppPickerDirName, "item.png"), "item")
	f.write(filepath.Join(f.root, FlagName), "")
}

func fileExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stat %s: %v", path, err)
	}
	return err == nil
}

// failingCopier fails every copy whose destination base name is in names.
type failingCopier struct {
	names map[string]bool
	calls []string
}

func failOn(names ...string) *failingCopier {
	c := &failingCopier{names: map[string]bool{}}
	for _, n := range names {
		c.names[n] = true
	}
	return c
}

func (c *failingCopier) Copy(src, dst string) error {
	c.calls = append(c.calls, filepath.Base(dst))
	if c.names[filepath.Base(dst)] {
		return errors.Newf("injected failure copying %s", filepath.Base(dst))
	}
	return DefaultCopier.Copy(src, dst)
}
