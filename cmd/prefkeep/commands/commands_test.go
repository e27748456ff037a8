package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/prefkeep/internal/backup"
	"github.com/thoreinstein/prefkeep/internal/cli"
	"github.com/thoreinstein/prefkeep/internal/errors"
)

const testPackage = "com.example.settings"

type testEnv struct {
	t          *testing.T
	base       string
	backupRoot string
	dataDir    string
	configPath string
	stderr     bytes.Buffer
}

func (e *testEnv) prefsDir() string {
	return filepath.Join(e.dataDir, "shared_prefs")
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	color.NoColor = true
	viper.Reset()

	base := t.TempDir()
	env := &testEnv{
		t:          t,
		base:       base,
		backupRoot: filepath.Join(base, "backup"),
		dataDir:    filepath.Join(base, "data"),
		configPath: filepath.Join(base, "config.yaml"),
	}

	cfg := "backup_root: " + env.backupRoot + "\n" +
		"data_dir: " + env.dataDir + "\n" +
		"package_name: " + testPackage + "\n" +
		"skip_permission_check: true\n"
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0o600))

	// Flag variables outlive a single Execute.
	configFile, verbosity, quiet, logFormat, logFile = "", 0, false, "text", ""
	restoreStrictAppPicker, restoreYes = false, false
	statusOutput = string(cli.FormatText)
	doctorFix, doctorOutput, doctorAll = false, string(cli.FormatText), false
	genDocDir, genDocFormat = "", "markdown"

	return env
}

// run executes the root command with stdin and returns its standard
// output. Logs go to e.stderr.
func (e *testEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	var out bytes.Buffer
	e.stderr.Reset()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&e.stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run("", args...)
	require.NoError(e.t, err, e.stderr.String())
	return out
}

func TestBackupAndRestore(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("prefs", "set", "main", "statusbar_color", "red")
	env.mustRun("prefs", "set", "tuner", "brightness_min", "10")

	out := env.mustRun("backup")
	assert.Contains(t, out, "Settings backed up successfully")
	assert.FileExists(t, filepath.Join(env.backupRoot, backup.FlagName))

	require.NoError(t, os.RemoveAll(env.dataDir))

	out = env.mustRun("restore", "--yes")
	assert.Contains(t, out, "Settings restored successfully")

	out = env.mustRun("prefs", "get", "tuner", "brightness_min")
	assert.Equal(t, "10\n", out)
	out = env.mustRun("prefs", "get", "main", "statusbar_color")
	assert.Equal(t, "red\n", out)
}

func TestBackup_MalformedPrimaryIsCopiedAsIs(t *testing.T) {
	env := newTestEnv(t)
	primary := testPackage + "_preferences.xml"
	raw := []byte(`<map><string name="a">x</map>`)
	require.NoError(t, os.MkdirAll(env.prefsDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.prefsDir(), primary), raw, 0o644))

	out, err := env.run("", "backup")
	require.NoError(t, err, env.stderr.String())
	assert.Contains(t, out, "Settings backed up successfully")

	got, err := os.ReadFile(filepath.Join(env.backupRoot, primary))
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestRestore_RecoversCorruptPrimary(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("prefs", "set", "main", "statusbar_color", "red")
	env.mustRun("backup")

	primary := filepath.Join(env.prefsDir(), testPackage+"_preferences.xml")
	require.NoError(t, os.WriteFile(primary, []byte("garbage<"), 0o644))

	out, err := env.run("", "restore", "--yes")
	require.NoError(t, err, env.stderr.String())
	assert.Contains(t, out, "Settings restored successfully")

	assert.Equal(t, "red\n", env.mustRun("prefs", "get", "main", "statusbar_color"))
}

func TestRestore_NoBackup(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("", "restore", "--yes")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backup.ErrNoBackup))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.Contains(t, out, "No settings backup found")
}

func TestRestore_Declined(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("prefs", "set", "main", "k", "before")
	env.mustRun("backup")
	env.mustRun("prefs", "set", "main", "k", "after")

	out, err := env.run("n\n", "restore")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Continue? [y/N]")
	assert.NotContains(t, out, "Settings restored")

	assert.Equal(t, "after\n", env.mustRun("prefs", "get", "main", "k"))
}

func TestBackup_MissingPrimary(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("", "backup")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backup.ErrSourceMissing))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.Contains(t, out, "No preferences found to back up")
}

func TestStatus_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("prefs", "set", "main", "k", "v")
	env.mustRun("backup")
	id := strings.TrimSpace(env.mustRun("identity", "show"))

	out := env.mustRun("status", "-o", "json")

	var report cli.StatusReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.True(t, report.Backup.Available)
	assert.False(t, report.Backup.Obsolete)
	assert.Equal(t, env.backupRoot, report.Backup.Root)
	assert.Equal(t, env.prefsDir(), report.PrefsDir)
	assert.Equal(t, id, report.Identity)
	assert.True(t, report.Backup.Artifacts[0].Present)
}

func TestStatus_UnknownFormat(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("", "status", "-o", "xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cli.ErrUnknownFormat))
}

func TestIdentity(t *testing.T) {
	env := newTestEnv(t)

	first := env.mustRun("identity", "show")
	assert.Equal(t, first, env.mustRun("identity"), "identity must be stable")

	env.mustRun("identity", "reset")
	assert.NotEqual(t, first, env.mustRun("identity", "show"))

	env.mustRun("identity", "reset", "pinned-id")
	assert.Equal(t, "pinned-id\n", env.mustRun("identity", "show"))
}

func TestFixPerms(t *testing.T) {
	env := newTestEnv(t)
	files := filepath.Join(env.dataDir, "files")
	require.NoError(t, os.MkdirAll(files, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(files, "caller_photo"), nil, 0o600))

	out := env.mustRun("fix-perms")
	assert.Contains(t, out, "caller_photo")

	info, err := os.Stat(filepath.Join(files, "caller_photo"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestDoctor_FixRepairsStorage(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("prefs", "set", "main", "k", "v")
	env.mustRun("backup")

	files := filepath.Join(env.dataDir, "files")
	require.NoError(t, os.MkdirAll(files, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(files, "caller_photo"), nil, 0o600))

	out, err := env.run("", "doctor", "--fix", "-o", "json")
	require.NoError(t, err, out)

	var report struct {
		Results []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 4)
	for _, r := range report.Results {
		assert.Equal(t, "pass", r.Status, r.Name)
	}

	info, err := os.Stat(filepath.Join(files, "caller_photo"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestDoctor_ObsoleteBackupWarns(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.backupRoot, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.backupRoot, backup.ObsoleteFlagName), nil, 0o644))

	out, err := env.run("", "doctor", "--fix")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.Contains(t, out, "older release")
	assert.Contains(t, out, "Summary:")
}

func TestDoctor_RejectsYAML(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("", "doctor", "-o", "yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cli.ErrUnknownFormat))
}

func TestConfigGet(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, testPackage+"\n", env.mustRun("config", "get", "package_name"))
	assert.Equal(t, "report-success\n", env.mustRun("config", "get", "restore.app_picker_failure"))
	assert.Equal(t, env.configPath+"\n", env.mustRun("config", "path"))
	assert.Contains(t, env.mustRun("config", "list"), "backup_root: "+env.backupRoot)
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.configPath, []byte("package_name: nodots\n"), 0o600))

	_, err := env.run("", "status")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	// version needs no configuration
	_, err = env.run("", "version")
	assert.NoError(t, err)
}

func TestPrefsGet_MissingKey(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("", "prefs", "get", "tuner", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestQuietAndVerboseConflict(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("", "-q", "-v", "status")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("version")
	assert.True(t, strings.HasPrefix(out, "prefkeep version "), out)
	assert.Contains(t, out, "commit:")
}

func TestGenDoc_Markdown(t *testing.T) {
	env := newTestEnv(t)
	dir := filepath.Join(env.base, "docs")

	env.mustRun("gen-doc", "--dir", dir)

	data, err := os.ReadFile(filepath.Join(dir, "prefkeep_backup.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\ntitle: backup\n"), string(data))
	assert.FileExists(t, filepath.Join(dir, "prefkeep_doctor.md"))
}

func TestGenDoc_RequiresDir(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("", "gen-doc")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}
