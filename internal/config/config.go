// Package config provides configuration management for prefkeep using Viper.
package config

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/prefkeep/internal/backup"
	"github.com/thoreinstein/prefkeep/internal/errors"
	"github.com/thoreinstein/prefkeep/internal/paths"
)

// DefaultPackageName prefixes the primary preference file name when no
// package_name is configured.
const DefaultPackageName = "com.ceco.oreo.gravitybox"

// App picker failure policy names accepted by restore.app_picker_failure.
const (
	PolicyReportSuccess = "report-success"
	PolicyAbort         = "abort"
)

// Config represents the top-level configuration structure.
type Config struct {
	BackupRoot          string        `mapstructure:"backup_root" yaml:"backup_root"`
	DataDir             string        `mapstructure:"data_dir" yaml:"data_dir"`
	PrefsDir            string        `mapstructure:"prefs_dir" yaml:"prefs_dir,omitempty"`
	PackageName         string        `mapstructure:"package_name" yaml:"package_name"`
	LegacyPrimaryNames  []string      `mapstructure:"legacy_primary_names" yaml:"legacy_primary_names"`
	SkipPermissionCheck bool          `mapstructure:"skip_permission_check" yaml:"skip_permission_check"`
	Restore             RestoreConfig `mapstructure:"restore" yaml:"restore"`
}

// RestoreConfig holds restore-only settings.
type RestoreConfig struct {
	AppPickerFailure string `mapstructure:"app_picker_failure" yaml:"app_picker_failure"`
}

// Layout returns the application storage layout described by the config.
func (c *Config) Layout() paths.Layout {
	return paths.Layout{DataDir: c.DataDir, PackageName: c.PackageName}
}

// AppPickerPolicy maps restore.app_picker_failure to the engine policy.
// Unknown values map to the default; Validate rejects them first.
func (c *Config) AppPickerPolicy() backup.AppPickerFailurePolicy {
	if c.Restore.AppPickerFailure == PolicyAbort {
		return backup.AppPickerFailureAborts
	}
	return backup.AppPickerFailureReportsSuccess
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		BackupRoot:         paths.DefaultBackupRoot(),
		DataDir:            paths.DefaultDataDir(),
		PackageName:        DefaultPackageName,
		LegacyPrimaryNames: append([]string(nil), backup.LegacyPrimaryNames...),
		Restore:            RestoreConfig{AppPickerFailure: PolicyReportSuccess},
	}
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	// PREFKEEP_BACKUP_ROOT, PREFKEEP_RESTORE_APP_PICKER_FAILURE, ...
	viper.SetEnvPrefix("PREFKEEP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault("backup_root", d.BackupRoot)
	viper.SetDefault("data_dir", d.DataDir)
	viper.SetDefault("prefs_dir", "")
	viper.SetDefault("package_name", d.PackageName)
	viper.SetDefault("legacy_primary_names", d.LegacyPrimaryNames)
	viper.SetDefault("skip_permission_check", false)
	viper.SetDefault("restore.app_picker_failure", d.Restore.AppPickerFailure)
}

// Load reads the configuration file and validates the result.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load: defaults are fine.
		case errors.As(err, &notFound):
			return nil, errors.Mark(errors.Wrapf(err, "config file not found at %s", path), errors.ErrNotFound)
		default:
			if path != "" && errors.Is(err, fs.ErrNotExist) {
				return nil, errors.Mark(errors.Wrapf(err, "config file not found at %s", path), errors.ErrNotFound)
			}
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	cfg.BackupRoot = expandHome(cfg.BackupRoot)
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.PrefsDir = expandHome(cfg.PrefsDir)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errors.Join(errs...), "validating config"), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the config file Load read, or "" when defaults
// were used.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := paths.ResolveHome()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
