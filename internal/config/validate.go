package config

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/thoreinstein/prefkeep/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidPackage indicates package_name is not a dotted identifier.
	ErrInvalidPackage = errors.New("invalid package name")

	// ErrInvalidFileName indicates a legacy primary name is not a bare .xml file name.
	ErrInvalidFileName = errors.New("invalid preference file name")

	// ErrInvalidPolicy indicates an unknown restore.app_picker_failure value.
	ErrInvalidPolicy = errors.New("invalid app picker failure policy")
)

var packageNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)+$`)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	required := []struct {
		field, path string
	}{
		{"backup_root", cfg.BackupRoot},
		{"data_dir", cfg.DataDir},
	}
	for _, r := range required {
		if r.path == "" {
			errs = append(errs, &FieldError{Field: r.field, Value: r.path, Err: ErrInvalidPath})
			continue
		}
		if err := validatePath(r.path); err != nil {
			errs = append(errs, &FieldError{Field: r.field, Value: r.path, Err: err})
		}
	}

	if err := validatePath(cfg.PrefsDir); err != nil {
		errs = append(errs, &FieldError{Field: "prefs_dir", Value: cfg.PrefsDir, Err: err})
	}

	if !packageNameRe.MatchString(cfg.PackageName) {
		errs = append(errs, &FieldError{Field: "package_name", Value: cfg.PackageName, Err: ErrInvalidPackage})
	}

	for _, name := range cfg.LegacyPrimaryNames {
		if name != filepath.Base(name) || !strings.HasSuffix(name, ".xml") {
			errs = append(errs, &FieldError{Field: "legacy_primary_names", Value: name, Err: ErrInvalidFileName})
		}
	}

	switch cfg.Restore.AppPickerFailure {
	case PolicyReportSuccess, PolicyAbort:
	default:
		errs = append(errs, &FieldError{
			Field: "restore.app_picker_failure",
			Value: cfg.Restore.AppPickerFailure,
			Err:   ErrInvalidPolicy,
		})
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// FieldError represents an error for a specific config field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
