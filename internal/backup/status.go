package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

// Status describes the backup slot as found on disk.
type Status struct {
	Root      string           `json:"root" yaml:"root" toml:"root"`
	Available bool             `json:"available" yaml:"available" toml:"available"`
	Obsolete  bool             `json:"obsolete" yaml:"obsolete" toml:"obsolete"`
	CreatedAt *time.Time       `json:"created_at,omitempty" yaml:"created_at,omitempty" toml:"created_at,omitempty"`
	Artifacts []ArtifactStatus `json:"artifacts" yaml:"artifacts" toml:"artifacts"`
	AppPicker []string         `json:"app_picker,omitempty" yaml:"app_picker,omitempty" toml:"app_picker,omitempty"`
}

// ArtifactStatus describes one manifest entry inside the backup root.
type ArtifactStatus struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Class    string `json:"class" yaml:"class" toml:"class"`
	Required bool   `json:"required" yaml:"required" toml:"required"`
	Present  bool   `json:"present" yaml:"present" toml:"present"`

	// Source is the file actually found when it differs from Name, which
	// happens for primary preferences saved under a legacy name.
	Source string `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Size   int64  `json:"size,omitempty" yaml:"size,omitempty" toml:"size,omitempty"`
	SHA256 string `json:"sha256,omitempty" yaml:"sha256,omitempty" toml:"sha256,omitempty"`
}

// Status inspects the backup root without modifying it.
func (e *Engine) Status() (*Status, error) {
	s := &Status{
		Root:      e.root,
		Available: e.IsBackupAvailable(),
		Obsolete:  e.IsBackupObsolete(),
	}

	if info, err := os.Stat(e.FlagPath()); err == nil {
		t := info.ModTime()
		s.CreatedAt = &t
	}

	for _, a := range e.manifest {
		as := ArtifactStatus{
			Name:     a.Name,
			Class:    a.Class.String(),
			Required: a.Required,
		}

		path := e.artifactPath(a.Name, a.Class)
		if a.Required {
			path = e.locatePrimary(a)
		}
		if path != "" && exists(path) {
			info, err := os.Stat(path)
			if err != nil {
				return nil, errors.Wrapf(err, "stat %s", path)
			}
			hash, err := hashFile(path)
			if err != nil {
				return nil, err
			}
			as.Present = true
			as.Size = info.Size()
			as.SHA256 = hash
			if base := filepath.Base(path); base != a.Name {
				as.Source = base
			}
		}
		s.Artifacts = append(s.Artifacts, as)
	}

	entries, err := os.ReadDir(e.appPickerBackupDir())
	if err == nil {
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				s.AppPicker = append(s.AppPicker, entry.Name())
			}
		}
	}

	return s, nil
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
