package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/prefkeep/internal/backup"
)

// Format specifies the output format for status reports.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported output formats.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatTOML)}
}

// ParseFormat validates s as an output format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if strings.EqualFold(s, f) {
			return Format(f), nil
		}
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q (valid: %s)", s, strings.Join(Formats(), ", "))
}

// StatusReport is everything the status command shows.
type StatusReport struct {
	PrefsDir string         `json:"prefs_dir" yaml:"prefs_dir" toml:"prefs_dir"`
	Identity string         `json:"identity,omitempty" yaml:"identity,omitempty" toml:"identity,omitempty"`
	Backup   *backup.Status `json:"backup" yaml:"backup" toml:"backup"`
}

// Reporter formats and writes status reports.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the report to the output.
func (r *Reporter) Report(report *StatusReport) error {
	if report == nil || report.Backup == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		encoder := json.NewEncoder(r.out)
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(report), "encoding JSON report")
	case FormatYAML:
		encoder := yaml.NewEncoder(r.out)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return errors.Wrap(err, "encoding YAML report")
		}
		return errors.Wrap(encoder.Close(), "encoding YAML report")
	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(r.out).Encode(report), "encoding TOML report")
	default:
		r.reportText(report)
		return nil
	}
}

func (r *Reporter) reportText(report *StatusReport) {
	s := report.Backup
	dim := color.New(color.FgHiBlack).SprintFunc()

	switch {
	case s.Available:
		line := color.GreenString("✓ Backup available")
		if s.CreatedAt != nil {
			line += " " + dim("("+s.CreatedAt.Format("2006-01-02 15:04:05")+")")
		}
		fmt.Fprintln(r.out, line)
	case s.Obsolete:
		fmt.Fprintln(r.out, color.YellowString("! Only a backup from an older release exists"))
	default:
		fmt.Fprintln(r.out, color.RedString("✗ No backup available"))
	}

	fmt.Fprintf(r.out, "  Backup root:  %s\n", s.Root)
	fmt.Fprintf(r.out, "  Preferences:  %s\n", report.PrefsDir)
	if report.Identity != "" {
		fmt.Fprintf(r.out, "  Identity:     %s\n", report.Identity)
	}
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, "Artifacts:")
	for _, a := range s.Artifacts {
		mark := dim("-")
		if a.Present {
			mark = color.GreenString("✓")
		} else if a.Required {
			mark = color.RedString("✗")
		}

		var sb strings.Builder
		sb.WriteString("  ")
		sb.WriteString(mark)
		sb.WriteString(" ")
		sb.WriteString(a.Name)
		if a.Source != "" {
			sb.WriteString(dim(" (from " + a.Source + ")"))
		}
		if a.Present {
			sb.WriteString(dim(fmt.Sprintf(" [%d bytes]", a.Size)))
		}
		fmt.Fprintln(r.out, sb.String())
	}

	if len(s.AppPicker) > 0 {
		fmt.Fprintf(r.out, "\nApp picker items: %d\n", len(s.AppPicker))
	}
}
