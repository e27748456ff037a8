package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/prefkeep/internal/cli"
	"github.com/thoreinstein/prefkeep/internal/doctor"
	"github.com/thoreinstein/prefkeep/internal/errors"
)

var (
	doctorFix    bool
	doctorOutput string
	doctorAll    bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair fixable problems, then check again")
	doctorCmd.Flags().StringVarP(&doctorOutput, "output", "o", string(cli.FormatText),
		"output format: text, json")
	doctorCmd.Flags().BoolVarP(&doctorAll, "all", "a", false,
		"show every check, including passed ones")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose backup and storage problems",
	Long: `Run diagnostic checks on the backup root, the backup slot, the
preference stores and the permissions of the storage tree.

With --fix, problems that can be repaired (unreadable stores and closed
storage directories) are fixed and the checks run again.

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Show problems only
  prefkeep doctor

  # Repair what can be repaired
  prefkeep doctor --fix

  # Machine readable output
  prefkeep doctor -o json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

var (
	errDoctorWarnings = errors.New("warnings found")
	errDoctorErrors   = errors.New("errors found")
)

func runDoctor(cmd *cobra.Command, _ []string) error {
	format, err := cli.ParseFormat(doctorOutput)
	if err != nil || (format != cli.FormatText && format != cli.FormatJSON) {
		return errors.NewUserError(errors.Wrapf(cli.ErrUnknownFormat, "%q", doctorOutput), "Use one of: text, json")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	// Diagnostics must not print engine outcome lines.
	e := a.engine(io.Discard, a.cfg.AppPickerPolicy())

	targets := a.storageTargets()
	runner := doctor.NewRunner(a.logger)
	runner.AddCheck(&doctor.BackupRootCheck{Root: a.cfg.BackupRoot, Access: a.permissionChecker()})
	runner.AddCheck(&doctor.BackupStateCheck{Source: e})
	runner.AddCheck(&doctor.PreferenceStoreCheck{Dir: a.resolver.Resolve()})
	runner.AddCheck(&doctor.StorageTreeCheck{Targets: targets, Fixer: a.fixer()})

	out := cmd.OutOrStdout()
	report := runner.Run()

	if doctorFix {
		results := runner.Fix()
		if format == cli.FormatText {
			for _, r := range results {
				if r.Fixed {
					fmt.Fprintf(out, "%s %s: %s\n", color.GreenString("✓"), r.Path, r.Description)
				} else if r.Error != nil {
					fmt.Fprintf(out, "%s %s: %s\n", color.RedString("✗"), r.Path, r.Description)
				}
			}
		}
		report = runner.Run()
	}

	if format == cli.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON report")
		}
	} else {
		writeDoctorText(out, report)
	}

	switch {
	case report.HasErrors():
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	case report.HasWarnings():
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

func writeDoctorText(out io.Writer, report *doctor.Report) {
	for _, r := range report.Results {
		problem := r.Status == doctor.SeverityError || r.Status == doctor.SeverityWarning
		if !doctorAll && !problem {
			continue
		}

		fmt.Fprintf(out, "%s [%s] %s: %s\n", statusIcon(r.Status), r.Category, r.Name, r.Message)
		if problem {
			for _, d := range r.Details {
				fmt.Fprintf(out, "    %s\n", d)
			}
			if r.FixHint != "" {
				fmt.Fprintf(out, "  hint: %s\n", r.FixHint)
			}
		}
	}

	s := report.Summary
	parts := []string{
		fmt.Sprintf("%d passed", s.Passed),
		fmt.Sprintf("%d info", s.Info),
		fmt.Sprintf("%d warnings", s.Warnings),
		fmt.Sprintf("%d errors", s.Errors),
	}
	fmt.Fprintf(out, "Summary: %s\n", strings.Join(parts, ", "))
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
