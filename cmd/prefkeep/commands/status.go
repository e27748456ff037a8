package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prefkeep/internal/cli"
	"github.com/thoreinstein/prefkeep/internal/errors"
	"github.com/thoreinstein/prefkeep/internal/identity"
)

var statusOutput string

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", string(cli.FormatText),
		"output format: "+strings.Join(cli.Formats(), ", "))
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the backup slot",
	Long: `Show whether a completed backup exists, whether only a backup from an
older release exists, where settings live and which artifacts the backup
holds, with their sizes and SHA-256 checksums.

The backup root is not modified. The identity is shown only when one was
already created.`,
	Example: `  # Human readable summary
  prefkeep status

  # Machine readable output
  prefkeep status -o json
  prefkeep status -o yaml
  prefkeep status -o toml`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	format, err := cli.ParseFormat(statusOutput)
	if err != nil {
		return errors.NewUserError(err, "Use one of: "+strings.Join(cli.Formats(), ", "))
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	e := a.engine(cmd.ErrOrStderr(), a.cfg.AppPickerPolicy())

	s, err := e.Status()
	if err != nil {
		return errors.NewSystemError(err, "Check the backup root is readable")
	}

	report := &cli.StatusReport{
		PrefsDir: a.resolver.Resolve(),
		Backup:   s,
	}
	if main, err := a.mainStore(); err == nil {
		report.Identity, _ = main.Get(identity.Key)
	}

	return cli.NewReporter(cmd.OutOrStdout(), format).Report(report)
}
