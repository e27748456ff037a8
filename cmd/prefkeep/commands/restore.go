package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/prefkeep/internal/backup"
	"github.com/thoreinstein/prefkeep/internal/cli/prompt"
	"github.com/thoreinstein/prefkeep/internal/errors"
)

var (
	restoreStrictAppPicker bool
	restoreYes             bool
)

func init() {
	restoreCmd.Flags().BoolVar(&restoreStrictAppPicker, "strict-app-picker", false,
		"fail the restore when an app picker item cannot be copied")
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false,
		"do not ask for confirmation")
	rootCmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore settings from the backup root",
	Long: `Copy a completed backup back over the current settings.

The primary preference file is also found under the names used by older
releases and is restored under the current name. Restored files are made
world readable.

By default an app picker item that fails to copy stops the restore but is
still reported as success, as earlier releases did. Use
--strict-app-picker (or restore.app_picker_failure: abort) to fail instead.`,
	Example: `  # Restore after confirming
  prefkeep restore

  # Restore without prompting, failing on app picker errors
  prefkeep restore -y --strict-app-picker

  See Also: prefkeep backup, prefkeep status`,
	Args: cobra.NoArgs,
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	policy := a.cfg.AppPickerPolicy()
	if restoreStrictAppPicker {
		policy = backup.AppPickerFailureAborts
	}

	e := a.engine(cmd.OutOrStdout(), policy)

	if !restoreYes && e.IsBackupAvailable() {
		c := prompt.NewConfirmerWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
		ok, err := c.Confirm("Current settings will be overwritten. Continue?", false)
		if err != nil {
			return errors.NewUserError(err, "Pass --yes to skip the prompt")
		}
		if !ok {
			a.logger.Info("restore cancelled")
			return nil
		}
	}

	return engineError(e.Restore(cmd.Context()))
}
