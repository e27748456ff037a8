package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up settings to the backup root",
	Long: `Copy the preference files, wallpapers, app picker items and files
directory to the backup root, replacing the previous backup.

The previous backup stops being restorable as soon as this command starts
and becomes restorable again only when every copy succeeded.`,
	Example: `  # Back up to the configured root
  prefkeep backup

  # Back up somewhere else
  PREFKEEP_BACKUP_ROOT=/mnt/usb/backup prefkeep backup

  See Also: prefkeep restore, prefkeep status`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	e := a.engine(cmd.OutOrStdout(), a.cfg.AppPickerPolicy())
	return engineError(e.Backup(cmd.Context()))
}
