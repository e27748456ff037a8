package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fixPermsCmd)
}

var fixPermsCmd = &cobra.Command{
	Use:   "fix-perms",
	Short: "Make the application's storage readable by other processes",
	Long: `Add read and execute permission for everyone to the data directory,
the cache directory, the files directory and its entries, and the app
picker directory and its entries. Missing directories are skipped and
symbolic links are left alone.`,
	Args: cobra.NoArgs,
	RunE: runFixPerms,
}

func runFixPerms(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	results := a.fixer().Fix()
	if len(results) == 0 {
		fmt.Fprintln(out, "Nothing to fix")
		return nil
	}

	failed := 0
	for _, r := range results {
		switch {
		case r.Error != nil:
			failed++
			fmt.Fprintf(out, "%s %s: %s\n", color.RedString("✗"), r.Path, r.Description)
		case r.Fixed:
			fmt.Fprintf(out, "%s %s: %s\n", color.GreenString("✓"), r.Path, r.Description)
		default:
			if verbosity > 0 {
				fmt.Fprintf(out, "%s %s: %s\n", color.New(color.FgHiBlack).Sprint("-"), r.Path, r.Description)
			}
		}
	}

	// Failures are logged by the fixer and never fail the command.
	if failed > 0 {
		a.logger.Warn("some permissions could not be fixed", "failed", failed)
	}
	return nil
}
