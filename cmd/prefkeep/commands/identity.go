package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prefkeep/internal/errors"
)

func init() {
	identityCmd.AddCommand(identityShowCmd)
	identityCmd.AddCommand(identityResetCmd)
	rootCmd.AddCommand(identityCmd)
}

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Manage the installation identity",
	Long: `Manage the random identifier stored under settings_uuid in the main
preference store. Restores leave a uuid_<identity> marker in the files
directory so post-restore tasks can recognise the installation.

Without a subcommand, shows the identity.`,
	RunE: runIdentityShow,
}

var identityShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the identity, creating it when missing",
	Args:  cobra.NoArgs,
	RunE:  runIdentityShow,
}

var identityResetCmd = &cobra.Command{
	Use:   "reset [value]",
	Short: "Remove the identity or set it to value",
	Long: `Without an argument the identity is removed and a new one is generated
on next use. With an argument the identity is set to that value.`,
	Example: `  # Forget the identity
  prefkeep identity reset

  # Pin a known identity
  prefkeep identity reset 2f1c6a2e-0d7b-4a57-9a43-3d2b8f0c1e55`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIdentityReset,
}

func runIdentityShow(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	m, err := a.identity()
	if err != nil {
		return err
	}

	id, err := m.GetOrCreate()
	if err != nil {
		return errors.NewSystemError(err, "Check the preference directory is writable")
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runIdentityReset(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	m, err := a.identity()
	if err != nil {
		return err
	}

	var id *string
	if len(args) == 1 {
		if args[0] == "" {
			return errors.NewUserError(errors.New("empty identity"), "Omit the value to remove the identity")
		}
		id = &args[0]
	}

	if err := m.Reset(id); err != nil {
		return errors.NewSystemError(err, "Check the preference directory is writable")
	}

	if id == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Identity removed")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Identity set to %s\n", *id)
	}
	return nil
}
