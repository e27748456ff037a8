package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prefkeep/internal/editor"
	"github.com/thoreinstein/prefkeep/internal/errors"
	"github.com/thoreinstein/prefkeep/internal/prefs"
)

func init() {
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsEditCmd)
	rootCmd.AddCommand(prefsCmd)
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Read and change preference stores",
	Long: `Read and change the XML preference stores in the preference directory.

<store> is a store name without extension; "main" selects the primary
store (<package_name>_preferences).`,
	Example: `  # Dump the primary store
  prefkeep prefs get main

  # Change one value
  prefkeep prefs set tuner brightness_min 10`,
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <store> [key]",
	Short: "Print one value or every key=value pair",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <store> <key> <value>",
	Short: "Store a string value and commit",
	Args:  cobra.ExactArgs(3),
	RunE:  runPrefsSet,
}

var prefsEditCmd = &cobra.Command{
	Use:   "edit <store>",
	Short: "Open a store's XML file in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsEdit,
}

// openStore opens a store by name, mapping "main" to the primary store.
func (a *app) openStore(name string) (*prefs.Store, error) {
	if name == "main" {
		name = a.layout.MainPrefsName()
	}
	name = strings.TrimSuffix(name, prefs.FileExt)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, errors.NewUserError(errors.Newf("invalid store name %q", name), "Use a bare store name such as tuner")
	}
	s, err := a.provider.Open(name)
	if err != nil {
		return nil, errors.NewSystemError(err, "Check the preference file is well-formed")
	}
	return s, nil
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	s, err := a.openStore(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 2 {
		v, ok := s.Get(args[1])
		if !ok {
			return errors.NewUserError(errors.Mark(errors.Newf("key %q not set", args[1]), errors.ErrNotFound), "")
		}
		fmt.Fprintln(out, v)
		return nil
	}

	for _, k := range s.Keys() {
		v, _ := s.Get(k)
		fmt.Fprintf(out, "%s=%s\n", k, v)
	}
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	s, err := a.openStore(args[0])
	if err != nil {
		return err
	}

	if err := s.Edit().PutString(args[1], args[2]).Commit(); err != nil {
		return errors.NewSystemError(err, "Check the preference directory is writable")
	}
	a.logger.Info("preference stored", "store", s.Name(), "key", args[1])
	return nil
}

func runPrefsEdit(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	s, err := a.openStore(args[0])
	if err != nil {
		return err
	}

	// An empty store has no file yet; commit one so there is something to edit.
	if s.Len() == 0 {
		if err := s.Edit().Commit(); err != nil {
			return errors.NewSystemError(err, "Check the preference directory is writable")
		}
	}

	if err := editor.Open(cmd.Context(), s.BackingFilePath(), cmd.ErrOrStderr()); err != nil {
		return err
	}
	return errors.Wrap(s.Reload(), "reloading edited store")
}
