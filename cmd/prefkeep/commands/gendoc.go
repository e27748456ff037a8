package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/prefkeep/internal/errors"
)

var (
	genDocDir    string
	genDocFormat string
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runGenDoc,
}

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory for documentation")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "documentation format: markdown, man")
	rootCmd.AddCommand(genDocCmd)
}

func runGenDoc(cmd *cobra.Command, _ []string) error {
	if genDocDir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "Pass --dir")
	}
	if err := os.MkdirAll(genDocDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	var err error
	switch genDocFormat {
	case "markdown":
		err = doc.GenMarkdownTreeCustom(root, genDocDir, docFrontMatter, docLink)
	case "man":
		err = doc.GenManTree(root, &doc.GenManHeader{Title: "PREFKEEP", Section: "1"}, genDocDir)
	default:
		return errors.NewUserError(errors.Newf("unknown documentation format %q", genDocFormat), "Use markdown or man")
	}
	if err != nil {
		return errors.Wrapf(err, "generating %s", genDocFormat)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Documentation generated in %s\n", genDocDir)
	return nil
}

type docMeta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// docFrontMatter prefixes each page with YAML front matter. The title of
// prefkeep_backup.md is "backup".
func docFrontMatter(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(strings.TrimPrefix(base, "prefkeep_"), "_", " ")
	if base == "prefkeep" {
		title = "prefkeep"
	}

	data, err := yaml.Marshal(docMeta{Title: title, Description: "Reference for " + title})
	if err != nil {
		return ""
	}
	return "---\n" + string(data) + "---\n"
}

func docLink(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + "/"
}
