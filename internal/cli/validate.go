package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crafttable/pkg/corpus"
	"github.com/matzehuels/crafttable/pkg/errors"
	"github.com/matzehuels/crafttable/pkg/schema"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		f          buildFlags
		showSchema bool
	)

	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check raw recipes against the recipe schema",
		Long: `Check raw recipe files against the bundled JSON schema. Without arguments
every recipe in the recipe directory is checked.

Schema checks are stricter than indexing: the indexer skips what it cannot
use, while validate reports it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showSchema {
				_, err := fmt.Fprint(c.Out, schema.Source())
				return err
			}
			opts := c.pipelineOptions(cmd, &f)
			opts.SetDefaults()
			return c.runValidate(opts.RecipesDir, args)
		},
	}
	f.registerSource(cmd)
	cmd.Flags().BoolVar(&showSchema, "schema", false, "print the recipe schema and exit")
	return cmd
}

func (c *CLI) runValidate(dir string, files []string) error {
	if len(files) == 0 {
		names, err := corpus.Discover(dir)
		if err != nil {
			return err
		}
		for _, name := range names {
			files = append(files, filepath.Join(dir, filepath.FromSlash(name)+".json"))
		}
	}

	invalid := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := schema.Validate(data); err != nil {
			invalid++
			printError(c.Out, "%s", path)
			violations := schema.Violations(err)
			if len(violations) == 0 {
				printDetail(c.Out, "%s", errors.UserMessage(err))
			}
			for _, v := range violations {
				printDetail(c.Out, "%s", v)
			}
			continue
		}
		c.Logger.Debug("valid", "file", path)
	}

	if invalid > 0 {
		return errors.New(errors.ErrCodeInvalidRecipe, "%d of %d recipes failed validation", invalid, len(files))
	}
	printSuccess(c.Out, "%s recipes valid", StyleHighlight.Render(fmt.Sprint(len(files))))
	return nil
}
