package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crafttable/pkg/diag"
	"github.com/matzehuels/crafttable/pkg/pack"
)

const defaultPackPath = "recipes.pack.json"

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	var (
		f        buildFlags
		output   string
		compress bool
	)

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Bundle raw recipes into a single JSON document",
		Long: `Bundle every raw recipe into one JSON object keyed by recipe name.

With --zstd the bundle is zstd-compressed and, unless -o is given, written
to ` + defaultPackPath + `.zst. Any unreadable recipe fails the pack.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, &f)
			opts.SetDefaults()
			if !cmd.Flags().Changed("output") && compress {
				output += ".zst"
			}
			return c.runPack(cmd, opts.RecipesDir, opts.Workers, output, compress)
		},
	}
	f.registerSource(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", defaultPackPath, "bundle file")
	cmd.Flags().BoolVar(&compress, "zstd", false, "zstd-compress the bundle")
	return cmd
}

func (c *CLI) runPack(cmd *cobra.Command, dir string, workers int, output string, compress bool) (err error) {
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(output)
		}
	}()

	sink := diag.NewCollector(c.Logger)
	res, err := pack.Pack(cmd.Context(), dir, file, pack.Options{Compress: compress, Workers: workers, Sink: sink})
	if err != nil {
		printDiagnostics(c.Out, sink.All())
		return fmt.Errorf("pack: %w", err)
	}

	printSuccess(c.Out, "Packed %s recipes (%s)",
		StyleHighlight.Render(fmt.Sprint(res.Recipes)), humanBytes(res.Bytes))
	printFile(c.Out, output)
	return nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
