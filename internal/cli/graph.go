package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crafttable/pkg/diag"
	pkgio "github.com/matzehuels/crafttable/pkg/io"
	"github.com/matzehuels/crafttable/pkg/pipeline"
	"github.com/matzehuels/crafttable/pkg/render"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		f      buildFlags
		output string
		svg    bool
		asJSON bool
		ropts  render.Options
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the item dependency graph as DOT, SVG or JSON",
		Long: `Export the item dependency graph. Edges run from an output item to each of
its inputs; crafting loop edges are highlighted.

The default output is Graphviz DOT. --svg renders it in-process; --json
writes a node and edge list instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if svg && asJSON {
				return fmt.Errorf("--svg and --json are mutually exclusive")
			}
			opts := c.pipelineOptions(cmd, &f)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner := c.newRunner()
			sink := diag.NewCollector(c.Logger)
			corp, err := runner.Load(cmd.Context(), opts, sink)
			if err != nil {
				return err
			}
			res, err := runner.Loops(cmd.Context(), corp, opts.Loader(), opts, sink)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			switch {
			case asJSON:
				err = pkgio.WriteGraph(res.Graph, &buf)
			case svg:
				var data []byte
				data, err = render.RenderSVG(cmd.Context(), render.ToDOT(res.Graph, res.Table, ropts))
				buf.Write(data)
			default:
				buf.WriteString(render.ToDOT(res.Graph, res.Table, ropts))
			}
			if err != nil {
				return fmt.Errorf("render graph: %w", err)
			}
			return c.writeOutput(output, buf.Bytes())
		},
	}
	f.registerSource(cmd)
	cmd.Flags().StringVar(&f.tags, "tags", pipeline.DefaultTagsDir, "tag definition directory")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG with Graphviz")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write a JSON node/edge list")
	cmd.Flags().BoolVar(&ropts.LoopsOnly, "loops-only", false, "only items in crafting loops")
	cmd.Flags().BoolVar(&ropts.Detailed, "detailed", false, "add input and dependent counts to labels")
	return cmd
}

// writeOutput writes data to path, or to Out when path is empty.
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printSuccess(c.Out, "Wrote graph")
	printFile(c.Out, path)
	return nil
}
