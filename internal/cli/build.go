package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crafttable/pkg/diag"
	pkgio "github.com/matzehuels/crafttable/pkg/io"
	"github.com/matzehuels/crafttable/pkg/loops"
	"github.com/matzehuels/crafttable/pkg/pipeline"
)

// buildFlags holds the flags shared by index, loops and build. Unset flags
// fall back to the config file.
type buildFlags struct {
	recipes  string
	tags     string
	workers  int
	loops    string
	encoding string
	format   string
	deep     bool
}

func (f *buildFlags) registerSource(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.recipes, "recipes", pipeline.DefaultRecipesDir, "raw recipe directory")
	cmd.Flags().IntVar(&f.workers, "workers", pipeline.DefaultWorkers, "parallel recipe reads")
}

func (f *buildFlags) registerLoops(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tags, "tags", pipeline.DefaultTagsDir, "tag definition directory")
	cmd.Flags().StringVarP(&f.loops, "output", "o", pipeline.DefaultLoopsPath, "loop table file (- for stdout)")
	cmd.Flags().StringVar(&f.encoding, "encoding", pipeline.DefaultEncoding, "loop table encoding: map, pairs")
	cmd.Flags().StringVar(&f.format, "format", pipeline.DefaultFormat, "loop table format: json, yaml")
	cmd.Flags().BoolVar(&f.deep, "deep", false, "also report cycles longer than two items")
}

// indexCommand creates the index command.
func (c *CLI) indexCommand() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Normalize recipes and write the recipe index",
		Long: `Normalize every supported recipe and write one group per output item, plus a
manifest of all groups, to the configured store.

Recipes that cannot be normalized are reported and skipped. Groups left over
from earlier runs whose output no longer has recipes are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, &f)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runIndex(cmd.Context(), opts)
		},
	}
	f.registerSource(cmd)
	return cmd
}

func (c *CLI) runIndex(ctx context.Context, opts pipeline.Options) error {
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	runner := c.newRunner()
	sink := diag.NewCollector(c.Logger)
	prog := newProgress(c.Logger)

	spinner := newSpinner(ctx, os.Stderr, "Loading recipes...")
	spinner.Start()
	corp, err := runner.Load(ctx, opts, sink)
	if err != nil {
		spinner.StopWithError(c.Out, "Load failed")
		return err
	}
	spinner.Update("Writing index...")
	stats, err := runner.Index(ctx, corp, s, sink)
	if err != nil {
		spinner.StopWithError(c.Out, "Index failed")
		return fmt.Errorf("index: %w", err)
	}
	spinner.Stop()
	prog.done("indexed recipes")

	printSuccess(c.Out, "Indexed %s recipes into %s groups",
		StyleHighlight.Render(fmt.Sprint(stats.Normalized)), StyleHighlight.Render(fmt.Sprint(stats.Groups)))
	printCounts(c.Out, 0,
		"skipped", stats.Skipped,
		"unsupported", stats.Unsupported,
		"unreadable", corp.Failed,
		"stale removed", stats.Deleted)
	printDiagnostics(c.Out, sink.All())
	return nil
}

// loopsCommand creates the loops command.
func (c *CLI) loopsCommand() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "loops",
		Short: "Detect crafting loops and write the loop table",
		Long: `Build the item dependency graph, expanding tag references through the tag
directory, and write every pair of items that can each be crafted from the
other.

Pairs whose items both carry a dye colour are left out, since coloured
variants convert into each other by design of the game data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, &f)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runLoops(cmd.Context(), opts)
		},
	}
	f.registerSource(cmd)
	f.registerLoops(cmd)
	return cmd
}

func (c *CLI) runLoops(ctx context.Context, opts pipeline.Options) error {
	runner := c.newRunner()
	sink := diag.NewCollector(c.Logger)

	spinner := newSpinner(ctx, os.Stderr, "Loading recipes...")
	spinner.Start()
	corp, err := runner.Load(ctx, opts, sink)
	if err != nil {
		spinner.StopWithError(c.Out, "Load failed")
		return err
	}
	spinner.Update("Detecting loops...")
	res, err := runner.Loops(ctx, corp, opts.Loader(), opts, sink)
	if err != nil {
		spinner.StopWithError(c.Out, "Loop detection failed")
		return fmt.Errorf("loops: %w", err)
	}
	spinner.Stop()

	if err := c.writeTable(res.Table, opts); err != nil {
		return err
	}
	printCounts(c.Out, 0,
		"outputs", res.Graph.OutputCount(),
		"edges", res.Graph.EdgeCount(),
		"loop pairs", len(res.Table.Pairs()))
	printComponents(c, res.Components)
	printDiagnostics(c.Out, sink.All())
	return nil
}

// writeTable writes the loop table to opts.LoopsPath, or to Out for "-".
func (c *CLI) writeTable(t loops.Table, opts pipeline.Options) error {
	enc, f := pkgio.Encoding(opts.Encoding), pkgio.Format(opts.Format)
	if opts.LoopsPath == "-" {
		return pkgio.WriteLoops(t, c.Out, enc, f)
	}
	if err := pkgio.ExportLoops(t, opts.LoopsPath, enc, f); err != nil {
		return fmt.Errorf("write loop table: %w", err)
	}
	printSuccess(c.Out, "Found %s crafting loops", StyleHighlight.Render(fmt.Sprint(len(t.Pairs())/2)))
	printFile(c.Out, opts.LoopsPath)
	return nil
}

func printComponents(c *CLI, comps [][]string) {
	if len(comps) == 0 {
		return
	}
	printInfo(c.Out, "%d dependency cycles", len(comps))
	for _, comp := range comps {
		printDetail(c.Out, "%s", strings.Join(comp, " ⇄ "))
	}
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the recipe index and the loop table in one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, &f)
			if opts.LoopsPath == "-" {
				return fmt.Errorf("build writes the loop table to a file; use 'loops -o -' for stdout")
			}
			return c.runBuild(cmd.Context(), opts)
		},
	}
	f.registerSource(cmd)
	f.registerLoops(cmd)
	return cmd
}

func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options) error {
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	spinner := newSpinner(ctx, os.Stderr, "Building artifacts...")
	spinner.Start()
	res, err := c.newRunner().Execute(ctx, opts, s)
	if err != nil {
		spinner.StopWithError(c.Out, "Build failed")
		return err
	}
	spinner.Stop()

	st := res.Stats
	printSuccess(c.Out, "Built %s groups and %s crafting loops",
		StyleHighlight.Render(fmt.Sprint(st.Groups)), StyleHighlight.Render(fmt.Sprint(st.LoopPairs/2)))
	if opts.LoopsPath != "" {
		printFile(c.Out, opts.LoopsPath)
	}
	printKeyValue(c.Out, "run", res.RunID)
	printCounts(c.Out, st.LoadTime+st.IndexTime+st.LoopsTime,
		"recipes", st.Recipes,
		"skipped", st.Skipped,
		"unsupported", st.Unsupported,
		"stale removed", st.Deleted)
	printComponents(c, res.Components)
	printDiagnostics(c.Out, res.Diagnostics)
	printNextStep(c.Out, "Serve the artifacts", appName+" serve")
	return nil
}
