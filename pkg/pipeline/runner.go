package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/crafttable/pkg/corpus"
	"github.com/matzehuels/crafttable/pkg/depgraph"
	"github.com/matzehuels/crafttable/pkg/diag"
	"github.com/matzehuels/crafttable/pkg/index"
	pkgio "github.com/matzehuels/crafttable/pkg/io"
	"github.com/matzehuels/crafttable/pkg/loops"
	"github.com/matzehuels/crafttable/pkg/observability"
	"github.com/matzehuels/crafttable/pkg/recipe"
	"github.com/matzehuels/crafttable/pkg/store"
	"github.com/matzehuels/crafttable/pkg/tags"
)

// Runner executes pipeline stages.
//
// The Runner is stateless except for the logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, the default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → index → loops pipeline, writing the
// recipe index and the mirrored loop table to s and, if opts.LoopsPath is
// set, the loop table file.
func (r *Runner) Execute(ctx context.Context, opts Options, s store.Store) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", shortID(result.RunID))
	run := &Runner{Logger: logger}
	sink := diag.NewCollector(logger)

	// Stage 1: Load
	loadStart := time.Now()
	c, err := run.Load(ctx, opts, sink)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Corpus = c
	result.Stats.Recipes = c.Len()
	result.Stats.Failed = c.Failed
	result.Stats.LoadTime = time.Since(loadStart)

	// Stage 2: Index
	indexStart := time.Now()
	istats, err := run.Index(ctx, c, s, sink)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	result.Stats.Normalized = istats.Normalized
	result.Stats.Skipped = istats.Skipped
	result.Stats.Unsupported = istats.Unsupported
	result.Stats.Groups = istats.Groups
	result.Stats.Deleted = istats.Deleted
	result.Stats.IndexTime = time.Since(indexStart)

	// Stage 3: Loops
	loopsStart := time.Now()
	lr, err := run.Loops(ctx, c, opts.Loader(), opts, sink)
	if err != nil {
		return nil, fmt.Errorf("loops: %w", err)
	}
	result.Graph = lr.Graph
	result.Loops = lr.Table
	result.Components = lr.Components
	result.Stats.Outputs = lr.Graph.OutputCount()
	result.Stats.Edges = lr.Graph.EdgeCount()
	result.Stats.LoopPairs = len(lr.Table.Pairs())

	if err := writeLoops(ctx, s, lr.Table, opts); err != nil {
		return nil, fmt.Errorf("write loops: %w", err)
	}
	result.Stats.LoopsTime = time.Since(loopsStart)

	result.Diagnostics = sink.All()
	logger.Info("pipeline complete",
		"recipes", result.Stats.Recipes,
		"groups", result.Stats.Groups,
		"loops", result.Stats.LoopPairs,
		"diagnostics", len(result.Diagnostics))
	return result, nil
}

// Load discovers and decodes the recipe corpus.
func (r *Runner) Load(ctx context.Context, opts Options, sink diag.Sink) (*corpus.Corpus, error) {
	opts.SetDefaults()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.RecipesDir)

	start := time.Now()
	c, err := corpus.Load(ctx, opts.RecipesDir, corpus.Options{Workers: opts.Workers, Sink: sink})
	duration := time.Since(start)

	count := 0
	if c != nil {
		count = c.Len()
	}
	hooks.OnLoadComplete(ctx, opts.RecipesDir, count, duration, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("loaded corpus",
		"dir", opts.RecipesDir,
		"recipes", c.Len(),
		"failed", c.Failed,
		"duration", duration)
	return c, nil
}

// IndexStats summarizes the index stage.
type IndexStats struct {
	Normalized  int
	Skipped     int
	Unsupported int
	Groups      int
	Deleted     int
}

// Index normalizes every recipe in c and writes the grouped index to s.
// Recipes that fail to normalize are reported to sink and skipped.
func (r *Runner) Index(ctx context.Context, c *corpus.Corpus, s store.Store, sink diag.Sink) (IndexStats, error) {
	if sink == nil {
		sink = diag.Discard
	}
	hooks := observability.Pipeline()
	hooks.OnIndexStart(ctx, c.Len())
	start := time.Now()

	var stats IndexStats
	agg := index.NewAggregator()
	for _, def := range c.Definitions {
		if err := ctx.Err(); err != nil {
			hooks.OnIndexComplete(ctx, 0, stats.Skipped, time.Since(start), err)
			return stats, err
		}
		n, err := recipe.Normalize(def, sink)
		switch {
		case err != nil:
			stats.Skipped++
			sink.Report(diag.FromError(diag.Error, "recipe "+def.Name, err))
		case n == nil:
			stats.Unsupported++
			r.Logger.Debug("skipping unsupported recipe", "recipe", def.Name, "type", def.Type)
		default:
			if err := agg.Add(n); err != nil {
				stats.Skipped++
				sink.Report(diag.FromError(diag.Error, "recipe "+def.Name, err))
				continue
			}
			stats.Normalized++
		}
	}

	ws, err := agg.Write(ctx, s)
	stats.Groups = ws.Groups
	stats.Deleted = ws.Deleted
	duration := time.Since(start)
	hooks.OnIndexComplete(ctx, stats.Groups, stats.Skipped, duration, err)
	if err != nil {
		return stats, err
	}

	r.Logger.Info("wrote recipe index",
		"groups", stats.Groups,
		"normalized", stats.Normalized,
		"skipped", stats.Skipped,
		"stale_removed", stats.Deleted,
		"duration", duration)
	return stats, nil
}

// LoopsResult holds the outputs of the loops stage.
type LoopsResult struct {
	Graph      *depgraph.Graph
	Table      loops.Table
	Components [][]string
}

// Loops builds the dependency graph of c, expanding tags through loader,
// and detects crafting loops.
func (r *Runner) Loops(ctx context.Context, c *corpus.Corpus, loader tags.Loader, opts Options, sink diag.Sink) (*LoopsResult, error) {
	hooks := observability.Pipeline()
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dl, ok := loader.(*tags.DirLoader); ok {
		if _, err := os.Stat(dl.Dir); err != nil {
			r.Logger.Warn("tag directory not readable, tags will stay unresolved", "dir", dl.Dir)
		}
	}

	g := depgraph.Build(c.Definitions, tags.NewResolver(loader, sink))
	hooks.OnLoopsStart(ctx, g.OutputCount())

	table := loops.Detector{Palette: opts.Palette}.Detect(g)
	res := &LoopsResult{Graph: g, Table: table}
	if opts.Deep {
		res.Components = loops.Components(g)
	}

	pairs := len(table.Pairs())
	duration := time.Since(start)
	hooks.OnLoopsComplete(ctx, pairs, duration, nil)

	r.Logger.Info("detected crafting loops",
		"outputs", g.OutputCount(),
		"edges", g.EdgeCount(),
		"pairs", pairs,
		"components", len(res.Components),
		"duration", duration)
	return res, nil
}

// writeLoops mirrors the table into the store and, when configured, writes
// the loop table file.
func writeLoops(ctx context.Context, s store.Store, t loops.Table, opts Options) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := s.Write(ctx, LoopsKey, data); err != nil {
		return err
	}
	if opts.LoopsPath == "" {
		return nil
	}
	return pkgio.ExportLoops(t, opts.LoopsPath, pkgio.Encoding(opts.Encoding), pkgio.Format(opts.Format))
}

// ReadLoops loads the loop table mirrored in s by a previous run.
func ReadLoops(ctx context.Context, s store.Store) (loops.Table, error) {
	data, err := s.Read(ctx, LoopsKey)
	if err != nil {
		return nil, err
	}
	var t loops.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode loops: %w", err)
	}
	if t == nil {
		t = loops.Table{}
	}
	return t, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
