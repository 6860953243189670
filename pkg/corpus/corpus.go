// Package corpus discovers and decodes the raw recipe files of a corpus
// directory.
//
// Files are read and decoded in parallel by a bounded worker group. Each
// worker writes only its own result slot; once all workers finish, the
// slots are merged in sorted name order, so the loaded corpus and the
// diagnostics it reports are identical from run to run.
package corpus

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/crafttable/pkg/diag"
	cterrors "github.com/matzehuels/crafttable/pkg/errors"
	"github.com/matzehuels/crafttable/pkg/recipe"
)

// DefaultWorkers bounds parallel file reads when Options.Workers is unset.
const DefaultWorkers = 8

// Options configures Load.
type Options struct {
	// Workers bounds concurrent reads. Zero selects DefaultWorkers.
	Workers int
	// Sink receives a diagnostic per unreadable or undecodable file.
	Sink diag.Sink
}

// Corpus is a decoded recipe corpus.
type Corpus struct {
	Dir         string
	Definitions []*recipe.Definition // sorted by Name
	Failed      int                  // files that could not be read or decoded
}

// Len returns the number of decoded recipes.
func (c *Corpus) Len() int { return len(c.Definitions) }

// Discover lists the recipe names under dir: every "*.json" file whose name
// does not start with '_', as a slash path relative to dir without the
// extension. Hidden directories are skipped. A missing dir is
// SOURCE_NOT_FOUND.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, cterrors.Wrap(cterrors.ErrCodeSourceNotFound, err, "recipe directory %s", dir)
	}
	if !info.IsDir() {
		return nil, cterrors.New(cterrors.ErrCodeSourceNotFound, "recipe source %s is not a directory", dir)
	}

	var names []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, "_") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		names = append(names, strings.TrimSuffix(filepath.ToSlash(rel), ".json"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// Load discovers and decodes every recipe under dir. Per-file failures are
// reported to opts.Sink and counted; only a missing directory, a walk
// failure or context cancellation fail the load.
func Load(ctx context.Context, dir string, opts Options) (*Corpus, error) {
	names, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	sink := opts.Sink
	if sink == nil {
		sink = diag.Discard
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	defs := make([]*recipe.Definition, len(names))
	errs := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defs[i], errs[i] = readOne(dir, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &Corpus{Dir: dir, Definitions: make([]*recipe.Definition, 0, len(names))}
	for i, name := range names {
		if errs[i] != nil {
			c.Failed++
			sink.Report(diag.FromError(diag.Error, "recipe "+name, errs[i]))
			continue
		}
		c.Definitions = append(c.Definitions, defs[i])
	}
	return c, nil
}

func readOne(dir, name string) (*recipe.Definition, error) {
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cterrors.Wrap(cterrors.ErrCodeMissingResource, err, "recipe file vanished")
		}
		return nil, cterrors.Wrap(cterrors.ErrCodeInvalidRecipe, err, "read recipe")
	}
	return recipe.Decode(name, data)
}

// FromDefinitions wraps already decoded definitions, sorting them by name.
func FromDefinitions(defs []*recipe.Definition) *Corpus {
	sorted := slices.Clone(defs)
	slices.SortFunc(sorted, func(a, b *recipe.Definition) int { return strings.Compare(a.Name, b.Name) })
	return &Corpus{Definitions: sorted}
}
