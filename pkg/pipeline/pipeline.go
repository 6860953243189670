// Package pipeline provides the build pipeline for crafttable.
//
// This package implements the complete load → index → loops pipeline used by
// the CLI and by the artifact server's rebuild endpoint. By centralizing this
// logic, both entry points produce identical artifacts and diagnostics.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Discover and decode raw recipe files in parallel
//  2. Index: Normalize every recipe and write the grouped recipe index
//  3. Loops: Build the dependency graph and detect crafting loops
//
// Each stage can be run independently or as part of the complete pipeline.
// Per-recipe faults never stop a stage; they are collected as diagnostics
// and returned with the result.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    RecipesDir: "recipe",
//	    TagsDir:    "tags",
//	    LoopsPath:  "recipe_loops/loops.json",
//	}
//	result, err := runner.Execute(ctx, opts, store)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Loops.Pairs()), "loops")
//
// Run individual stages:
//
//	c, err := runner.Load(ctx, opts, sink)
//	stats, err := runner.Index(ctx, c, store, sink)
//	loops, err := runner.Loops(ctx, c, tags.NewDirLoader("tags"), opts, sink)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crafttable/pkg/corpus"
	"github.com/matzehuels/crafttable/pkg/depgraph"
	"github.com/matzehuels/crafttable/pkg/diag"
	pkgio "github.com/matzehuels/crafttable/pkg/io"
	"github.com/matzehuels/crafttable/pkg/loops"
	"github.com/matzehuels/crafttable/pkg/tags"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultRecipesDir is the raw recipe source directory.
	DefaultRecipesDir = "recipe"

	// DefaultTagsDir is the tag definition directory.
	DefaultTagsDir = "tags"

	// DefaultWorkers bounds parallel recipe reads.
	DefaultWorkers = corpus.DefaultWorkers

	// DefaultLoopsPath is where the loop table is written.
	DefaultLoopsPath = "recipe_loops/loops.json"

	// DefaultEncoding is the loop table encoding consumed by the autocrafter.
	DefaultEncoding = string(pkgio.EncodingMap)

	// DefaultFormat is the loop table file format.
	DefaultFormat = string(pkgio.FormatJSON)
)

// LoopsKey is the internal store key the loop table is mirrored under, so
// that store readers (the server, the browser) find both artifacts in one
// place. Its leading underscore keeps it out of the manifest.
const LoopsKey = "_loops"

// ValidEncodings is the set of supported loop table encodings.
var ValidEncodings = map[string]bool{
	string(pkgio.EncodingMap):   true,
	string(pkgio.EncodingPairs): true,
}

// ValidFormats is the set of supported loop table formats.
var ValidFormats = map[string]bool{
	string(pkgio.FormatJSON): true,
	string(pkgio.FormatYAML): true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the build pipeline.
type Options struct {
	// Load options
	RecipesDir string `json:"recipes_dir,omitempty"`
	Workers    int    `json:"workers,omitempty"`

	// Loop options
	TagsDir string   `json:"tags_dir,omitempty"`
	Palette []string `json:"palette,omitempty"` // nil selects the built-in colour palette
	Deep    bool     `json:"deep,omitempty"`    // also report strongly connected components

	// Output options
	LoopsPath string `json:"loops_path,omitempty"` // empty skips writing the loop table file
	Encoding  string `json:"encoding,omitempty"`
	Format    string `json:"format,omitempty"`

	// Runtime options (not serialized)
	Logger    *log.Logger `json:"-"`
	TagLoader tags.Loader `json:"-"` // overrides TagsDir

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Corpus is the loaded recipe corpus.
	Corpus *corpus.Corpus

	// Graph is the item dependency graph.
	Graph *depgraph.Graph

	// Loops is the crafting loop table.
	Loops loops.Table

	// Components holds cycles of two or more items when Options.Deep is set.
	Components [][]string

	// Diagnostics lists every fault reported during the run, in order.
	Diagnostics []diag.Diagnostic

	// Stats contains counts and timings.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Recipes     int // decoded recipe files
	Failed      int // files that could not be read or decoded
	Normalized  int
	Skipped     int // recipes skipped for a per-recipe fault
	Unsupported int // recipes of unsupported types
	Groups      int
	Deleted     int // stale groups removed from the store
	Outputs     int
	Edges       int
	LoopPairs   int

	LoadTime  time.Duration
	IndexTime time.Duration
	LoopsTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateEncoding checks that a loop table encoding is valid.
func ValidateEncoding(encoding string) error {
	if !ValidEncodings[encoding] {
		return fmt.Errorf("invalid encoding: %q (must be one of: map, pairs)", encoding)
	}
	return nil
}

// ValidateFormat checks that a loop table format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, yaml)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	if err := ValidateEncoding(o.Encoding); err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields. LoopsPath is left alone: empty means the
// caller does not want a loop table file.
func (o *Options) SetDefaults() {
	if o.RecipesDir == "" {
		o.RecipesDir = DefaultRecipesDir
	}
	if o.TagsDir == "" {
		o.TagsDir = DefaultTagsDir
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Encoding == "" {
		o.Encoding = DefaultEncoding
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Loader returns the tag loader for the options: TagLoader if set,
// otherwise a directory loader over TagsDir.
func (o *Options) Loader() tags.Loader {
	if o.TagLoader != nil {
		return o.TagLoader
	}
	return tags.NewDirLoader(o.TagsDir)
}
