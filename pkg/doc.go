// Package pkg provides the core libraries for crafttable.
//
// # Overview
//
// Crafttable turns a directory of raw crafting recipe files into the two
// artifacts an autocrafter consumes: a recipe index grouped by output item
// and a table of crafting loops. The pkg directory is organized into:
//
//  1. Domain: [item], [tags], [ingredient], [recipe], [depgraph], [loops]
//  2. Artifacts: [index], [io], [pack], [schema], [render]
//  3. Infrastructure: [corpus], [store], [config], [diag], [errors], [observability]
//  4. Orchestration: [pipeline], [server]
//
// # Architecture
//
// The data flow through crafttable:
//
//	recipe/*.json ──[corpus]──▶ []*recipe.Definition
//	                    │
//	        ┌───────────┴────────────┐
//	        ▼                        ▼
//	  [recipe].Normalize      [depgraph].Build ◀── [tags].Resolver
//	        │                        │
//	        ▼                        ▼
//	  [index].Aggregator      [loops].Detector
//	        │                        │
//	        ▼                        ▼
//	  [store]: groups +       loop table file
//	  _manifest + _loops
//
// # Quick Start
//
//	runner := pipeline.NewRunner(logger)
//	s, _ := store.NewDir("recipes")
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    RecipesDir: "recipe",
//	    TagsDir:    "tags",
//	    LoopsPath:  "recipe_loops/loops.json",
//	}, s)
//
// # Identifiers
//
// Item ids use the colon form ("minecraft:stick") inside the graph and the
// slash form ("minecraft/stick") in the emitted index. Tag references start
// with '#' and are never rewritten. A stub is the id without namespace.
package pkg
