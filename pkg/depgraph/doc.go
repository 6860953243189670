// Package depgraph builds the item dependency graph of a recipe corpus.
//
// # Overview
//
// A [Graph] maps every craftable output item to the set of concrete items
// any of its recipes may consume. Tag references are expanded through a
// [Resolver] before insertion, and ids are kept in canonical colon form
// ("minecraft:stick") so that tag-expanded items and recipe outputs agree.
//
// Unlike a layered DAG, the graph is expected to contain cycles: an iron
// block is made from ingots and ingots are made from a block. Those cycles
// are exactly what [github.com/matzehuels/crafttable/pkg/loops] looks for.
//
// # Building
//
// [Build] folds a slice of decoded recipes into a graph:
//
//	g := depgraph.Build(defs, tags.NewResolver(loader, sink))
//	for _, out := range g.Outputs() {
//	    fmt.Println(out, g.Inputs(out))
//	}
//
// Every supported recipe with an output id adds an output node, even when it
// has no inputs. Several recipes for the same output union their inputs.
// Recipes that fail to decode their ingredients or output are skipped; the
// recipe normalizer reports those faults.
//
// # Determinism
//
// Iteration accessors ([Graph.Outputs], [Graph.Inputs], [Graph.Dependents])
// return sorted slices, so every consumer sees the same order across runs.
// The graph is not safe for concurrent mutation, but is read-only once Build
// returns.
package depgraph
