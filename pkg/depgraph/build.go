package depgraph

import "github.com/matzehuels/crafttable/pkg/recipe"

// Resolver expands a tag reference into concrete item ids. Non-tag ids are
// returned as a singleton.
type Resolver interface {
	Resolve(ref string) []string
}

// Build constructs the dependency graph of defs. A recipe contributes
// edges only if it normalizes, so the graph covers exactly the recipes the
// index holds, and only the ingredients placed on the grid.
func Build(defs []*recipe.Definition, r Resolver) *Graph {
	g := New()
	for _, def := range defs {
		if def == nil || !def.Supported() {
			continue
		}
		if n, err := recipe.Normalize(def, nil); err != nil || n == nil {
			continue
		}
		out, err := def.OutputID()
		if err != nil {
			continue
		}
		inputs, err := def.Inputs()
		if err != nil {
			continue
		}
		if err := g.AddOutput(out); err != nil {
			continue
		}
		for _, cand := range inputs {
			for _, id := range r.Resolve(cand) {
				_ = g.AddInput(out, id) // empty ids are dropped
			}
		}
	}
	return g
}
