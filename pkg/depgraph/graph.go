package depgraph

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddOutput] and [Graph.AddInput]
	// when an item id is empty.
	ErrInvalidNodeID = errors.New("item ID must not be empty")

	// ErrUnknownOutput is returned by [Graph.AddInput] when the output has
	// not been added first.
	ErrUnknownOutput = errors.New("unknown output")
)

type set = map[string]struct{}

// Graph maps output items to the items they depend on.
//
// The zero value is not usable; use New.
type Graph struct {
	outgoing map[string]set // output -> inputs
	incoming map[string]set // input -> outputs
	edges    int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		outgoing: make(map[string]set),
		incoming: make(map[string]set),
	}
}

// AddOutput registers id as a craftable output. Adding an existing output
// is a no-op.
func (g *Graph) AddOutput(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.outgoing[id]; !ok {
		g.outgoing[id] = make(set)
	}
	return nil
}

// AddInput records that out depends on in. Duplicate edges are ignored.
func (g *Graph) AddInput(out, in string) error {
	if in == "" {
		return ErrInvalidNodeID
	}
	inputs, ok := g.outgoing[out]
	if !ok {
		return ErrUnknownOutput
	}
	if _, dup := inputs[in]; dup {
		return nil
	}
	inputs[in] = struct{}{}
	if g.incoming[in] == nil {
		g.incoming[in] = make(set)
	}
	g.incoming[in][out] = struct{}{}
	g.edges++
	return nil
}

// Has reports whether id is a craftable output.
func (g *Graph) Has(id string) bool {
	_, ok := g.outgoing[id]
	return ok
}

// DependsOn reports whether out has in among its inputs.
func (g *Graph) DependsOn(out, in string) bool {
	_, ok := g.outgoing[out][in]
	return ok
}

// Outputs returns every output id in sorted order.
func (g *Graph) Outputs() []string {
	return slices.Sorted(maps.Keys(g.outgoing))
}

// Inputs returns the inputs of out in sorted order, or nil if out is not
// an output.
func (g *Graph) Inputs(out string) []string {
	inputs, ok := g.outgoing[out]
	if !ok || len(inputs) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(inputs))
}

// Dependents returns the outputs that consume in, sorted.
func (g *Graph) Dependents(in string) []string {
	outs := g.incoming[in]
	if len(outs) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(outs))
}

// NodeCount returns the number of distinct items, outputs and inputs alike.
func (g *Graph) NodeCount() int {
	n := len(g.outgoing)
	for id := range g.incoming {
		if _, ok := g.outgoing[id]; !ok {
			n++
		}
	}
	return n
}

// OutputCount returns the number of craftable outputs.
func (g *Graph) OutputCount() int { return len(g.outgoing) }

// EdgeCount returns the number of distinct output -> input dependencies.
func (g *Graph) EdgeCount() int { return g.edges }
