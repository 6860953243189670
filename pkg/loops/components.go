package loops

import (
	"slices"

	"github.com/matzehuels/crafttable/pkg/depgraph"
)

// Components returns the strongly connected components of g with two or
// more items, using Tarjan's algorithm over the output nodes. Items within a
// component are sorted, and components are ordered by their first item.
//
// Every two-item loop in the table lies inside one component, but a
// component may also hold longer cycles (a -> b -> c -> a) that the table
// does not record.
func Components(g *depgraph.Graph) [][]string {
	var (
		index   = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		stack   []string
		next    int
		comps   [][]string
	)

	var visit func(v string)
	visit = func(v string) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.Inputs(v) {
			if !g.Has(w) {
				continue // raw materials cannot close a cycle
			}
			if _, seen := index[w]; !seen {
				visit(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], index[w])
			}
		}

		if lowlink[v] != index[v] {
			return
		}
		var comp []string
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		if len(comp) > 1 {
			slices.Sort(comp)
			comps = append(comps, comp)
		}
	}

	for _, v := range g.Outputs() {
		if _, seen := index[v]; !seen {
			visit(v)
		}
	}

	slices.SortFunc(comps, func(a, b []string) int {
		return slices.Compare(a, b)
	})
	return comps
}
