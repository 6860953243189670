package loops

import (
	"maps"
	"slices"

	"github.com/matzehuels/crafttable/pkg/depgraph"
	"github.com/matzehuels/crafttable/pkg/item"
)

// Table maps a stub to the stubs it forms a crafting loop with. A stub
// appears once per mutual dependency found, so collisions between
// namespaces sharing a stub may repeat an entry.
type Table map[string][]string

// Pair is an unordered loop pair with A < B.
type Pair [2]string

// Detector finds two-item crafting loops.
type Detector struct {
	// Palette lists colour substrings used to suppress dye loops.
	// Nil selects item.Colors; an empty non-nil slice disables suppression.
	Palette []string
}

// Detect returns the loop table of g.
func (d Detector) Detect(g *depgraph.Graph) Table {
	t := make(Table)
	for _, out := range g.Outputs() {
		for _, in := range g.Inputs(out) {
			if in == out || !g.DependsOn(in, out) {
				continue
			}
			inStub, outStub := item.Stub(in), item.Stub(out)
			if d.colored(inStub) && d.colored(outStub) {
				continue
			}
			t[inStub] = append(t[inStub], outStub)
		}
	}
	return t
}

func (d Detector) colored(stub string) bool {
	if d.Palette != nil && len(d.Palette) == 0 {
		return false
	}
	return item.HasColor(stub, d.Palette)
}

// Stubs returns the table's keys in sorted order.
func (t Table) Stubs() []string {
	return slices.Sorted(maps.Keys(t))
}

// Partners returns the stubs that loop with stub. It never returns nil.
func (t Table) Partners(stub string) []string {
	if p, ok := t[stub]; ok {
		return slices.Clone(p)
	}
	return []string{}
}

// Loops reports whether a and b form a loop.
func (t Table) Loops(a, b string) bool {
	return slices.Contains(t[a], b)
}

// Pairs returns the unique unordered pairs of the table, sorted.
func (t Table) Pairs() []Pair {
	seen := make(map[Pair]bool)
	var pairs []Pair
	for a, partners := range t {
		for _, b := range partners {
			p := Pair{a, b}
			if b < a {
				p = Pair{b, a}
			}
			if !seen[p] {
				seen[p] = true
				pairs = append(pairs, p)
			}
		}
	}
	slices.SortFunc(pairs, func(x, y Pair) int {
		return slices.Compare(x[:], y[:])
	})
	return pairs
}

// FromPairs rebuilds a table from its pairs encoding. Partner lists are
// sorted.
func FromPairs(pairs []Pair) Table {
	t := make(Table)
	for _, p := range pairs {
		if p[0] == p[1] {
			continue
		}
		if !slices.Contains(t[p[0]], p[1]) {
			t[p[0]] = append(t[p[0]], p[1])
		}
		if !slices.Contains(t[p[1]], p[0]) {
			t[p[1]] = append(t[p[1]], p[0])
		}
	}
	for _, partners := range t {
		slices.Sort(partners)
	}
	return t
}
