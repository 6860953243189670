package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/crafttable/pkg/depgraph"
	"github.com/matzehuels/crafttable/pkg/item"
	"github.com/matzehuels/crafttable/pkg/loops"
)

// Options configures DOT generation.
type Options struct {
	// LoopsOnly keeps only items that take part in a crafting loop and the
	// loop edges between them.
	LoopsOnly bool
	// Detailed adds input and dependent counts to node labels.
	Detailed bool
}

// ToDOT converts a dependency graph to Graphviz DOT. Loop edges are looked
// up in table by stub; a nil table highlights nothing.
func ToDOT(g *depgraph.Graph, table loops.Table, opts Options) string {
	isLoop := func(out, in string) bool {
		return table.Loops(item.Stub(in), item.Stub(out)) && g.DependsOn(in, out)
	}

	type edge struct {
		from, to string
		loop     bool
	}
	var edges []edge
	nodes := make(map[string]bool)
	for _, out := range g.Outputs() {
		if !opts.LoopsOnly {
			nodes[out] = true
		}
		for _, in := range g.Inputs(out) {
			loop := isLoop(out, in)
			if opts.LoopsOnly && !loop {
				continue
			}
			nodes[out], nodes[in] = true, true
			edges = append(edges, edge{from: out, to: in, loop: loop})
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(nodeAttrs(g, id, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if e.loop {
			fmt.Fprintf(&buf, "  %q -> %q [color=red, penwidth=2];\n", e.from, e.to)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.from, e.to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(g *depgraph.Graph, id string, detailed bool) []string {
	label := id
	if detailed {
		label = fmt.Sprintf("%s\ninputs: %d\nused by: %d", id, len(g.Inputs(id)), len(g.Dependents(id)))
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !g.Has(id) {
		attrs = append(attrs, "shape=ellipse", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
