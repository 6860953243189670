package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/crafttable/pkg/depgraph"
	"github.com/matzehuels/crafttable/pkg/loops"
	"github.com/matzehuels/crafttable/pkg/recipe"
)

const indent = "    "

// WriteLoops encodes t to w.
func WriteLoops(t loops.Table, w io.Writer, enc Encoding, f Format) error {
	var v any
	switch enc {
	case EncodingMap, "":
		if t == nil {
			t = loops.Table{}
		}
		v = t
	case EncodingPairs:
		v = pairsOf(t)
	default:
		return fmt.Errorf("unknown encoding %q", enc)
	}

	switch f {
	case FormatJSON, "":
		e := json.NewEncoder(w)
		e.SetIndent("", indent)
		if err := e.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatYAML:
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return e.Close()
	}
	return fmt.Errorf("unknown format %q", f)
}

// ExportLoops writes t to path, creating parent directories.
func ExportLoops(t loops.Table, path string, enc Encoding, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLoops(t, out, enc, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func pairsOf(t loops.Table) [][]string {
	pairs := t.Pairs()
	out := make([][]string, len(pairs))
	for i, p := range pairs {
		out[i] = []string{p[0], p[1]}
	}
	return out
}

// EncodeGroup renders a recipe group as indented JSON with a trailing
// newline. A nil group encodes as an empty array.
func EncodeGroup(recipes []*recipe.Normalized) ([]byte, error) {
	if recipes == nil {
		recipes = []*recipe.Normalized{}
	}
	var buf bytes.Buffer
	e := json.NewEncoder(&buf)
	e.SetIndent("", indent)
	e.SetEscapeHTML(false)
	if err := e.Encode(recipes); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

type graphDoc struct {
	Nodes []graphNode `json:"nodes"`
	Edges []graphEdge `json:"edges"`
}

type graphNode struct {
	ID     string `json:"id"`
	Output bool   `json:"output,omitempty"`
}

type graphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteGraph encodes g as a nodes/edges JSON document. Nodes are sorted by
// id and edges by (from, to).
func WriteGraph(g *depgraph.Graph, w io.Writer) error {
	doc := graphDoc{Nodes: []graphNode{}, Edges: []graphEdge{}}
	seen := make(map[string]bool)
	var ids []string
	for _, out := range g.Outputs() {
		if !seen[out] {
			seen[out] = true
			ids = append(ids, out)
		}
		for _, in := range g.Inputs(out) {
			doc.Edges = append(doc.Edges, graphEdge{From: out, To: in})
			if !seen[in] {
				seen[in] = true
				ids = append(ids, in)
			}
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		doc.Nodes = append(doc.Nodes, graphNode{ID: id, Output: g.Has(id)})
	}

	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
