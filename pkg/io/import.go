package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/crafttable/pkg/depgraph"
	"github.com/matzehuels/crafttable/pkg/loops"
	"github.com/matzehuels/crafttable/pkg/recipe"
)

// ReadLoops decodes a loop table in either encoding. Pairs are expanded
// back into the map form.
func ReadLoops(r io.Reader, f Format) (loops.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatJSON, "":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var pairs [][]string
			if err := json.Unmarshal(trimmed, &pairs); err != nil {
				return nil, fmt.Errorf("decode: %w", err)
			}
			return fromPairs(pairs)
		}
		var t loops.Table
		if err := json.Unmarshal(trimmed, &t); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return nonNil(t), nil

	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		if len(doc.Content) == 0 {
			return loops.Table{}, nil
		}
		root := doc.Content[0]
		if root.Kind == yaml.SequenceNode {
			var pairs [][]string
			if err := root.Decode(&pairs); err != nil {
				return nil, fmt.Errorf("decode: %w", err)
			}
			return fromPairs(pairs)
		}
		var t loops.Table
		if err := root.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return nonNil(t), nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// ImportLoops reads a loop table file, inferring the format from its
// extension.
func ImportLoops(path string) (loops.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLoops(f, FormatFromPath(path))
}

func fromPairs(raw [][]string) (loops.Table, error) {
	pairs := make([]loops.Pair, 0, len(raw))
	for i, p := range raw {
		if len(p) != 2 {
			return nil, fmt.Errorf("pair %d has %d elements, want 2", i, len(p))
		}
		pairs = append(pairs, loops.Pair{p[0], p[1]})
	}
	return loops.FromPairs(pairs), nil
}

func nonNil(t loops.Table) loops.Table {
	if t == nil {
		return loops.Table{}
	}
	return t
}

// DecodeGroup parses a recipe group artifact.
func DecodeGroup(data []byte) ([]*recipe.Normalized, error) {
	var recipes []*recipe.Normalized
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return recipes, nil
}

// ReadGraph decodes a document written by [WriteGraph]. Nodes flagged as
// outputs are added even when they have no edges.
func ReadGraph(r io.Reader) (*depgraph.Graph, error) {
	var doc graphDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := depgraph.New()
	for _, n := range doc.Nodes {
		if !n.Output {
			continue
		}
		if err := g.AddOutput(n.ID); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddOutput(e.From); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
		if err := g.AddInput(e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}
