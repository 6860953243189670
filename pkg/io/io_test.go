package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/crafttable/pkg/depgraph"
	"github.com/matzehuels/crafttable/pkg/loops"
	"github.com/matzehuels/crafttable/pkg/recipe"
)

var torchLoops = loops.Table{
	"iron_ingot":     {"torch_launcher"},
	"torch_launcher": {"iron_ingot"},
}

func TestWriteLoopsJSONMap(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLoops(torchLoops, &buf, EncodingMap, FormatJSON); err != nil {
		t.Fatal(err)
	}
	want := `{
    "iron_ingot": [
        "torch_launcher"
    ],
    "torch_launcher": [
        "iron_ingot"
    ]
}
`
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteLoopsJSONPairs(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLoops(torchLoops, &buf, EncodingPairs, FormatJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "[") {
		t.Errorf("pairs output is not an array: %s", buf.String())
	}
	got, err := ReadLoops(&buf, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, torchLoops) {
		t.Errorf("round trip = %v", got)
	}
}

func TestLoopsRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		for _, enc := range []Encoding{EncodingMap, EncodingPairs} {
			t.Run(string(f)+"/"+string(enc), func(t *testing.T) {
				var buf bytes.Buffer
				if err := WriteLoops(torchLoops, &buf, enc, f); err != nil {
					t.Fatal(err)
				}
				got, err := ReadLoops(&buf, f)
				if err != nil {
					t.Fatal(err)
				}
				if !reflect.DeepEqual(got, torchLoops) {
					t.Errorf("round trip = %v, want %v", got, torchLoops)
				}
			})
		}
	}
}

func TestWriteLoopsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLoops(nil, &buf, EncodingMap, FormatJSON); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{}\n" {
		t.Errorf("empty table = %q", buf.String())
	}
}

func TestReadLoopsBadPair(t *testing.T) {
	_, err := ReadLoops(strings.NewReader(`[["a", "b", "c"]]`), FormatJSON)
	if err == nil {
		t.Error("expected error for three-element pair")
	}
}

func TestExportImportLoops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe_loops", "loops.yaml")
	if err := ExportLoops(torchLoops, path, EncodingMap, FormatFromPath(path)); err != nil {
		t.Fatal(err)
	}
	got, err := ImportLoops(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, torchLoops) {
		t.Errorf("ImportLoops = %v", got)
	}
}

func TestParseFormatAndEncoding(t *testing.T) {
	if f, err := ParseFormat("YML"); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(YML) = %v, %v", f, err)
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Error("ParseFormat(toml) should fail")
	}
	if e, err := ParseEncoding("pairs"); err != nil || e != EncodingPairs {
		t.Errorf("ParseEncoding(pairs) = %v, %v", e, err)
	}
	if _, err := ParseEncoding("list"); err == nil {
		t.Error("ParseEncoding(list) should fail")
	}
}

func TestGroupRoundTrip(t *testing.T) {
	in := []*recipe.Normalized{{
		Input:  recipe.Placement{1: {"minecraft/stick"}, 2: {"minecraft/iron_ingot"}},
		Output: recipe.Output{ID: "minecraft/torch_launcher", Count: 1},
	}}
	data, err := EncodeGroup(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := DecodeGroup(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("DecodeGroup = %+v", out)
	}

	empty, _ := EncodeGroup(nil)
	if string(empty) != "[]\n" {
		t.Errorf("EncodeGroup(nil) = %q", empty)
	}
}

func TestGraphRoundTrip(t *testing.T) {
	g := depgraph.New()
	_ = g.AddOutput("minecraft:torch")
	_ = g.AddOutput("minecraft:lonely")
	_ = g.AddInput("minecraft:torch", "minecraft:stick")
	_ = g.AddInput("minecraft:torch", "minecraft:coal")

	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		t.Fatal(err)
	}
	back, err := ReadGraph(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Outputs(), g.Outputs()) {
		t.Errorf("Outputs = %v, want %v", back.Outputs(), g.Outputs())
	}
	if !reflect.DeepEqual(back.Inputs("minecraft:torch"), g.Inputs("minecraft:torch")) {
		t.Errorf("Inputs = %v", back.Inputs("minecraft:torch"))
	}
	if back.NodeCount() != 4 || back.EdgeCount() != 2 {
		t.Errorf("counts = %d nodes, %d edges", back.NodeCount(), back.EdgeCount())
	}
}
