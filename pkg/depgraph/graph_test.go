package depgraph

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/crafttable/pkg/recipe"
	"github.com/matzehuels/crafttable/pkg/tags"
)

func decode(t *testing.T, name, data string) *recipe.Definition {
	t.Helper()
	def, err := recipe.Decode(name, []byte(data))
	if err != nil {
		t.Fatal(err)
	}
	return def
}

func TestGraphAdd(t *testing.T) {
	g := New()
	if err := g.AddOutput(""); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddOutput(\"\") = %v", err)
	}
	if err := g.AddInput("a:x", "a:y"); !errors.Is(err, ErrUnknownOutput) {
		t.Errorf("AddInput before AddOutput = %v", err)
	}

	_ = g.AddOutput("a:x")
	_ = g.AddInput("a:x", "a:y")
	_ = g.AddInput("a:x", "a:y")
	_ = g.AddInput("a:x", "a:z")
	_ = g.AddOutput("a:x")

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
	if !g.DependsOn("a:x", "a:z") || g.DependsOn("a:z", "a:x") {
		t.Error("DependsOn is not directional")
	}
	if got := g.Dependents("a:y"); !slices.Equal(got, []string{"a:x"}) {
		t.Errorf("Dependents(a:y) = %v", got)
	}
	if g.Inputs("a:missing") != nil {
		t.Error("Inputs of unknown output should be nil")
	}
}

func TestBuildTorchLauncher(t *testing.T) {
	defs := []*recipe.Definition{
		decode(t, "minecraft/torch_launcher", `{"type": "crafting_shapeless", "ingredients": [{"item": "minecraft:stick"}, {"item": "minecraft:iron_ingot"}], "result": {"id": "minecraft:torch_launcher", "count": 1}}`),
		decode(t, "minecraft/iron_ingot", `{"type": "crafting_shapeless", "ingredients": [{"item": "minecraft:torch_launcher"}], "result": {"id": "minecraft:iron_ingot", "count": 1}}`),
	}
	g := Build(defs, tags.NewResolver(tags.MapLoader{}, nil))

	if got := g.Outputs(); !slices.Equal(got, []string{"minecraft:iron_ingot", "minecraft:torch_launcher"}) {
		t.Errorf("Outputs = %v", got)
	}
	if got := g.Inputs("minecraft:torch_launcher"); !slices.Equal(got, []string{"minecraft:iron_ingot", "minecraft:stick"}) {
		t.Errorf("Inputs(torch_launcher) = %v", got)
	}
	if got := g.Inputs("minecraft:iron_ingot"); !slices.Equal(got, []string{"minecraft:torch_launcher"}) {
		t.Errorf("Inputs(iron_ingot) = %v", got)
	}
	if g.Has("minecraft:stick") {
		t.Error("stick is not craftable")
	}
}

func TestBuildExpandsTags(t *testing.T) {
	loader := tags.MapLoader{
		"planks":      {"minecraft:oak_planks", "#minecraft:dark_planks"},
		"dark_planks": {"minecraft:dark_oak_planks"},
	}
	defs := []*recipe.Definition{
		decode(t, "minecraft/stick", `{"type": "crafting_shaped", "pattern": ["#", "#"], "key": {"#": {"tag": "minecraft:planks"}}, "result": {"id": "minecraft:stick", "count": 4}}`),
		decode(t, "minecraft/stick_from_bamboo", `{"type": "crafting_shaped", "pattern": ["#", "#"], "key": {"#": {"item": "minecraft:bamboo"}}, "result": {"id": "minecraft:stick", "count": 1}}`),
	}
	g := Build(defs, tags.NewResolver(loader, nil))

	want := []string{"minecraft:bamboo", "minecraft:dark_oak_planks", "minecraft:oak_planks"}
	if got := g.Inputs("minecraft:stick"); !slices.Equal(got, want) {
		t.Errorf("Inputs(stick) = %v, want %v", got, want)
	}
}

func TestBuildSkips(t *testing.T) {
	defs := []*recipe.Definition{
		decode(t, "a/smelt", `{"type": "minecraft:smelting", "ingredient": {"item": "a:ore"}, "result": {"id": "a:ingot"}}`),
		decode(t, "a/noout", `{"type": "crafting_shapeless", "ingredients": ["a:x"], "result": {}}`),
		decode(t, "a/bad", `{"type": "crafting_shapeless", "ingredients": [{}], "result": {"id": "a:bad"}}`),
		decode(t, "a/empty", `{"type": "crafting_shapeless", "ingredients": [], "result": {"id": "a:empty"}}`),
		nil,
	}
	g := Build(defs, tags.NewResolver(tags.MapLoader{}, nil))
	if got := g.Outputs(); !slices.Equal(got, []string{"a:empty"}) {
		t.Errorf("Outputs = %v, want [a:empty]", got)
	}
}

func TestBuildFollowsPlacement(t *testing.T) {
	defs := []*recipe.Definition{
		decode(t, "m/wand", `{
			"type": "crafting_shaped",
			"pattern": ["#"],
			"key": {"#": {"item": "m:stick"}, "X": {"item": "m:gold"}},
			"result": {"id": "m:wand"}
		}`),
		decode(t, "m/rail", `{
			"type": "crafting_shaped",
			"pattern": ["iiii"],
			"key": {"i": {"item": "m:iron"}},
			"result": {"id": "m:rail"}
		}`),
		decode(t, "m/dots", `{"type": "crafting_shapeless", "ingredients": ["m:stick"], "result": "m:a..b"}`),
		decode(t, "m/hidden", `{"type": "crafting_shapeless", "ingredients": ["m:stick"], "result": "m:_hidden"}`),
	}
	g := Build(defs, tags.NewResolver(tags.MapLoader{}, nil))

	if got := g.Outputs(); !slices.Equal(got, []string{"m:wand"}) {
		t.Errorf("Outputs = %v, want [m:wand]", got)
	}
	if got := g.Inputs("m:wand"); !slices.Equal(got, []string{"m:stick"}) {
		t.Errorf("Inputs(wand) = %v, want [m:stick]", got)
	}
}
