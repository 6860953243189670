package recipe

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/crafttable/pkg/diag"
	"github.com/matzehuels/crafttable/pkg/errors"
)

func mustDecode(t *testing.T, name, data string) *Definition {
	t.Helper()
	def, err := Decode(name, []byte(data))
	if err != nil {
		t.Fatalf("Decode(%s): %v", name, err)
	}
	return def
}

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"minecraft:crafting_shaped":    Shaped,
		"crafting_shaped":              Shaped,
		"mod:transform_shaped":         Shaped,
		"minecraft:crafting_shapeless": Shapeless,
		"transform_shapeless":          Shapeless,
		"minecraft:smelting":           Unsupported,
		"":                             Unsupported,
	}
	for typ, want := range tests {
		if got := KindOf(typ); got != want {
			t.Errorf("KindOf(%q) = %v, want %v", typ, got, want)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, data := range []string{`{`, `[1, 2]`, `"x"`} {
		if _, err := Decode("bad", []byte(data)); !errors.Is(err, errors.ErrCodeInvalidRecipe) {
			t.Errorf("Decode(%s) error = %v, want INVALID_RECIPE", data, err)
		}
	}
}

func TestNormalizeShaped(t *testing.T) {
	def := mustDecode(t, "minecraft/piston", `{
		"type": "minecraft:crafting_shaped",
		"pattern": ["TTT", "#X#", "#R#"],
		"key": {
			"R": {"item": "minecraft:redstone"},
			"#": {"item": "minecraft:cobblestone"},
			"T": {"tag": "minecraft:planks"},
			"X": [{"item": "minecraft:iron_ingot"}, {"tag": "c:ingots/iron"}]
		},
		"result": {"id": "minecraft:piston", "count": 1}
	}`)

	n, err := Normalize(def, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := Placement{
		1:  {"#minecraft:planks"},
		2:  {"#minecraft:planks"},
		3:  {"#minecraft:planks"},
		5:  {"minecraft/cobblestone"},
		6:  {"minecraft/iron_ingot", "#c:ingots/iron"},
		7:  {"minecraft/cobblestone"},
		9:  {"minecraft/cobblestone"},
		10: {"minecraft/redstone"},
		11: {"minecraft/cobblestone"},
	}
	if !reflect.DeepEqual(n.Input, want) {
		t.Errorf("Input = %v, want %v", n.Input, want)
	}
	if n.Output != (Output{ID: "minecraft/piston", Count: 1}) {
		t.Errorf("Output = %+v", n.Output)
	}
}

func TestNormalizeShapedSparse(t *testing.T) {
	def := mustDecode(t, "minecraft/stick", `{
		"type": "crafting_shaped",
		"pattern": ["#", "#"],
		"key": {"#": {"tag": "minecraft:planks"}, "Z": {"item": "x:unused"}},
		"result": {"id": "minecraft:stick", "count": 4}
	}`)
	n, err := Normalize(def, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := n.Input.Slots(); !slices.Equal(got, []int{1, 5}) {
		t.Errorf("Slots = %v, want [1 5]", got)
	}
	if n.Output.Count != 4 {
		t.Errorf("Count = %d, want 4", n.Output.Count)
	}
}

func TestNormalizeShapeless(t *testing.T) {
	ings := `[{"item":"a:1"},{"item":"a:2"},{"item":"a:3"},{"item":"a:4"},{"item":"a:5"},{"item":"a:6"},{"item":"a:7"},{"item":"a:8"},{"item":"a:9"}]`
	def := mustDecode(t, "a/out", `{"type": "crafting_shapeless", "ingredients": `+ings+`, "result": {"id": "a:out", "count": 1}}`)

	n, err := Normalize(def, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := n.Input.Slots(); !slices.Equal(got, PhysicalSlots) {
		t.Errorf("Slots = %v, want %v", got, PhysicalSlots)
	}
	for i, slot := range PhysicalSlots {
		want := fmt.Sprintf("a/%d", i+1)
		if got := n.Input[slot]; !slices.Equal(got, []string{want}) {
			t.Errorf("slot %d = %v, want [%s]", slot, got, want)
		}
	}
}

func TestNormalizeTorchLauncher(t *testing.T) {
	def := mustDecode(t, "minecraft/torch_launcher", `{
		"type": "minecraft:crafting_shapeless",
		"ingredients": [{"item": "minecraft:stick"}, {"item": "minecraft:iron_ingot"}],
		"result": {"id": "minecraft:torch_launcher", "count": 1}
	}`)
	n, err := Normalize(def, nil)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"input":{"1":["minecraft/stick"],"2":["minecraft/iron_ingot"]},"output":{"id":"minecraft/torch_launcher","count":1}}`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
}

func TestNormalizeOutput(t *testing.T) {
	tests := []struct {
		name      string
		result    string
		wantID    string
		wantCount int
		wantDiag  bool
	}{
		{"id", `{"id": "a:x", "count": 2}`, "a/x", 2, false},
		{"item fallback", `{"item": "a:x", "count": 3}`, "a/x", 3, false},
		{"id wins", `{"id": "a:x", "item": "a:y", "count": 1}`, "a/x", 1, false},
		{"bare string", `"a:x"`, "a/x", 1, false},
		{"missing count", `{"id": "a:x"}`, "a/x", 1, true},
		{"zero count", `{"id": "a:x", "count": 0}`, "a/x", 1, true},
		{"negative count", `{"id": "a:x", "count": -2}`, "a/x", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := mustDecode(t, "a/x", `{"type": "crafting_shapeless", "ingredients": ["a:in"], "result": `+tt.result+`}`)
			sink := diag.NewCollector(nil)
			n, err := Normalize(def, sink)
			if err != nil {
				t.Fatal(err)
			}
			if n.Output.ID != tt.wantID || n.Output.Count != tt.wantCount {
				t.Errorf("Output = %+v, want {%s %d}", n.Output, tt.wantID, tt.wantCount)
			}
			if got := sink.Count(errors.ErrCodeZeroOrMissingCount) == 1; got != tt.wantDiag {
				t.Errorf("count diagnostic = %v, want %v", got, tt.wantDiag)
			}
		})
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want errors.Code
	}{
		{
			"no output",
			`{"type": "crafting_shapeless", "ingredients": ["a:b"], "result": {"count": 1}}`,
			errors.ErrCodeMissingOutputIdentity,
		},
		{
			"malformed ingredient",
			`{"type": "crafting_shapeless", "ingredients": [{"item": "a:b"}, {"count": 2}], "result": {"id": "a:x"}}`,
			errors.ErrCodeMalformedIngredient,
		},
		{
			"unsupported ingredient",
			`{"type": "crafting_shaped", "pattern": ["A"], "key": {"A": 7}, "result": {"id": "a:x"}}`,
			errors.ErrCodeUnsupportedIngredientType,
		},
		{
			"too many rows",
			`{"type": "crafting_shaped", "pattern": ["A", "A", "A", "A"], "key": {"A": "a:b"}, "result": {"id": "a:x"}}`,
			errors.ErrCodeInvalidPattern,
		},
		{
			"too wide",
			`{"type": "crafting_shaped", "pattern": ["AAAA"], "key": {"A": "a:b"}, "result": {"id": "a:x"}}`,
			errors.ErrCodeInvalidPattern,
		},
		{
			"too many ingredients",
			`{"type": "crafting_shapeless", "ingredients": ["a","b","c","d","e","f","g","h","i","j"], "result": {"id": "a:x"}}`,
			errors.ErrCodeInvalidPattern,
		},
		{
			"no key",
			`{"type": "crafting_shaped", "pattern": ["A"], "result": {"id": "a:x"}}`,
			errors.ErrCodeInvalidRecipe,
		},
		{
			"no ingredients",
			`{"type": "crafting_shapeless", "result": {"id": "a:x"}}`,
			errors.ErrCodeInvalidRecipe,
		},
		{
			"empty alternatives",
			`{"type": "crafting_shapeless", "ingredients": [[], {"item": "m:stick"}], "result": {"id": "a:x"}}`,
			errors.ErrCodeMalformedIngredient,
		},
		{
			"empty alternatives in key",
			`{"type": "crafting_shaped", "pattern": ["A"], "key": {"A": [[]]}, "result": {"id": "a:x"}}`,
			errors.ErrCodeMalformedIngredient,
		},
		{
			"output with traversal",
			`{"type": "crafting_shapeless", "ingredients": ["a:b"], "result": {"id": "weird:a..b"}}`,
			errors.ErrCodeInvalidKey,
		},
		{
			"internal-looking output",
			`{"type": "crafting_shapeless", "ingredients": ["a:b"], "result": {"id": "mod:_x"}}`,
			errors.ErrCodeInvalidKey,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Normalize(mustDecode(t, "a/x", tt.data), nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Normalize() error = %v, want %s", err, tt.want)
			}
			if n != nil {
				t.Errorf("Normalize() returned partial result %+v", n)
			}
		})
	}
}

func TestNormalizeUnsupported(t *testing.T) {
	def := mustDecode(t, "minecraft/iron_ingot_from_smelting", `{"type": "minecraft:smelting", "ingredient": {"item": "minecraft:raw_iron"}, "result": {"id": "minecraft:iron_ingot"}}`)
	n, err := Normalize(def, nil)
	if n != nil || err != nil {
		t.Errorf("Normalize() = %v, %v; want nil, nil", n, err)
	}
}

func TestDefinitionInputs(t *testing.T) {
	def := mustDecode(t, "minecraft/torch", `{
		"type": "crafting_shaped",
		"pattern": ["C", "S"],
		"key": {
			"C": [{"item": "minecraft:coal"}, {"item": "minecraft:charcoal"}],
			"S": {"tag": "c:rods/wooden"}
		},
		"result": {"id": "minecraft:torch", "count": 4}
	}`)
	got, err := def.Inputs()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"minecraft:coal", "minecraft:charcoal", "#c:rods/wooden"}
	if !slices.Equal(got, want) {
		t.Errorf("Inputs() = %v, want %v", got, want)
	}
	if id, _ := def.OutputID(); id != "minecraft:torch" {
		t.Errorf("OutputID() = %q", id)
	}
}

func TestDefinitionInputsPlacedOnly(t *testing.T) {
	def := mustDecode(t, "m/wand", `{
		"type": "crafting_shaped",
		"pattern": ["#"],
		"key": {"#": {"item": "m:stick"}, "X": {"item": "m:gold"}, "  ": {"item": "m:air"}},
		"result": {"id": "m:wand"}
	}`)
	got, err := def.Inputs()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"m:stick"}; !slices.Equal(got, want) {
		t.Errorf("Inputs() = %v, want %v", got, want)
	}

	n, err := Normalize(def, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := (Placement{1: {"m/stick"}}); !reflect.DeepEqual(n.Input, want) {
		t.Errorf("Input = %v, want %v", n.Input, want)
	}

	wide := mustDecode(t, "m/rail", `{"type": "crafting_shaped", "pattern": ["iiii"], "key": {"i": "m:iron"}, "result": "m:rail"}`)
	if _, err := wide.Inputs(); !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("Inputs() on a 4-wide pattern = %v, want INVALID_PATTERN", err)
	}
}
