package ingredient

import (
	"fmt"
	"slices"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/crafttable/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		kind     Kind
		want     []string
		wantCode errors.Code
	}{
		{name: "item", raw: `{"item": "minecraft:stick"}`, kind: Concrete, want: []string{"minecraft:stick"}},
		{name: "tag", raw: `{"tag": "c:ingots/iron"}`, kind: TagReference, want: []string{"#c:ingots/iron"}},
		{name: "item wins over tag", raw: `{"item": "a:x", "tag": "a:y"}`, kind: Concrete, want: []string{"a:x"}},
		{name: "bare string", raw: `"minecraft:stick"`, kind: Concrete, want: []string{"minecraft:stick"}},
		{name: "bare tag string", raw: `"#minecraft:planks"`, kind: Concrete, want: []string{"#minecraft:planks"}},
		{
			name: "alternatives",
			raw:  `[{"item": "a:x"}, {"tag": "a:t"}, [{"item": "a:y"}]]`,
			kind: Alternatives,
			want: []string{"a:x", "#a:t", "a:y"},
		},
		{name: "empty object", raw: `{}`, wantCode: errors.ErrCodeMalformedIngredient},
		{name: "count only", raw: `{"count": 2}`, wantCode: errors.ErrCodeMalformedIngredient},
		{name: "non-string item", raw: `{"item": 3}`, wantCode: errors.ErrCodeMalformedIngredient},
		{name: "empty alternatives", raw: `[]`, wantCode: errors.ErrCodeMalformedIngredient},
		{name: "nested empty alternatives", raw: `[{"item": "a:x"}, []]`, wantCode: errors.ErrCodeMalformedIngredient},
		{name: "bad alternative", raw: `[{"item": "a:x"}, {}]`, wantCode: errors.ErrCodeMalformedIngredient},
		{name: "number", raw: `42`, wantCode: errors.ErrCodeUnsupportedIngredientType},
		{name: "null", raw: `null`, wantCode: errors.ErrCodeUnsupportedIngredientType},
		{name: "bool", raw: `true`, wantCode: errors.ErrCodeUnsupportedIngredientType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing, err := Parse(gjson.Parse(tt.raw))
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Parse() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if ing.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", ing.Kind, tt.kind)
			}
			if got := ing.Candidates(); !slices.Equal(got, tt.want) {
				t.Errorf("Candidates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMissingValue(t *testing.T) {
	_, err := Parse(gjson.Get(`{}`, "nothing"))
	if !errors.Is(err, errors.ErrCodeUnsupportedIngredientType) {
		t.Errorf("Parse(missing) error = %v", err)
	}
}

func TestTagPrefix(t *testing.T) {
	if got := Tag("#c:x").ID; got != "#c:x" {
		t.Errorf("Tag(#c:x).ID = %q", got)
	}
	if got := Tag("c:x").ID; got != "#c:x" {
		t.Errorf("Tag(c:x).ID = %q", got)
	}
}

func ExampleIngredient_Candidates() {
	ing, _ := Parse(gjson.Parse(`[{"item": "minecraft:coal"}, {"item": "minecraft:charcoal"}]`))
	fmt.Println(ing.Kind, ing.Candidates())
	// Output: alternatives [minecraft:coal minecraft:charcoal]
}
