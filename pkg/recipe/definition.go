package recipe

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/crafttable/pkg/errors"
	"github.com/matzehuels/crafttable/pkg/ingredient"
)

// Kind classifies a raw recipe by its type.
type Kind int

const (
	Unsupported Kind = iota
	Shaped
	Shapeless
)

func (k Kind) String() string {
	switch k {
	case Shaped:
		return "shaped"
	case Shapeless:
		return "shapeless"
	}
	return "unsupported"
}

// KindOf classifies a recipe type name, ignoring any namespace.
func KindOf(typ string) Kind {
	if i := strings.IndexByte(typ, ':'); i >= 0 {
		typ = typ[i+1:]
	}
	switch typ {
	case "crafting_shaped", "transform_shaped":
		return Shaped
	case "crafting_shapeless", "transform_shapeless":
		return Shapeless
	}
	return Unsupported
}

// Definition is a decoded raw recipe. Fields are read lazily from the
// underlying JSON so that malformed parts surface as per-recipe errors at
// normalization time.
type Definition struct {
	Name string // corpus-relative name, e.g. "minecraft/torch"
	Type string // raw type, e.g. "minecraft:crafting_shaped"
	Kind Kind

	data []byte
	doc  gjson.Result
}

// Decode parses a raw recipe. Invalid JSON or a non-object document is
// INVALID_RECIPE.
func Decode(name string, data []byte) (*Definition, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "recipe %s is not valid JSON", name)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "recipe %s is not a JSON object", name)
	}
	typ := doc.Get("type").String()
	return &Definition{
		Name: name,
		Type: typ,
		Kind: KindOf(typ),
		data: data,
		doc:  doc,
	}, nil
}

// Raw returns the source bytes.
func (d *Definition) Raw() []byte { return d.data }

// Supported reports whether the recipe type normalizes.
func (d *Definition) Supported() bool { return d.Kind != Unsupported }

// OutputID returns the canonical output id: result.id, then result.item,
// then a bare-string result. MISSING_OUTPUT_IDENTITY is returned when none
// is present.
func (d *Definition) OutputID() (string, error) {
	result := d.doc.Get("result")
	if result.Type == gjson.String && result.String() != "" {
		return result.String(), nil
	}
	for _, field := range []string{"id", "item"} {
		if v := result.Get(field); v.Type == gjson.String && v.String() != "" {
			return v.String(), nil
		}
	}
	return "", errors.New(errors.ErrCodeMissingOutputIdentity, "result has neither id nor item")
}

// Count returns the declared result count and whether it was usable.
// A bare-string result counts as 1.
func (d *Definition) Count() (int, bool) {
	result := d.doc.Get("result")
	if result.Type == gjson.String {
		return 1, true
	}
	c := result.Get("count")
	if c.Type != gjson.Number || c.Int() <= 0 {
		return 1, false
	}
	return int(c.Int()), true
}

// Inputs returns every candidate of every ingredient the recipe places on
// the grid, in canonical form with tag references unexpanded. Shaped key
// entries whose character never appears in the pattern are left out, and
// the pattern is checked the same way [Normalize] checks it.
func (d *Definition) Inputs() ([]string, error) {
	ings, err := d.placed()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, ing := range ings {
		out = append(out, ing.Candidates()...)
	}
	return out, nil
}

// placed returns the ingredients that occupy at least one grid cell.
func (d *Definition) placed() ([]ingredient.Ingredient, error) {
	switch d.Kind {
	case Shaped:
		rows, err := d.pattern()
		if err != nil {
			return nil, err
		}
		keys, err := d.keys()
		if err != nil {
			return nil, err
		}
		var ings []ingredient.Ingredient
		for _, k := range keys {
			if len(k.cells(rows)) > 0 {
				ings = append(ings, k.ing)
			}
		}
		return ings, nil
	case Shapeless:
		return d.shapeless()
	}
	return nil, nil
}

type keyEntry struct {
	char string
	ing  ingredient.Ingredient
}

// cells returns the grid slots the key character occupies in rows. Keys
// that are not a single non-space character occupy nothing.
func (k keyEntry) cells(rows [][]rune) []int {
	ch := []rune(k.char)
	if len(ch) != 1 || ch[0] == ' ' {
		return nil
	}
	var out []int
	for r, row := range rows {
		for c, cell := range row {
			if cell == ch[0] {
				out = append(out, GridSlot(r, c))
			}
		}
	}
	return out
}

// keys parses the key map in document order.
func (d *Definition) keys() ([]keyEntry, error) {
	key := d.doc.Get("key")
	if !key.IsObject() {
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "shaped recipe has no key object")
	}
	var (
		out []keyEntry
		err error
	)
	key.ForEach(func(k, v gjson.Result) bool {
		var ing ingredient.Ingredient
		if ing, err = ingredient.Parse(v); err != nil {
			return false
		}
		out = append(out, keyEntry{char: k.String(), ing: ing})
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// pattern returns the pattern rows as runes after checking the grid bounds.
func (d *Definition) pattern() ([][]rune, error) {
	p := d.doc.Get("pattern")
	if !p.IsArray() {
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "shaped recipe has no pattern array")
	}
	rows := p.Array()
	if len(rows) > GridSize {
		return nil, errors.New(errors.ErrCodeInvalidPattern, "pattern has %d rows, at most %d allowed", len(rows), GridSize)
	}
	out := make([][]rune, 0, len(rows))
	for i, row := range rows {
		if row.Type != gjson.String {
			return nil, errors.New(errors.ErrCodeInvalidPattern, "pattern row %d is not a string", i)
		}
		r := []rune(row.String())
		if len(r) > GridSize {
			return nil, errors.New(errors.ErrCodeInvalidPattern, "pattern row %d is %d wide, at most %d allowed", i, len(r), GridSize)
		}
		out = append(out, r)
	}
	return out, nil
}

func (d *Definition) shapeless() ([]ingredient.Ingredient, error) {
	list := d.doc.Get("ingredients")
	if !list.IsArray() {
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "shapeless recipe has no ingredients array")
	}
	elems := list.Array()
	if len(elems) > GridSize*GridSize {
		return nil, errors.New(errors.ErrCodeInvalidPattern, "%d ingredients exceed the %d grid slots", len(elems), GridSize*GridSize)
	}
	out := make([]ingredient.Ingredient, 0, len(elems))
	for _, el := range elems {
		ing, err := ingredient.Parse(el)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}
