// Package ingredient converts raw recipe ingredient values into a small
// tagged union.
//
// Raw recipes describe an ingredient in several shapes:
//
//	{"item": "minecraft:stick"}                         concrete item
//	{"tag": "c:ingots/iron"}                            tag reference
//	[{"item": "a:x"}, {"tag": "c:y"}]                   alternatives
//	"minecraft:stick"                                   legacy bare id
//
// [Parse] accepts any of them; [Ingredient.Candidates] flattens the result
// into the ordered list of ids and "#"-prefixed tag references that may
// satisfy the ingredient.
package ingredient

import (
	"github.com/tidwall/gjson"

	"github.com/matzehuels/crafttable/pkg/errors"
	"github.com/matzehuels/crafttable/pkg/item"
)

// Kind discriminates an [Ingredient].
type Kind int

const (
	// Concrete is a single item id.
	Concrete Kind = iota
	// TagReference is a "#"-prefixed tag reference.
	TagReference
	// Alternatives is an ordered list of nested ingredients.
	Alternatives
)

func (k Kind) String() string {
	switch k {
	case Concrete:
		return "concrete"
	case TagReference:
		return "tag"
	case Alternatives:
		return "alternatives"
	}
	return "unknown"
}

// Ingredient is a parsed ingredient. ID is set for Concrete and
// TagReference; Options is set for Alternatives.
type Ingredient struct {
	Kind    Kind
	ID      string
	Options []Ingredient
}

// Item returns a concrete ingredient.
func Item(id string) Ingredient { return Ingredient{Kind: Concrete, ID: id} }

// Tag returns a tag reference ingredient. The '#' prefix is added if absent.
func Tag(name string) Ingredient {
	if !item.IsTag(name) {
		name = item.TagPrefix + name
	}
	return Ingredient{Kind: TagReference, ID: name}
}

// OneOf returns an alternatives ingredient.
func OneOf(opts ...Ingredient) Ingredient {
	return Ingredient{Kind: Alternatives, Options: opts}
}

// Parse converts a raw JSON value into an Ingredient.
//
// Objects must carry "item" or "tag" (item wins if both are present),
// otherwise MALFORMED_INGREDIENT is returned. Arrays become alternatives,
// parsed recursively; an empty array is MALFORMED_INGREDIENT. Bare strings pass through unchanged as concrete ids,
// even if they already look like tag references. Numbers, booleans and
// null are UNSUPPORTED_INGREDIENT_TYPE.
func Parse(v gjson.Result) (Ingredient, error) {
	switch {
	case v.IsObject():
		if id := v.Get("item"); id.Exists() {
			if id.Type != gjson.String {
				return Ingredient{}, errors.New(errors.ErrCodeMalformedIngredient, "ingredient item must be a string, got %s", id.Raw)
			}
			return Item(id.String()), nil
		}
		if tag := v.Get("tag"); tag.Exists() {
			if tag.Type != gjson.String {
				return Ingredient{}, errors.New(errors.ErrCodeMalformedIngredient, "ingredient tag must be a string, got %s", tag.Raw)
			}
			return Tag(tag.String()), nil
		}
		return Ingredient{}, errors.New(errors.ErrCodeMalformedIngredient, "ingredient %s has neither item nor tag", v.Raw)

	case v.IsArray():
		var (
			opts []Ingredient
			err  error
		)
		v.ForEach(func(_, el gjson.Result) bool {
			var ing Ingredient
			if ing, err = Parse(el); err != nil {
				return false
			}
			opts = append(opts, ing)
			return true
		})
		if err != nil {
			return Ingredient{}, err
		}
		if len(opts) == 0 {
			return Ingredient{}, errors.New(errors.ErrCodeMalformedIngredient, "ingredient alternatives list is empty")
		}
		return OneOf(opts...), nil

	case v.Type == gjson.String:
		return Item(v.String()), nil
	}

	raw := v.Raw
	if raw == "" {
		raw = "<missing>"
	}
	return Ingredient{}, errors.New(errors.ErrCodeUnsupportedIngredientType, "unsupported ingredient %s", raw)
}

// Candidates returns the ids and tag references that satisfy the
// ingredient, flattening nested alternatives in order.
func (i Ingredient) Candidates() []string {
	if i.Kind != Alternatives {
		return []string{i.ID}
	}
	var out []string
	for _, o := range i.Options {
		out = append(out, o.Candidates()...)
	}
	return out
}
