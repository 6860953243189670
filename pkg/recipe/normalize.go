package recipe

import (
	"path"
	"strings"

	"github.com/matzehuels/crafttable/pkg/diag"
	"github.com/matzehuels/crafttable/pkg/errors"
	"github.com/matzehuels/crafttable/pkg/item"
)

// Output is the produced item and quantity.
type Output struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Normalized is a recipe in slot-indexed form.
type Normalized struct {
	Input  Placement `json:"input"`
	Output Output    `json:"output"`
}

// Normalize converts def into its slot-indexed form.
//
// Unsupported recipe types yield (nil, nil). Any per-recipe fault returns a
// coded error and no partial result; the caller decides how to report it.
// An output id that cannot serve as an index key is INVALID_KEY.
// A missing or non-positive count is defaulted to 1 and reported to sink as
// a ZERO_OR_MISSING_COUNT warning.
func Normalize(def *Definition, sink diag.Sink) (*Normalized, error) {
	if !def.Supported() {
		return nil, nil
	}
	if sink == nil {
		sink = diag.Discard
	}

	id, err := def.OutputID()
	if err != nil {
		return nil, err
	}
	if err := validateOutput(item.SlashForm(id)); err != nil {
		return nil, err
	}

	var input Placement
	switch def.Kind {
	case Shaped:
		input, err = shapedPlacement(def)
	case Shapeless:
		input, err = shapelessPlacement(def)
	}
	if err != nil {
		return nil, err
	}

	count, ok := def.Count()
	if !ok {
		sink.Report(diag.Diagnostic{
			Severity: diag.Warning,
			Code:     errors.ErrCodeZeroOrMissingCount,
			Subject:  "recipe " + def.Name,
			Message:  "result count missing or not positive, defaulted to 1",
		})
	}

	return &Normalized{
		Input:  input,
		Output: Output{ID: item.SlashForm(id), Count: count},
	}, nil
}

// validateOutput rejects output ids that cannot name an index entry: the
// slash form must be a valid artifact key and its last segment must not
// start with '_', which marks internal entries.
func validateOutput(key string) error {
	if err := errors.ValidateKey(key); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidKey, err, "output %q is not a usable index key", key)
	}
	if strings.HasPrefix(path.Base(key), "_") {
		return errors.New(errors.ErrCodeInvalidKey, "output %q collides with internal index keys", key)
	}
	return nil
}

func shapedPlacement(def *Definition) (Placement, error) {
	rows, err := def.pattern()
	if err != nil {
		return nil, err
	}
	keys, err := def.keys()
	if err != nil {
		return nil, err
	}

	p := make(Placement)
	for _, k := range keys {
		cands := slashForms(k.ing.Candidates())
		for _, cell := range k.cells(rows) {
			slot := PhysicalSlot(cell)
			p[slot] = append(p[slot], cands...)
		}
	}
	return p, nil
}

func shapelessPlacement(def *Definition) (Placement, error) {
	ings, err := def.shapeless()
	if err != nil {
		return nil, err
	}
	p := make(Placement, len(ings))
	for i, ing := range ings {
		slot := PhysicalSlot(i + 1)
		p[slot] = append(p[slot], slashForms(ing.Candidates())...)
	}
	return p, nil
}

func slashForms(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = item.SlashForm(id)
	}
	return out
}
