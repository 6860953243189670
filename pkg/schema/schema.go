// Package schema validates raw recipe files against an embedded JSON
// Schema.
//
// Validation is advisory: the normalizer tolerates several things the
// schema rejects (a zero count, for instance) and reports them as
// diagnostics instead. The validate command uses this package to lint a
// corpus before it is indexed.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	cterrors "github.com/matzehuels/crafttable/pkg/errors"
)

// URL identifies the embedded recipe schema.
const URL = "https://crafttable.dev/schemas/recipe.schema.json"

//go:embed recipe.schema.json
var recipeSchema string

// Source returns the embedded schema document.
func Source() string { return recipeSchema }

// Compile compiles the embedded recipe schema.
func Compile() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(URL, strings.NewReader(recipeSchema)); err != nil {
		return nil, err
	}
	return c.Compile(URL)
}

var compiled = sync.OnceValues(Compile)

// Violation is one schema failure.
type Violation struct {
	Path    string // JSON pointer into the recipe, "" for the root
	Message string
}

func (v Violation) String() string {
	path := v.Path
	if path == "" {
		path = "/"
	}
	return path + ": " + v.Message
}

// Validate checks a raw recipe against the schema. Invalid JSON and schema
// violations are returned as INVALID_RECIPE errors; use [Violations] to
// list the individual failures.
func Validate(data []byte) error {
	s, err := compiled()
	if err != nil {
		return cterrors.Wrap(cterrors.ErrCodeInternal, err, "compile recipe schema")
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return cterrors.Wrap(cterrors.ErrCodeInvalidRecipe, err, "invalid JSON")
	}
	if err := s.Validate(doc); err != nil {
		return cterrors.Wrap(cterrors.ErrCodeInvalidRecipe, err, "schema validation failed")
	}
	return nil
}

// Violations flattens the leaf failures of a validation error. It returns
// nil when err carries no schema validation error.
func Violations(err error) []Violation {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	var out []Violation
	collect(verr, &out)
	return out
}

func collect(e *jsonschema.ValidationError, out *[]Violation) {
	if len(e.Causes) == 0 {
		*out = append(*out, Violation{Path: e.InstanceLocation, Message: e.Message})
		return
	}
	for _, c := range e.Causes {
		collect(c, out)
	}
}
