package tags

import (
	"errors"
	"slices"
	"strings"

	"github.com/matzehuels/crafttable/pkg/diag"
	cterrors "github.com/matzehuels/crafttable/pkg/errors"
	"github.com/matzehuels/crafttable/pkg/item"
)

// Resolver expands tag references into concrete item ids.
//
// Definitions are memoized for the lifetime of the resolver, and each
// missing or broken tag is reported once. A Resolver is not safe for
// concurrent use.
type Resolver struct {
	loader Loader
	sink   diag.Sink

	defs   map[string]*Def // nil value: known missing or broken
	cycles map[string]bool // chains already reported
}

// NewResolver creates a resolver backed by loader. Diagnostics go to sink;
// a nil sink discards them.
func NewResolver(loader Loader, sink diag.Sink) *Resolver {
	if sink == nil {
		sink = diag.Discard
	}
	return &Resolver{
		loader: loader,
		sink:   sink,
		defs:   make(map[string]*Def),
		cycles: make(map[string]bool),
	}
}

// Resolve returns the concrete ids denoted by ref, in definition order and
// with duplicates preserved. A non-tag input is returned unchanged as a
// singleton. A tag without a definition resolves to itself.
func (r *Resolver) Resolve(ref string) []string {
	if !item.IsTag(ref) {
		return []string{ref}
	}
	return r.expand(ref, nil)
}

func (r *Resolver) expand(ref string, stack []string) []string {
	stub := item.Stub(ref)
	if slices.Contains(stack, stub) {
		r.reportCycle(append(slices.Clone(stack), stub))
		return nil
	}

	def := r.lookup(ref, stub)
	if def == nil {
		return []string{ref}
	}

	stack = append(stack, stub)
	out := make([]string, 0, len(def.Values))
	for _, v := range def.Values {
		if item.IsTag(v) {
			out = append(out, r.expand(v, stack)...)
		} else {
			out = append(out, v)
		}
	}
	return out
}

func (r *Resolver) lookup(ref, stub string) *Def {
	if def, seen := r.defs[stub]; seen {
		return def
	}

	def, err := r.loader.Load(stub)
	switch {
	case errors.Is(err, ErrNotFound):
		r.sink.Report(diag.Diagnostic{
			Severity: diag.Warning,
			Code:     cterrors.ErrCodeMissingResource,
			Subject:  "tag " + ref,
			Message:  "tag not found, treating it as an opaque item",
		})
		def = nil
	case err != nil:
		r.sink.Report(diag.Diagnostic{
			Severity: diag.Warning,
			Code:     cterrors.ErrCodeInvalidTag,
			Subject:  "tag " + ref,
			Message:  err.Error(),
		})
		def = nil
	}
	r.defs[stub] = def
	return def
}

func (r *Resolver) reportCycle(chain []string) {
	key := strings.Join(chain, " -> ")
	if r.cycles[key] {
		return
	}
	r.cycles[key] = true
	r.sink.Report(diag.Diagnostic{
		Severity: diag.Error,
		Code:     cterrors.ErrCodeTagCycle,
		Subject:  "tag #" + chain[0],
		Message:  "cyclic tag definition: " + key,
	})
}
