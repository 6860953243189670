// Package tags flattens tag references into concrete item identifiers.
//
// A tag is a named, possibly nested collection: its values are either
// concrete ids ("minecraft:oak_planks") or further tag references
// ("#minecraft:planks"). [Resolver.Resolve] expands a reference depth-first,
// splicing nested tags in place and keeping duplicates that arise from
// structurally different tags. Callers that need a set deduplicate.
//
// # Missing and Broken Tags
//
// A reference whose definition cannot be found resolves to itself, as a
// single-element list, and a MISSING_RESOURCE diagnostic is reported.
// Downstream code then treats the unresolved tag as an opaque item.
// Unreadable or malformed tag files degrade the same way with INVALID_TAG.
//
// # Cycles
//
// The resolver tracks the tags currently being expanded. Re-entering one
// reports TAG_CYCLE with the full chain and contributes nothing for the
// repeated reference, so resolution always terminates.
//
// # Loading
//
// Definitions come from a [Loader]. [DirLoader] reads "<dir>/<stub>.json",
// where the stub is the reference without '#' and namespace, so
// "#c:ingots/iron" maps to "<dir>/ingots/iron.json". [MapLoader] serves
// definitions from memory and is convenient in tests.
package tags
