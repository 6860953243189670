// Package item provides helpers for namespaced item identifiers and tag
// references.
//
// Identifiers are stored canonically in colon form ("minecraft:stick").
// The recipe index emits slash form ("minecraft/stick") so that ids double
// as relative artifact paths. Tag references carry a leading '#'
// ("#minecraft:planks") and are never rewritten.
package item

import "strings"

// TagPrefix marks a tag reference.
const TagPrefix = "#"

// IsTag reports whether s is a tag reference.
func IsTag(s string) bool { return strings.HasPrefix(s, TagPrefix) }

// Stub strips the namespace (and any tag prefix) from an identifier:
// "minecraft:stick" and "#minecraft:planks" yield "stick" and "planks".
// Slash-form ids are accepted as well. An id without a namespace is
// returned unchanged apart from the tag prefix.
func Stub(id string) string {
	id = strings.TrimPrefix(id, TagPrefix)
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[i+1:]
	}
	if i := strings.IndexByte(id, '/'); i >= 0 {
		return id[i+1:]
	}
	return id
}

// Namespace returns the namespace of a colon-form id, or "" if it has none.
func Namespace(id string) string {
	id = strings.TrimPrefix(id, TagPrefix)
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[:i]
	}
	return ""
}

// SlashForm rewrites a concrete id from colon to slash namespacing.
// Tag references are returned untouched.
func SlashForm(id string) string {
	if IsTag(id) {
		return id
	}
	return strings.ReplaceAll(id, ":", "/")
}
