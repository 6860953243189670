// Package recipe decodes raw crafting recipes and normalizes them into
// slot-indexed placements.
//
// # Recipe Kinds
//
// Shaped recipes ("crafting_shaped", "transform_shaped") carry a pattern of
// up to three rows of up to three characters and a key mapping characters
// to ingredients. Shapeless recipes ("crafting_shapeless",
// "transform_shapeless") carry an ordered ingredient list. Type names may be
// namespaced; the namespace is ignored. Every other type is unsupported and
// normalizes to nothing.
//
// # Slots
//
// The consumer addresses the crafting grid by physical inventory slot, which
// skips two reserved slots. [GridSlot] numbers grid cells 1..9 row-major and
// [PhysicalSlot] maps them onto {1,2,3,5,6,7,9,10,11}.
//
// # Identifier Forms
//
// [Definition.Inputs] and [Definition.OutputID] return ids in canonical
// colon form for graph building. [Normalize] emits slash form for concrete
// ids so that output ids double as index keys; tag references are kept as
// written.
package recipe
