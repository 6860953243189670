// Package loops finds crafting loops in a dependency graph.
//
// A crafting loop is a pair of items where each is an input of the other:
// iron ingots make an iron block and the block unpacks into ingots. An
// autocrafter that sources missing ingredients recursively would bounce
// between the two forever, so it consults a [Table] of known loops before
// recursing.
//
// # Detection
//
// [Detector.Detect] walks the outputs of a graph in sorted order, and each
// output's inputs in sorted order, and records every mutual dependency.
// Self dependencies are ignored. Pairs where both items carry a colour
// name in their stub are ignored as well, since dye recolouring recipes
// ("white_wool" from "red_wool" and back) would otherwise flood the table.
// The colour check is a substring match, so "redstone" counts as coloured.
//
// # Encodings
//
// The standard encoding maps each stub to the stubs it loops with:
//
//	{"iron_block": ["iron_ingot"], "iron_ingot": ["iron_block"]}
//
// [Table.Pairs] gives the alternate encoding of sorted unordered pairs:
//
//	[["iron_block", "iron_ingot"]]
//
// # Longer Cycles
//
// Only two-item loops enter the table. [Components] reports larger cycles
// as strongly connected components for diagnostic use.
package loops
