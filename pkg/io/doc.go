// Package io reads and writes the crafttable artifacts.
//
// # Loop Table
//
// The loop table is written in one of two encodings. The map encoding is
// the standard one consumed by the autocrafter:
//
//	{
//	    "iron_ingot": [
//	        "torch_launcher"
//	    ],
//	    "torch_launcher": [
//	        "iron_ingot"
//	    ]
//	}
//
// The pairs encoding lists each loop once as a sorted pair:
//
//	[
//	    ["iron_ingot", "torch_launcher"]
//	]
//
// Either encoding can be written as JSON (four-space indent) or YAML. The
// readers accept both encodings and tell them apart by the document shape,
// so [ReadLoops] needs only the format.
//
// # Recipe Groups
//
// [EncodeGroup] and [DecodeGroup] handle one recipe index group, a JSON
// array of normalized recipes.
//
// # Dependency Graph
//
// [WriteGraph] exports a dependency graph in a nodes/edges JSON document for
// external graph tools, and [ReadGraph] imports it again:
//
//	{
//	  "nodes": [{"id": "minecraft:stick"}, {"id": "minecraft:torch", "output": true}],
//	  "edges": [{"from": "minecraft:torch", "to": "minecraft:stick"}]
//	}
package io
