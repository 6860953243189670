// Package render draws the item dependency graph as a Graphviz node-link
// diagram.
//
// [ToDOT] emits DOT text: craftable outputs are white boxes, raw materials
// are grey ellipses, and every edge runs from an output to one of its
// inputs. Edges that belong to a crafting loop are drawn in red so that
// loops stand out in large corpora. With [Options.LoopsOnly] the diagram is
// restricted to loop members, which is usually the readable view.
//
//	dot := render.ToDOT(g, table, render.Options{LoopsOnly: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [RenderSVG] lays the DOT out with the embedded Graphviz build from
// goccy/go-graphviz, so no system Graphviz install is needed.
package render
