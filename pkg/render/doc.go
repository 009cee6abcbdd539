// Package render turns a computed timeline layout into output formats.
//
// # Overview
//
// The layout engine in [timeline] produces positions as percentages of the
// timeline width and levels as row indices. This package maps those onto
// concrete artifacts:
//
//   - [RenderSVG]: a standalone timeline drawing
//   - [RenderJSON]: the layout as a serialisable document for web frontends
//   - [ToDOT] and [RenderDOT]: the dependency graph as a node-link diagram
//   - [ToPDF] and [ToPNG]: conversion of any SVG via rsvg-convert
//
// # Options
//
// SVG and JSON output share the same [Option] set:
//
//	svg := render.RenderSVG(result, r,
//	    render.WithWidth(1200),
//	    render.WithZoom(timeline.ZoomQuarter),
//	    render.WithFocus("order-cake"),
//	)
//
// [WithFocus] draws the dependency connectors of one task. [WithSelection]
// dims every task that is neither the selected task nor directly connected
// to it. The event marker is never dimmed.
//
// # Dependency Graph
//
// [ToDOT] emits Graphviz DOT with one box per task and an edge from every
// task to each of its dependencies. [RenderDOT] lays it out in-process with
// [github.com/goccy/go-graphviz], so no Graphviz installation is needed.
//
// [timeline]: github.com/matzehuels/eventline/pkg/timeline
package render
