package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/eventline/pkg/timeline"
)

const (
	nodeHeight  = 24.0
	tickHeight  = 6.0
	labelMargin = 10.0
)

const svgStyle = `
    .axis { stroke: #333; stroke-width: 2; }
    .tick { stroke: #999; stroke-width: 1; }
    .tick-label { font: 10px sans-serif; fill: #666; text-anchor: middle; }
    .stem { stroke: #bbb; stroke-width: 1; stroke-dasharray: 2 2; }
    .node rect { fill: #fff; stroke: #4a6fa5; stroke-width: 1.5; rx: 4; }
    .node text { font: 12px sans-serif; fill: #222; text-anchor: middle; dominant-baseline: central; }
    .node.important rect { stroke: #c0392b; stroke-width: 2.5; }
    .node.completed text { fill: #999; text-decoration: line-through; }
    .node.event rect { fill: #4a6fa5; stroke: #2c4870; }
    .node.event text { fill: #fff; font-weight: bold; }
    .node.focal rect { stroke-width: 3; }
    .node.dimmed { opacity: 0.25; }
    .edge { fill: none; stroke-width: 2; }
    .edge.depends_on { stroke: #e67e22; }
    .edge.required_for { stroke: #27ae60; }`

// RenderSVG draws a computed layout as a standalone SVG document. Node
// positions are scaled to the configured width and rows are placed at
// [timeline.NodeY]. The drawing is as tall as the layout's Height.
func RenderSVG(res timeline.Result, r timeline.Range, opts ...Option) []byte {
	o := newOptions(opts)
	w, h := o.width, float64(res.Height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)

	renderAxis(&buf, r, o.zoom, w, h)

	related := o.related()
	for _, n := range res.Nodes {
		renderStem(&buf, n, w)
	}
	for _, e := range o.edges(res) {
		renderEdge(&buf, e, w)
	}
	for _, n := range res.Nodes {
		renderNode(&buf, n, w, nodeClass(n, o.focus, related))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderAxis(buf *bytes.Buffer, r timeline.Range, z timeline.ZoomLevel, w, h float64) {
	y := float64(timeline.AxisY)
	fmt.Fprintf(buf, `  <line class="axis" x1="0" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", y, w, y)

	layout := "Jan 2"
	if z == timeline.ZoomFull {
		layout = "Jan 2006"
	}
	for _, d := range timeline.Ticks(z, r) {
		x := r.Position(d) / 100 * w
		fmt.Fprintf(buf, `  <line class="tick" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x, y, x, y+tickHeight)
		fmt.Fprintf(buf, `  <text class="tick-label" x="%.1f" y="%.1f">%s</text>`+"\n", x, h-labelMargin, d.Format(layout))
	}
}

func renderStem(buf *bytes.Buffer, n timeline.Node, w float64) {
	x := n.Position / 100 * w
	fmt.Fprintf(buf, `  <line class="stem" x1="%.1f" y1="%d" x2="%.1f" y2="%d"/>`+"\n",
		x, timeline.AxisY, x, timeline.NodeY(n.Level))
}

func renderNode(buf *bytes.Buffer, n timeline.Node, w float64, class string) {
	x := n.Left() / 100 * w
	y := float64(timeline.NodeY(n.Level))
	bw := n.Width / 100 * w
	fmt.Fprintf(buf, `  <g class="%s" id="node-%s" data-date="%s">`+"\n", class, html.EscapeString(n.ID), n.Date.Format("2006-01-02"))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n", x, y, bw, nodeHeight)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f">%s</text>`+"\n", x+bw/2, y+nodeHeight/2, html.EscapeString(n.Title))
	buf.WriteString("  </g>\n")
}

// renderEdge draws a connector between the vertical centres of two nodes,
// bowed so that connectors between nodes on the same row stay visible.
func renderEdge(buf *bytes.Buffer, e timeline.Edge, w float64) {
	x1, y1 := e.From.Position/100*w, float64(timeline.NodeY(e.From.Level))+nodeHeight/2
	x2, y2 := e.To.Position/100*w, float64(timeline.NodeY(e.To.Level))+nodeHeight/2
	bow := float64(timeline.LevelSpacing)
	fmt.Fprintf(buf, `  <path class="edge %s" d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" data-from="%s" data-to="%s"/>`+"\n",
		e.Kind, x1, y1, x1, y1+bow, x2, y2+bow, x2, y2,
		html.EscapeString(e.From.ID), html.EscapeString(e.To.ID))
}

func nodeClass(n timeline.Node, focus string, related map[string]bool) string {
	class := "node"
	if n.IsEvent {
		return class + " event"
	}
	if n.Task != nil && n.Task.Important {
		class += " important"
	}
	if n.Task != nil && n.Task.Completed {
		class += " completed"
	}
	if n.ID == focus {
		class += " focal"
	}
	if related != nil && !related[n.ID] {
		class += " dimmed"
	}
	return class
}
