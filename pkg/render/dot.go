package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/eventline/pkg/task"
)

// DOTOptions configures dependency graph output.
type DOTOptions struct {
	// Detailed adds the resolved date and its description to each label.
	Detailed bool
}

// ToDOT converts the dependency graph of a snapshot to Graphviz DOT. Edges
// run from a task to each task it depends on; dependencies on unknown IDs
// are left out. Important tasks are outlined in red and completed tasks are
// drawn dashed.
func ToDOT(snap task.Snapshot, opts DOTOptions) string {
	g := snap.Graph()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		t, ok := snap.Lookup(n.ID)
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(*t, snap.Anchor, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(t task.Task, anchor task.Anchor, detailed bool) string {
	if !detailed {
		return t.Title
	}
	parts := []string{t.Title}
	if d, ok := task.Resolve(t, anchor.Time()); ok {
		parts = append(parts, task.FormatDate(d))
	}
	if t.Date != nil {
		parts = append(parts, task.Describe(t.Date, anchor.DisplayTitle()))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(t task.Task, anchor task.Anchor, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(t, anchor, detailed))}
	if t.Important {
		attrs = append(attrs, "color=red", "penwidth=2")
	}
	if t.Completed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderDOT lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with one
// whose viewBox starts at the origin, so the SVG scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
