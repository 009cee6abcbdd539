package timeline

import (
	"slices"
	"time"

	"github.com/matzehuels/eventline/pkg/task"
)

// EventNodeID identifies the synthetic event marker in a node list.
// Snapshot validation rejects tasks that claim it.
const EventNodeID = task.EventID

const (
	fontSize     = 12
	avgCharRatio = 0.55
	labelPadding = 16
)

// Node is one positioned label on the timeline. Nodes are rebuilt on every
// layout pass and have no identity beyond it.
type Node struct {
	// Task is nil for the event marker.
	Task *task.Task

	ID    string
	Title string
	Date  time.Time

	Position float64 // centre, percent of timeline width
	Width    float64 // estimated label width, percent of timeline width
	Level    int

	IsEvent bool
}

// Left returns the left edge of the node's footprint.
func (n Node) Left() float64 { return n.Position - n.Width/2 }

// Right returns the right edge of the node's footprint.
func (n Node) Right() float64 { return n.Position + n.Width/2 }

// EstimateTextWidth approximates the rendered pixel width of a label.
func EstimateTextWidth(title string) float64 {
	return float64(len(title))*fontSize*avgCharRatio + labelPadding
}

// BuildNodes turns every task that resolves to a date inside r into a node,
// preceded by the event marker when the anchor falls inside r. The result is
// sorted by date; nodes sharing a date keep input order, with the event
// marker first. Levels are left at zero.
//
// An empty slice is returned when pixelWidth is not positive, since widths
// cannot be expressed as percentages without a measured container.
func BuildNodes(tasks []task.Task, anchor task.Anchor, r Range, pixelWidth float64) []Node {
	if pixelWidth <= 0 {
		return nil
	}
	widthPct := func(title string) float64 {
		return EstimateTextWidth(title) / pixelWidth * 100
	}

	nodes := make([]Node, 0, len(tasks)+1)
	at := anchor.Time()
	if at != nil && r.Contains(*at) {
		title := anchor.DisplayTitle()
		nodes = append(nodes, Node{
			ID:       EventNodeID,
			Title:    title,
			Date:     *at,
			Position: r.Position(*at),
			Width:    widthPct(title),
			IsEvent:  true,
		})
	}

	for _, t := range tasks {
		d, ok := task.Resolve(t, at)
		if !ok || !r.Contains(d) {
			continue
		}
		nodes = append(nodes, Node{
			Task:     &t,
			ID:       t.ID,
			Title:    t.Title,
			Date:     d,
			Position: r.Position(d),
			Width:    widthPct(t.Title),
		})
	}

	slices.SortStableFunc(nodes, func(a, b Node) int { return a.Date.Compare(b.Date) })
	return nodes
}

// FindNode returns the node with the given ID.
func FindNode(nodes []Node, id string) (Node, bool) {
	i := slices.IndexFunc(nodes, func(n Node) bool { return n.ID == id })
	if i < 0 {
		return Node{}, false
	}
	return nodes[i], true
}
