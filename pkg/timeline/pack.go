package timeline

import (
	"slices"
	"sort"
)

// NodeBuffer is the margin, in percentage points of the timeline width, added
// to both sides of every footprint before testing for overlap.
const NodeBuffer = 3.0

// Vertical geometry of the rendered timeline, in pixels.
const (
	AxisY         = 4
	BaseOffset    = 25
	LevelSpacing  = 35
	MinHeight     = 180
	headerPadding = 30
	footerPadding = 80
)

// Overlaps reports whether the footprints of a and b intersect once each is
// widened by buffer on both sides. Touching footprints overlap.
func Overlaps(a, b Node, buffer float64) bool {
	return !(before(a, b, buffer) || before(b, a, buffer))
}

// before reports whether a ends strictly before b begins, buffers included.
func before(a, b Node, buffer float64) bool {
	return a.Right()+buffer < b.Left()-buffer
}

// AssignLevels places nodes into lanes using NodeBuffer. See
// AssignLevelsWithBuffer.
func AssignLevels(nodes []Node) []Node {
	return AssignLevelsWithBuffer(nodes, NodeBuffer)
}

// AssignLevelsWithBuffer assigns each node the lowest level at which it
// overlaps none of the nodes already placed there. Nodes are placed in the
// order given, which BuildNodes makes ascending by date. The input slice is
// not modified.
//
// Every lane keeps its footprints sorted. Footprints within one lane are
// pairwise disjoint, so sorting by left edge also sorts by right edge, and a
// binary search finds the only candidate that can collide with a new node.
// The resulting assignment is identical to testing the new node against every
// placed node in the lane.
func AssignLevelsWithBuffer(nodes []Node, buffer float64) []Node {
	out := slices.Clone(nodes)
	var lanes [][]Node

	for i := range out {
		n := out[i]
		level := 0
		for ; level < len(lanes); level++ {
			if at, free := slot(lanes[level], n, buffer); free {
				lanes[level] = slices.Insert(lanes[level], at, n)
				break
			}
		}
		if level == len(lanes) {
			lanes = append(lanes, []Node{n})
		}
		out[i].Level = level
	}
	return out
}

// slot finds where n would go in lane and whether it fits there.
func slot(lane []Node, n Node, buffer float64) (int, bool) {
	i := sort.Search(len(lane), func(j int) bool { return !before(lane[j], n, buffer) })
	if i < len(lane) && !before(n, lane[i], buffer) {
		return i, false
	}
	return i, true
}

// MaxLevel returns the deepest level used, or 0 for no nodes.
func MaxLevel(nodes []Node) int {
	m := 0
	for _, n := range nodes {
		m = max(m, n.Level)
	}
	return m
}

// Height returns the pixel height needed to draw maxLevel+1 lanes.
func Height(maxLevel int) int {
	return max(MinHeight, headerPadding+maxLevel*LevelSpacing+footerPadding)
}

// NodeY returns the vertical pixel offset of a lane below the axis.
func NodeY(level int) int {
	return AxisY + BaseOffset + level*LevelSpacing
}
