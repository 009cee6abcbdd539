package timeline

import "github.com/matzehuels/eventline/pkg/task"

// Input is everything one layout pass depends on.
type Input struct {
	Snapshot   task.Snapshot
	Range      Range
	PixelWidth float64

	// Buffer overrides NodeBuffer when positive.
	Buffer float64
}

// Result is the packed node list plus the vertical extent it needs.
type Result struct {
	Nodes    []Node
	MaxLevel int
	Height   int
}

// Compute runs a full layout pass. It is deterministic: equal inputs always
// produce equal results.
func Compute(in Input) Result {
	buffer := in.Buffer
	if buffer <= 0 {
		buffer = NodeBuffer
	}
	nodes := BuildNodes(in.Snapshot.Tasks, in.Snapshot.Anchor, in.Range, in.PixelWidth)
	nodes = AssignLevelsWithBuffer(nodes, buffer)
	maxLevel := MaxLevel(nodes)
	return Result{Nodes: nodes, MaxLevel: maxLevel, Height: Height(maxLevel)}
}

// Edges computes the connectors for focalID against the result's nodes.
func (r Result) Edges(focalID string) (deps, dependents []Edge) {
	return Edges(focalID, r.Nodes)
}
