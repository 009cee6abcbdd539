// Package dag provides the directed graph used to reason about task
// dependencies.
//
// # Overview
//
// An edge From→To means "From depends on To" (To must complete first). The
// layout engine itself never walks this graph: dependency edges on the
// timeline are strictly one hop. The graph exists so that snapshots can be
// checked for cycles when they are imported or written, and so that the
// dependency structure can be exported to Graphviz.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "invitations"})
//	g.AddNode(dag.Node{ID: "venue"})
//	g.AddEdge(dag.Edge{From: "invitations", To: "venue"})
//
//	if cycle := g.FindCycle(); cycle != nil {
//	    // cycle is a path such as [a b a]
//	}
//
// # Cycles
//
// [DAG.FindCycle] reports the first cycle in insertion order. [DAG.BreakCycles]
// removes back edges so that a broken snapshot can still be converted.
// Both use depth-first coloring (white/gray/black) and run in O(N+E).
//
// Nodes keep their insertion order, so every traversal, and every reported
// cycle, is deterministic for a given snapshot.
package dag
