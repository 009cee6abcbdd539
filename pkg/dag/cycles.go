package dag

const (
	white = iota
	gray
	black
)

// FindCycle returns the first cycle found as a path of node IDs whose last
// element repeats the first (e.g. [a b c a]), or nil if the graph is acyclic.
// Traversal follows insertion order, so the result is deterministic.
func (d *DAG) FindCycle() []string {
	color := make(map[string]int, len(d.nodes))
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == child {
						cycle = append(append([]string{}, stack[i:]...), child)
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, id := range d.order {
		if color[id] == white && dfs(id) {
			return cycle
		}
	}
	return nil
}

// BreakCycles removes back edges found by depth-first search until the graph
// is acyclic and returns the removed edges. Sources are visited first so
// that the edges closest to the roots survive.
func (d *DAG) BreakCycles() []Edge {
	color := make(map[string]int, len(d.nodes))
	var backEdges []Edge

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, Edge{From: id, To: child})
			}
		}
		color[id] = black
	}

	for _, n := range d.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
		}
	}

	for _, e := range backEdges {
		d.RemoveEdge(e.From, e.To)
	}
	return backEdges
}
