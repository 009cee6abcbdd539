package timeline

// EdgeKind distinguishes the two connector colours drawn on hover.
type EdgeKind int

const (
	// DependsOn connects the focal task to one of its dependencies.
	DependsOn EdgeKind = iota
	// RequiredFor connects a task that depends on the focal task to it.
	RequiredFor
)

func (k EdgeKind) String() string {
	if k == RequiredFor {
		return "required_for"
	}
	return "depends_on"
}

// Endpoint is the drawable end of a connector.
type Endpoint struct {
	ID       string
	Position float64
	Level    int
}

// Edge is a connector between two nodes. From is always the dependent side
// and To the dependency.
type Edge struct {
	From Endpoint
	To   Endpoint
	Kind EdgeKind
}

func endpoint(n Node) Endpoint {
	return Endpoint{ID: n.ID, Position: n.Position, Level: n.Level}
}

// Edges computes the connectors for the task focalID against a packed node
// list. deps holds one edge per dependency of the focal task that currently
// has a node; dependents holds one edge per node whose task lists focalID.
// Dependencies without a node are omitted. Both lists are empty when the
// focal task itself has no node.
func Edges(focalID string, nodes []Node) (deps, dependents []Edge) {
	focal, ok := FindNode(nodes, focalID)
	if !ok || focal.Task == nil {
		return nil, nil
	}

	seen := make(map[string]bool, len(focal.Task.Dependencies))
	for _, id := range focal.Task.Dependencies {
		if seen[id] {
			continue
		}
		seen[id] = true
		if n, ok := FindNode(nodes, id); ok && !n.IsEvent {
			deps = append(deps, Edge{From: endpoint(focal), To: endpoint(n), Kind: DependsOn})
		}
	}

	for _, n := range nodes {
		if n.Task == nil || n.ID == focalID || !n.Task.DependsOn(focalID) {
			continue
		}
		dependents = append(dependents, Edge{From: endpoint(n), To: endpoint(focal), Kind: RequiredFor})
	}
	return deps, dependents
}
