package task

import (
	"strings"

	"github.com/matzehuels/eventline/pkg/dag"
	"github.com/matzehuels/eventline/pkg/errors"
)

// Graph builds the dependency graph of the snapshot. Edges point from a task
// to each of its dependencies; dangling dependency IDs and duplicate task IDs
// are skipped.
func (s Snapshot) Graph() *dag.DAG {
	g := dag.New()
	for _, t := range s.Tasks {
		_ = g.AddNode(dag.Node{ID: t.ID, Meta: dag.Metadata{"title": t.Title}})
	}
	for _, t := range s.Tasks {
		for _, dep := range t.Dependencies {
			_ = g.AddEdge(dag.Edge{From: t.ID, To: dep})
		}
	}
	return g
}

// ValidateDependencies returns a DEPENDENCY_CYCLE error naming the first
// cycle found, or nil.
func (s Snapshot) ValidateDependencies() error {
	if cycle := s.Graph().FindCycle(); cycle != nil {
		return errors.New(errors.ErrCodeDependencyCycle, "dependency cycle: %s", strings.Join(cycle, " -> "))
	}
	return nil
}

// Validate checks the snapshot before it is written or served: the anchor
// date and every task must be well formed, IDs unique, and dependencies
// acyclic. Dangling dependency IDs are allowed.
func (s Snapshot) Validate() error {
	if s.Anchor.IsSet() {
		if _, err := ParseDate(s.Anchor.Date); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDate, err, "event date")
		}
	}
	seen := make(map[string]bool, len(s.Tasks))
	for _, t := range s.Tasks {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate task id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return s.ValidateDependencies()
}

// Validate checks a single task in isolation.
func (t Task) Validate() error {
	if err := errors.ValidateTaskID(t.ID); err != nil {
		return err
	}
	if t.ID == EventID {
		return errors.New(errors.ErrCodeInvalidInput, "task id %q is reserved for the event marker", t.ID)
	}
	if err := errors.ValidateTitle(t.Title); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "task %s", t.ID)
	}
	switch spec := t.Date.(type) {
	case nil:
		return errors.New(errors.ErrCodeInvalidDate, "task %s has no date", t.ID)
	case Absolute:
		if _, err := ParseDate(string(spec)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDate, err, "task %s", t.ID)
		}
	case Relative:
		if spec.Unit() == "" {
			return errors.New(errors.ErrCodeInvalidDate, "task %s has an uninitialized relative date", t.ID)
		}
	}
	for _, dep := range t.Dependencies {
		if dep == t.ID {
			return errors.New(errors.ErrCodeDependencyCycle, "task %s depends on itself", t.ID)
		}
	}
	return nil
}
