package render

import (
	"github.com/matzehuels/eventline/pkg/task"
	"github.com/matzehuels/eventline/pkg/timeline"
)

// DefaultWidth is the drawing width in pixels when none is given.
const DefaultWidth = 1200.0

// Option configures SVG and JSON rendering.
type Option func(*options)

type options struct {
	width    float64
	zoom     timeline.ZoomLevel
	focus    string
	selected string
	tasks    []task.Task
}

// WithWidth sets the drawing width in pixels. It should match the width the
// layout was computed for, or labels will not line up with their boxes.
func WithWidth(px float64) Option { return func(o *options) { o.width = px } }

// WithZoom sets the zoom level that determines the tick interval.
func WithZoom(z timeline.ZoomLevel) Option { return func(o *options) { o.zoom = z } }

// WithFocus draws the dependency connectors of the task with the given ID.
func WithFocus(id string) Option { return func(o *options) { o.focus = id } }

// WithSelection dims every task unrelated to id. The task list supplies the
// dependency relation and is usually the snapshot's full task list.
func WithSelection(id string, tasks []task.Task) Option {
	return func(o *options) { o.selected = id; o.tasks = tasks }
}

func newOptions(opts []Option) options {
	o := options{width: DefaultWidth, zoom: timeline.ZoomQuarter}
	for _, opt := range opts {
		opt(&o)
	}
	if o.width <= 0 {
		o.width = DefaultWidth
	}
	return o
}

// related returns nil when nothing is selected, meaning every node is shown
// at full strength.
func (o options) related() map[string]bool {
	if o.selected == "" {
		return nil
	}
	return timeline.RelatedSet(o.selected, o.tasks)
}

func (o options) edges(res timeline.Result) []timeline.Edge {
	if o.focus == "" {
		return nil
	}
	deps, dependents := res.Edges(o.focus)
	return append(deps, dependents...)
}
