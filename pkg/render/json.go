package render

import (
	"encoding/json"

	"github.com/matzehuels/eventline/pkg/task"
	"github.com/matzehuels/eventline/pkg/timeline"
)

type jsonOutput struct {
	Width    float64    `json:"width"`
	Range    jsonRange  `json:"range"`
	Zoom     string     `json:"zoom"`
	MaxLevel int        `json:"max_level"`
	Height   int        `json:"height"`
	Ticks    []string   `json:"ticks"`
	Nodes    []jsonNode `json:"nodes"`
	Focus    string     `json:"focus,omitempty"`
	Edges    []jsonEdge `json:"edges,omitempty"`
	Selected string     `json:"selected,omitempty"`
}

type jsonRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type jsonNode struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Date      string  `json:"date"`
	Position  float64 `json:"position"`
	Width     float64 `json:"width"`
	Level     int     `json:"level"`
	Y         int     `json:"y"`
	Event     bool    `json:"event,omitempty"`
	Important bool    `json:"important,omitempty"`
	Completed bool    `json:"completed,omitempty"`
	Dimmed    bool    `json:"dimmed,omitempty"`
}

type jsonEdge struct {
	From jsonEndpoint `json:"from"`
	To   jsonEndpoint `json:"to"`
	Kind string       `json:"kind"`
}

type jsonEndpoint struct {
	ID       string  `json:"id"`
	Position float64 `json:"position"`
	Level    int     `json:"level"`
}

func toJSONEndpoint(e timeline.Endpoint) jsonEndpoint {
	return jsonEndpoint{ID: e.ID, Position: e.Position, Level: e.Level}
}

// RenderJSON serialises a computed layout. Positions and widths stay in
// percent of the timeline width so a frontend can lay them out at any size.
func RenderJSON(res timeline.Result, r timeline.Range, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	related := o.related()

	out := jsonOutput{
		Width:    o.width,
		Range:    jsonRange{Start: task.FormatDate(r.Start), End: task.FormatDate(r.End)},
		Zoom:     o.zoom.String(),
		MaxLevel: res.MaxLevel,
		Height:   res.Height,
		Nodes:    make([]jsonNode, 0, len(res.Nodes)),
		Focus:    o.focus,
		Selected: o.selected,
	}
	for _, d := range timeline.Ticks(o.zoom, r) {
		out.Ticks = append(out.Ticks, task.FormatDate(d))
	}
	for _, n := range res.Nodes {
		jn := jsonNode{
			ID:       n.ID,
			Title:    n.Title,
			Date:     task.FormatDate(n.Date),
			Position: n.Position,
			Width:    n.Width,
			Level:    n.Level,
			Y:        timeline.NodeY(n.Level),
			Event:    n.IsEvent,
			Dimmed:   !n.IsEvent && related != nil && !related[n.ID],
		}
		if n.Task != nil {
			jn.Important = n.Task.Important
			jn.Completed = n.Task.Completed
		}
		out.Nodes = append(out.Nodes, jn)
	}
	for _, e := range o.edges(res) {
		out.Edges = append(out.Edges, jsonEdge{
			From: toJSONEndpoint(e.From),
			To:   toJSONEndpoint(e.To),
			Kind: e.Kind.String(),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
