package server

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/eventline/pkg/buildinfo"
	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/pipeline"
	"github.com/matzehuels/eventline/pkg/task"
	"github.com/matzehuels/eventline/pkg/timeline"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
	Tasks  int            `json:"tasks"`
}

type taskResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Date         string   `json:"date,omitempty"`
	When         string   `json:"when"`
	Important    bool     `json:"important,omitempty"`
	Completed    bool     `json:"completed,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

type endpointResponse struct {
	ID       string  `json:"id"`
	Position float64 `json:"position"`
	Level    int     `json:"level"`
}

type edgeResponse struct {
	From endpointResponse `json:"from"`
	To   endpointResponse `json:"to"`
}

type edgesResponse struct {
	ID          string         `json:"id"`
	Visible     bool           `json:"visible"`
	DependsOn   []edgeResponse `json:"depends_on"`
	RequiredFor []edgeResponse `json:"required_for"`
}

type relatedResponse struct {
	ID      string   `json:"id"`
	Related []string `json:"related"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Build:  buildinfo.Get(),
		Tasks:  len(s.Snapshot().Tasks),
	})
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	anchor := snap.Anchor.Time()
	out := make([]taskResponse, 0, len(snap.Tasks))
	for _, t := range task.SortByDate(snap.Tasks, anchor) {
		out = append(out, toTaskResponse(t, snap.Anchor))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	t, err := lookup(snap, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(*t, snap.Anchor))
}

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	id := chi.URLParam(r, "id")
	if _, err := lookup(snap, id); err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.options(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	l, err := s.runner.Layout(r.Context(), snap, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	_, visible := timeline.FindNode(l.Nodes, id)
	deps, dependents := l.Edges(id)
	writeJSON(w, http.StatusOK, edgesResponse{
		ID:          id,
		Visible:     visible,
		DependsOn:   toEdgeResponses(deps),
		RequiredFor: toEdgeResponses(dependents),
	})
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	id := chi.URLParam(r, "id")
	if _, err := lookup(snap, id); err != nil {
		writeError(w, err)
		return
	}
	related := make([]string, 0)
	for rid := range timeline.RelatedSet(id, snap.Tasks) {
		related = append(related, rid)
	}
	slices.Sort(related)
	writeJSON(w, http.StatusOK, relatedResponse{ID: id, Related: related})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatJSON, "application/json")
}

func (s *Server) handleTimelineSVG(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatSVG, "image/svg+xml")
}

func (s *Server) handleDepsSVG(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatDeps, "image/svg+xml")
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	s.handleHealth(w, r)
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, format, contentType string) {
	opts, err := s.options(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	snap := s.Snapshot()
	for _, id := range []string{opts.Focus, opts.Select} {
		if id == "" {
			continue
		}
		if _, err := lookup(snap, id); err != nil {
			writeError(w, err)
			return
		}
	}

	res, err := s.runner.Render(r.Context(), snap, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeBytes(w, contentType, res.Artifacts[format])
}

// options maps query parameters onto pipeline options.
func (s *Server) options(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{
		Start:  q.Get("start"),
		End:    q.Get("end"),
		Focus:  q.Get("focus"),
		Select: q.Get("select"),
		Width:  s.width,
		Buffer: s.buffer,
		Now:    s.now(),
	}

	var err error
	if v := q.Get("width"); v != "" {
		if opts.Width, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "width")
		}
	}
	if v := q.Get("buffer"); v != "" {
		if opts.Buffer, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "buffer")
		}
	}
	if v := q.Get("zoom"); v != "" {
		z, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "zoom")
		}
		opts.Zoom = timeline.ZoomLevel(z)
	}

	opts.SetDefaults()
	return opts, opts.Validate()
}

func lookup(snap task.Snapshot, id string) (*task.Task, error) {
	t, ok := snap.Lookup(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeTaskNotFound, "task %q not found", id)
	}
	return t, nil
}

func toTaskResponse(t task.Task, anchor task.Anchor) taskResponse {
	out := taskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Important:    t.Important,
		Completed:    t.Completed,
		Dependencies: t.Dependencies,
	}
	if d, ok := task.Resolve(t, anchor.Time()); ok {
		out.Date = task.FormatDate(d)
	}
	if t.Date != nil {
		out.When = task.Describe(t.Date, anchor.DisplayTitle())
	}
	return out
}

func toEdgeResponses(edges []timeline.Edge) []edgeResponse {
	out := make([]edgeResponse, 0, len(edges))
	for _, e := range edges {
		out = append(out, edgeResponse{
			From: endpointResponse{ID: e.From.ID, Position: e.From.Position, Level: e.From.Level},
			To:   endpointResponse{ID: e.To.ID, Position: e.To.Position, Level: e.To.Level},
		})
	}
	return out
}
