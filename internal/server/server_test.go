package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/eventline/pkg/errors"
	pkgio "github.com/matzehuels/eventline/pkg/io"
	"github.com/matzehuels/eventline/pkg/observability"
	"github.com/matzehuels/eventline/pkg/pipeline"
	"github.com/matzehuels/eventline/pkg/task"
)

func wedding() task.Snapshot {
	return task.Snapshot{
		Anchor: task.Anchor{Date: "2025-06-01", Title: "Wedding"},
		Tasks: []task.Task{
			{ID: "venue", Title: "Book venue", Date: task.Absolute("2025-05-02"), Important: true},
			{ID: "cake", Title: "Order cake", Date: task.MustRelative(2, task.Weeks, task.Before), Dependencies: []string{"venue"}},
			{ID: "flowers", Title: "Order flowers", Date: task.MustRelative(2, task.Weeks, task.Before), Dependencies: []string{"cake"}},
			{ID: "cards", Title: "Thank-you cards", Date: task.MustRelative(1, task.Months, task.After)},
		},
	}
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	clock := func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) }
	s := New(wedding(), runner, logger, append([]Option{WithClock(clock)}, opts...)...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string, into any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if into != nil {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	var body healthResponse
	resp := get(t, ts.URL+"/healthz", &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body.Status != "ok" || body.Tasks != 4 || body.Build.Version == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestTasks(t *testing.T) {
	_, ts := newTestServer(t)

	var list []taskResponse
	get(t, ts.URL+"/tasks", &list)
	var ids []string
	for _, tr := range list {
		ids = append(ids, tr.ID)
	}
	if got := strings.Join(ids, ","); got != "venue,cake,flowers,cards" {
		t.Errorf("task order = %s", got)
	}

	var one taskResponse
	get(t, ts.URL+"/tasks/cake", &one)
	if one.Date != "2025-05-18" || one.When != "2 weeks before Wedding" {
		t.Errorf("cake = %+v", one)
	}

	var missing errorBody
	resp := get(t, ts.URL+"/tasks/nope", &missing)
	if resp.StatusCode != http.StatusNotFound || missing.Error.Code != errors.ErrCodeTaskNotFound {
		t.Errorf("missing task: status %d body %+v", resp.StatusCode, missing)
	}
}

func TestEdges(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name           string
		query          string
		wantVisible    bool
		wantDeps       int
		wantDependents int
	}{
		{"in range", "?start=2025-05-01&end=2025-06-30&width=800", true, 1, 1},
		{"out of range", "?start=2025-07-01&end=2025-07-31", false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body edgesResponse
			resp := get(t, ts.URL+"/tasks/cake/edges"+tt.query, &body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if body.Visible != tt.wantVisible || len(body.DependsOn) != tt.wantDeps || len(body.RequiredFor) != tt.wantDependents {
				t.Errorf("body = %+v", body)
			}
		})
	}

	const query = "?start=2025-05-01&end=2025-06-30"
	var layout struct {
		Nodes []endpointResponse `json:"nodes"`
	}
	get(t, ts.URL+"/layout"+query, &layout)
	nodes := map[string]endpointResponse{}
	for _, n := range layout.Nodes {
		nodes[n.ID] = n
	}

	var body edgesResponse
	get(t, ts.URL+"/tasks/cake/edges"+query, &body)
	if want := (edgeResponse{From: nodes["cake"], To: nodes["venue"]}); body.DependsOn[0] != want {
		t.Errorf("depends_on = %+v, want %+v", body.DependsOn[0], want)
	}
	if want := (edgeResponse{From: nodes["flowers"], To: nodes["cake"]}); body.RequiredFor[0] != want {
		t.Errorf("required_for = %+v, want %+v", body.RequiredFor[0], want)
	}
	if from := body.DependsOn[0].From; from.Position <= 0 || from.Position >= 100 {
		t.Errorf("endpoint position = %v, want inside the range", from.Position)
	}
}

func TestEdgeEndpointShape(t *testing.T) {
	_, ts := newTestServer(t)

	var raw struct {
		DependsOn []map[string]map[string]any `json:"depends_on"`
	}
	get(t, ts.URL+"/tasks/cake/edges?start=2025-05-01&end=2025-06-30", &raw)
	if len(raw.DependsOn) != 1 {
		t.Fatalf("depends_on = %+v", raw.DependsOn)
	}
	for _, side := range []string{"from", "to"} {
		ep := raw.DependsOn[0][side]
		for _, key := range []string{"id", "position", "level"} {
			if _, ok := ep[key]; !ok {
				t.Errorf("%s endpoint missing %q: %v", side, key, ep)
			}
		}
	}
}

func TestRelated(t *testing.T) {
	_, ts := newTestServer(t)
	var body relatedResponse
	get(t, ts.URL+"/tasks/cake/related", &body)
	if got := strings.Join(body.Related, ","); got != "cake,flowers,venue" {
		t.Errorf("related = %s", got)
	}
}

func TestLayoutAndSVG(t *testing.T) {
	_, ts := newTestServer(t)

	var layout struct {
		Range struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"range"`
		Zoom  string            `json:"zoom"`
		Nodes []json.RawMessage `json:"nodes"`
	}
	resp := get(t, ts.URL+"/layout", &layout)
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("content type = %q", resp.Header.Get("Content-Type"))
	}
	// With an anchor and no range the full view around the event is used.
	if layout.Range.Start != "2024-09-01" || layout.Range.End != "2025-09-01" || layout.Zoom != "full" {
		t.Errorf("layout = %+v", layout)
	}
	if len(layout.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(layout.Nodes))
	}

	resp, err := http.Get(ts.URL + "/timeline.svg?start=2025-05-01&end=2025-06-30&focus=cake")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	svg, _ := io.ReadAll(resp.Body)
	if resp.Header.Get("Content-Type") != "image/svg+xml" || !strings.Contains(string(svg), "edge depends_on") {
		t.Errorf("svg response: %s %.200s", resp.Header.Get("Content-Type"), svg)
	}
}

func TestBadRequests(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		query  string
		status int
		code   errors.Code
	}{
		{"/layout?start=2025-06-01&end=2025-01-01", http.StatusBadRequest, errors.ErrCodeInvalidRange},
		{"/layout?start=2025-06-01", http.StatusBadRequest, errors.ErrCodeInvalidRange},
		{"/layout?width=wide", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/layout?width=NaN", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/layout?width=Inf", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/layout?buffer=NaN", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/layout?buffer=Inf", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/tasks/cake/edges?width=NaN", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/layout?zoom=7", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/timeline.svg?focus=ghost", http.StatusNotFound, errors.ErrCodeTaskNotFound},
		{"/reload", http.StatusMethodNotAllowed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.code == "" {
				return
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.code)
			}
		})
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := pkgio.Export(wedding(), path); err != nil {
		t.Fatal(err)
	}
	s, ts := newTestServer(t, WithSource(path))

	updated := wedding()
	updated.Tasks = updated.Tasks[:2]
	if err := pkgio.Export(updated, path); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(ts.URL+"/reload", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := len(s.Snapshot().Tasks); got != 2 {
		t.Errorf("tasks after reload = %d, want 2", got)
	}

	if err := os.WriteFile(path, []byte(`{"tasks": [{"id": "a", "title": "A", "dateType": "absolute", "date": "nope"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(context.Background()); err == nil {
		t.Error("Reload() accepted an invalid file")
	}
	if got := len(s.Snapshot().Tasks); got != 2 {
		t.Errorf("failed reload replaced snapshot: %d tasks", got)
	}
}

func TestReloadWithoutSource(t *testing.T) {
	s, _ := newTestServer(t)
	if err := s.Reload(context.Background()); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Reload() error = %v", err)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	_, ts := newTestServer(t)
	get(t, ts.URL+"/tasks/cake/related", nil)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 1 || !strings.Contains(hooks.routes[0], "{id}") {
		t.Errorf("routes = %v, want the route pattern", hooks.routes)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
