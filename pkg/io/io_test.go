package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/task"
)

func sampleSnapshot() task.Snapshot {
	return task.Snapshot{
		Anchor: task.Anchor{Date: "2025-06-01", Title: "Wedding"},
		Tasks: []task.Task{
			{ID: "venue", Title: "Book venue", Date: task.Absolute("2024-12-01"), Important: true},
			{ID: "cake", Title: "Order cake", Description: "Three tiers, lemon", Date: task.MustRelative(2, task.Weeks, task.Before), Dependencies: []string{"venue"}},
			{ID: "cards", Title: "Thank-you cards", Date: task.MustRelative(1, task.Months, task.After), Completed: true},
		},
	}
}

// localStorageBlob is what the browser app persists.
const localStorageBlob = `{
  "eventDate": "2025-06-01",
  "eventTitle": "Wedding",
  "tasks": [
    {"id": "venue", "title": "Book venue", "description": "", "dateType": "absolute", "date": "2024-12-01",
     "completed": false, "important": true, "dependencies": []},
    {"id": "cake", "title": "Order cake", "description": "Three tiers, lemon", "dateType": "relative",
     "relativeTime": {"value": 2, "unit": "weeks", "direction": "before"},
     "completed": false, "important": false, "dependencies": ["venue"]},
    {"id": "cards", "title": "Thank-you cards", "dateType": "relative",
     "relativeTime": {"value": 1, "unit": "months", "direction": "after"}, "completed": true, "important": false}
  ]
}`

func TestReadBrowserDocument(t *testing.T) {
	got, err := Read(strings.NewReader(localStorageBlob), FormatJSON)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := sampleSnapshot()
	if got.Anchor != want.Anchor {
		t.Errorf("Anchor = %+v, want %+v", got.Anchor, want.Anchor)
	}
	for i := range want.Tasks {
		g, w := got.Tasks[i], want.Tasks[i]
		if g.ID != w.ID || g.Title != w.Title || g.Date != w.Date || g.Important != w.Important || g.Completed != w.Completed {
			t.Errorf("task %d = %+v, want %+v", i, g, w)
		}
	}
	if !reflect.DeepEqual(got.Tasks[1].Dependencies, []string{"venue"}) {
		t.Errorf("cake dependencies = %v", got.Tasks[1].Dependencies)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(f), func(t *testing.T) {
			want := sampleSnapshot()
			data, err := Encode(want, f)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Read(bytes.NewReader(data), f)
			if err != nil {
				t.Fatalf("Read() error = %v\n%s", err, data)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, want)
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"malformed", `{"tasks": [`, errors.ErrCodeInvalidFormat},
		{"unknown unit", `{"tasks": [{"id": "a", "title": "A", "dateType": "relative", "relativeTime": {"value": 1, "unit": "fortnights", "direction": "before"}}]}`, errors.ErrCodeInvalidDate},
		{"unknown direction", `{"tasks": [{"id": "a", "title": "A", "dateType": "relative", "relativeTime": {"value": 1, "unit": "days", "direction": "around"}}]}`, errors.ErrCodeInvalidDate},
		{"zero value", `{"tasks": [{"id": "a", "title": "A", "dateType": "relative", "relativeTime": {"value": 0, "unit": "days", "direction": "before"}}]}`, errors.ErrCodeInvalidDate},
		{"missing relativeTime", `{"tasks": [{"id": "a", "title": "A", "dateType": "relative"}]}`, errors.ErrCodeInvalidDate},
		{"unknown dateType", `{"tasks": [{"id": "a", "title": "A", "dateType": "someday"}]}`, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc), FormatJSON)
			if !errors.Is(err, tt.code) {
				t.Errorf("Read() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReadAssignsMissingIDs(t *testing.T) {
	const doc = `{"tasks": [
	  {"title": "A", "dateType": "absolute", "date": "2025-01-01"},
	  {"title": "A", "dateType": "absolute", "date": "2025-01-02"},
	  {"title": "B", "dateType": "absolute", "date": "2025-01-03"}
	]}`
	read := func() []string {
		s, err := Read(strings.NewReader(doc), FormatJSON)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		return ids(s.Tasks)
	}

	first, second := read(), read()
	for i, id := range first {
		if len(id) != 36 {
			t.Errorf("ID %q is not a UUID", id)
		}
		if id != second[i] {
			t.Errorf("task %d: ID %q then %q, want the same ID on every read", i, id, second[i])
		}
	}
	if first[0] == first[1] {
		t.Error("tasks sharing a title got the same ID")
	}

	csv := "title,dateType,date\nA,absolute,2025-01-01\nA,absolute,2025-01-02\nB,absolute,2025-01-03\n"
	tasks, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := ids(tasks); !reflect.DeepEqual(got, first) {
		t.Errorf("CSV IDs = %v, want %v", got, first)
	}
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"json", FormatJSON, true},
		{"YAML", FormatYAML, true},
		{"yml", FormatYAML, true},
		{"toml", FormatTOML, true},
		{"csv", FormatCSV, true},
		{"xml", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}

	if f, err := FormatFromPath("plans/wedding.yml"); err != nil || f != FormatYAML {
		t.Errorf("FormatFromPath(.yml) = %q, %v", f, err)
	}
	if _, err := FormatFromPath("Makefile"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("FormatFromPath(no ext) error = %v", err)
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plan.json", "plan.yaml", "plan.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			want := sampleSnapshot()
			if err := Export(want, path); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			got, err := Import(path)
			if err != nil {
				t.Fatalf("Import() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Import() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Import(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Import(missing) error = %v, want FILE_NOT_FOUND", err)
	}

	cyclic := filepath.Join(dir, "cyclic.json")
	doc := `{"tasks": [
	  {"id": "a", "title": "A", "dateType": "absolute", "date": "2025-01-01", "dependencies": ["b"]},
	  {"id": "b", "title": "B", "dateType": "absolute", "date": "2025-01-02", "dependencies": ["a"]}
	]}`
	if err := os.WriteFile(cyclic, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(cyclic); !errors.Is(err, errors.ErrCodeDependencyCycle) {
		t.Errorf("Import(cyclic) error = %v, want DEPENDENCY_CYCLE", err)
	}
}

func TestExportRefusesInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	s := sampleSnapshot()
	s.Tasks[0].Date = task.Absolute("2025-02-30")
	if err := Export(s, path); !errors.Is(err, errors.ErrCodeInvalidDate) {
		t.Errorf("Export() error = %v, want INVALID_DATE", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Export() wrote a file despite failing validation")
	}
}

func TestImportLenient(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	doc := `{"eventDate": "2025-06-01", "tasks": [
	  {"id": "venue", "title": "Book venue", "dateType": "absolute", "date": "2025-02-30"},
	  {"id": "cake", "title": "Order cake", "dateType": "relative",
	   "relativeTime": {"value": 2, "unit": "weeks", "direction": "before"}, "dependencies": ["venue"]},
	  {"id": "cards", "title": "Thank-you cards", "dateType": "absolute", "date": "2025-07-01"}
	]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Import(path); !errors.Is(err, errors.ErrCodeInvalidDate) {
		t.Errorf("Import() error = %v, want INVALID_DATE", err)
	}

	s, dropped, err := ImportLenient(path)
	if err != nil {
		t.Fatalf("ImportLenient() error = %v", err)
	}
	if got, want := ids(s.Tasks), []string{"cake", "cards"}; !reflect.DeepEqual(got, want) {
		t.Errorf("kept = %v, want %v", got, want)
	}
	if len(dropped) != 1 || dropped[0].ID != "venue" || !errors.Is(dropped[0].Err, errors.ErrCodeInvalidDate) {
		t.Errorf("dropped = %+v, want venue with INVALID_DATE", dropped)
	}

	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"cycle", `{"tasks": [
		  {"id": "a", "title": "A", "dateType": "absolute", "date": "2025-01-01", "dependencies": ["b"]},
		  {"id": "b", "title": "B", "dateType": "absolute", "date": "2025-01-02", "dependencies": ["a"]}
		]}`, errors.ErrCodeDependencyCycle},
		{"duplicate id", `{"tasks": [
		  {"id": "a", "title": "A", "dateType": "absolute", "date": "2025-01-01"},
		  {"id": "a", "title": "B", "dateType": "absolute", "date": "2025-01-02"}
		]}`, errors.ErrCodeInvalidInput},
		{"bad event date", `{"eventDate": "June", "tasks": []}`, errors.ErrCodeInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "-")+".json")
			if err := os.WriteFile(p, []byte(tt.doc), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, _, err := ImportLenient(p); !errors.Is(err, tt.code) {
				t.Errorf("ImportLenient() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestImportRejectsEventMarkerID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	doc := `{"tasks": [{"id": "event", "title": "Party", "dateType": "absolute", "date": "2025-01-01"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Import() error = %v, want INVALID_INPUT", err)
	}
}
