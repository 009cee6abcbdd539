package task

import (
	"slices"
	"testing"

	"github.com/matzehuels/eventline/pkg/errors"
)

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func sample() Snapshot {
	return Snapshot{
		Anchor: Anchor{Date: "2025-06-01", Title: "Wedding"},
		Tasks: []Task{
			{ID: "venue", Title: "Book venue", Date: MustRelative(6, Months, Before), Important: true},
			{ID: "invites", Title: "Send invitations", Date: MustRelative(2, Months, Before), Dependencies: []string{"venue", "guests"}},
			{ID: "guests", Title: "Guest list", Date: Absolute("2025-01-10"), Completed: true},
			{ID: "cake", Title: "Order cake", Date: MustRelative(2, Weeks, Before), Dependencies: []string{"ghost"}},
			{ID: "broken", Title: "Broken date", Date: Absolute("tomorrow")},
		},
	}
}

func TestAnchor(t *testing.T) {
	if (Anchor{}).Time() != nil {
		t.Error("zero anchor should have no time")
	}
	if (Anchor{Date: "nope"}).Time() != nil {
		t.Error("invalid anchor should have no time")
	}
	a := Anchor{Date: "2025-06-01"}
	if got := a.Time(); got == nil || FormatDate(*got) != "2025-06-01" {
		t.Errorf("Time() = %v", got)
	}
	if a.DisplayTitle() != DefaultEventTitle {
		t.Errorf("DisplayTitle() = %q, want %q", a.DisplayTitle(), DefaultEventTitle)
	}
}

func TestSnapshotResolved(t *testing.T) {
	got := sample().Resolved()
	want := []string{"venue", "guests", "invites", "cake"}
	var order []string
	for _, d := range got {
		order = append(order, d.Task.ID)
	}
	if !slices.Equal(order, want) {
		t.Errorf("Resolved() order = %v, want %v", order, want)
	}
	if FormatDate(got[0].Date) != "2024-12-01" {
		t.Errorf("venue date = %s, want 2024-12-01", FormatDate(got[0].Date))
	}
}

func TestSnapshotResolvedWithoutAnchor(t *testing.T) {
	s := sample()
	s.Anchor = Anchor{}
	got := s.Resolved()
	if len(got) != 1 || got[0].Task.ID != "guests" {
		t.Errorf("Resolved() without anchor = %v, want only guests", got)
	}
}

func TestLookup(t *testing.T) {
	s := sample()
	if tk, ok := s.Lookup("cake"); !ok || tk.Title != "Order cake" {
		t.Errorf("Lookup(cake) = %v, %v", tk, ok)
	}
	if _, ok := s.Lookup("ghost"); ok {
		t.Error("Lookup(ghost) should fail")
	}
}

func TestValidate(t *testing.T) {
	valid := sample()
	valid.Tasks = valid.Tasks[:4]
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil (dangling deps are allowed)", err)
	}

	tests := []struct {
		name   string
		mutate func(*Snapshot)
		code   errors.Code
	}{
		{"bad absolute date", func(s *Snapshot) { s.Tasks[2].Date = Absolute("2025-02-30") }, errors.ErrCodeInvalidDate},
		{"bad anchor", func(s *Snapshot) { s.Anchor.Date = "June" }, errors.ErrCodeInvalidDate},
		{"missing date", func(s *Snapshot) { s.Tasks[0].Date = nil }, errors.ErrCodeInvalidDate},
		{"empty title", func(s *Snapshot) { s.Tasks[0].Title = " " }, errors.ErrCodeInvalidInput},
		{"empty id", func(s *Snapshot) { s.Tasks[0].ID = "" }, errors.ErrCodeInvalidInput},
		{"duplicate id", func(s *Snapshot) { s.Tasks[1].ID = "venue" }, errors.ErrCodeInvalidInput},
		{"event marker id", func(s *Snapshot) { s.Tasks[3].ID = EventID }, errors.ErrCodeInvalidInput},
		{"self dependency", func(s *Snapshot) { s.Tasks[0].Dependencies = []string{"venue"} }, errors.ErrCodeDependencyCycle},
		{"transitive cycle", func(s *Snapshot) { s.Tasks[0].Dependencies = []string{"invites"} }, errors.ErrCodeDependencyCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sample()
			s.Tasks = slices.Clone(s.Tasks[:4])
			tt.mutate(&s)
			err := s.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidateDependenciesNamesCycle(t *testing.T) {
	s := Snapshot{Tasks: []Task{
		{ID: "a", Title: "A", Date: Absolute("2025-01-01"), Dependencies: []string{"b"}},
		{ID: "b", Title: "B", Date: Absolute("2025-01-02"), Dependencies: []string{"a"}},
	}}
	err := s.ValidateDependencies()
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if got := errors.UserMessage(err); got != "dependency cycle: a -> b -> a" {
		t.Errorf("message = %q", got)
	}
}

func TestGraphSkipsDangling(t *testing.T) {
	g := sample().Graph()
	if g.NodeCount() != 5 {
		t.Errorf("NodeCount() = %d, want 5", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2 (ghost skipped)", g.EdgeCount())
	}
}
