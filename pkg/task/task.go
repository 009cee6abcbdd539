package task

import (
	"slices"
	"time"
)

// DefaultEventTitle labels the event marker when the anchor has no title.
const DefaultEventTitle = "Event"

// EventID is the node ID of the event marker. No task may use it.
const EventID = "event"

// Task is a single timeline entry. The layout engine treats it as read-only.
type Task struct {
	ID          string
	Title       string
	Description string
	Date        DateSpec
	Important   bool
	Completed   bool

	// Dependencies lists the IDs of tasks that must complete first. IDs not
	// present in the snapshot are tolerated and ignored by the layout.
	Dependencies []string
}

// DependsOn reports whether id is a direct dependency of t.
func (t Task) DependsOn(id string) bool {
	return slices.Contains(t.Dependencies, id)
}

// Anchor is the event date that relative tasks are measured from.
// The zero value means no event is set.
type Anchor struct {
	Date  string
	Title string
}

// IsSet reports whether an event date is configured.
func (a Anchor) IsSet() bool { return a.Date != "" }

// Time returns the parsed event date, or nil when it is unset or invalid.
func (a Anchor) Time() *time.Time {
	if !a.IsSet() {
		return nil
	}
	d, err := ParseDate(a.Date)
	if err != nil {
		return nil
	}
	return &d
}

// DisplayTitle returns the event title, falling back to DefaultEventTitle.
func (a Anchor) DisplayTitle() string {
	if a.Title == "" {
		return DefaultEventTitle
	}
	return a.Title
}

// Snapshot is the complete input of one layout pass: the task list and the
// event anchor. Nothing in this module mutates a snapshot it is given.
type Snapshot struct {
	Anchor Anchor
	Tasks  []Task
}

// Lookup returns the task with the given ID.
func (s Snapshot) Lookup(id string) (*Task, bool) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i], true
		}
	}
	return nil, false
}

// Dated pairs a task with its resolved date.
type Dated struct {
	Task Task
	Date time.Time
}

// Resolved returns every task with a resolvable date, ascending by date.
// Tasks sharing a date keep snapshot order.
func (s Snapshot) Resolved() []Dated {
	anchor := s.Anchor.Time()
	out := make([]Dated, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if d, ok := Resolve(t, anchor); ok {
			out = append(out, Dated{Task: t, Date: d})
		}
	}
	slices.SortStableFunc(out, func(a, b Dated) int { return a.Date.Compare(b.Date) })
	return out
}
