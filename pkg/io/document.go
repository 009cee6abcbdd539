package io

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/task"
)

type document struct {
	EventDate  string   `json:"eventDate" yaml:"eventDate" toml:"eventDate"`
	EventTitle string   `json:"eventTitle" yaml:"eventTitle" toml:"eventTitle"`
	Tasks      []record `json:"tasks" yaml:"tasks" toml:"tasks"`
}

type record struct {
	ID           string    `json:"id" yaml:"id" toml:"id"`
	Title        string    `json:"title" yaml:"title" toml:"title"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	DateType     string    `json:"dateType" yaml:"dateType" toml:"dateType"`
	Date         string    `json:"date,omitempty" yaml:"date,omitempty" toml:"date,omitempty"`
	RelativeTime *relative `json:"relativeTime,omitempty" yaml:"relativeTime,omitempty" toml:"relativeTime,omitempty"`
	Completed    bool      `json:"completed" yaml:"completed" toml:"completed"`
	Important    bool      `json:"important" yaml:"important" toml:"important"`
	Dependencies []string  `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
}

type relative struct {
	Value     int    `json:"value" yaml:"value" toml:"value"`
	Unit      string `json:"unit" yaml:"unit" toml:"unit"`
	Direction string `json:"direction" yaml:"direction" toml:"direction"`
}

func toDocument(s task.Snapshot) document {
	doc := document{
		EventDate:  s.Anchor.Date,
		EventTitle: s.Anchor.Title,
		Tasks:      make([]record, len(s.Tasks)),
	}
	for i, t := range s.Tasks {
		doc.Tasks[i] = toRecord(t)
	}
	return doc
}

func toRecord(t task.Task) record {
	rec := record{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Completed:    t.Completed,
		Important:    t.Important,
		Dependencies: t.Dependencies,
	}
	switch spec := t.Date.(type) {
	case task.Absolute:
		rec.DateType = string(task.KindAbsolute)
		rec.Date = string(spec)
	case task.Relative:
		rec.DateType = string(task.KindRelative)
		rec.RelativeTime = &relative{
			Value:     spec.Value(),
			Unit:      string(spec.Unit()),
			Direction: string(spec.Direction()),
		}
	}
	return rec
}

func fromDocument(doc document) (task.Snapshot, error) {
	s := task.Snapshot{
		Anchor: task.Anchor{Date: doc.EventDate, Title: doc.EventTitle},
		Tasks:  make([]task.Task, 0, len(doc.Tasks)),
	}
	for i, rec := range doc.Tasks {
		t, err := fromRecord(i, rec)
		if err != nil {
			return task.Snapshot{}, errors.Wrap(errors.GetCode(err), err, "task %d", i+1)
		}
		s.Tasks = append(s.Tasks, t)
	}
	return s, nil
}

// idNamespace seeds the name-based UUIDs given to tasks stored without an id.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/eventline/task"))

// derivedID names the task at position index. The same file always yields
// the same ids, so layouts cached for it stay valid across imports.
func derivedID(index int, title string) string {
	return uuid.NewSHA1(idNamespace, []byte(strconv.Itoa(index)+":"+title)).String()
}

func fromRecord(index int, rec record) (task.Task, error) {
	t := task.Task{
		ID:           rec.ID,
		Title:        rec.Title,
		Description:  rec.Description,
		Completed:    rec.Completed,
		Important:    rec.Important,
		Dependencies: rec.Dependencies,
	}
	if t.ID == "" {
		t.ID = derivedID(index, rec.Title)
	}

	switch task.Kind(rec.DateType) {
	case task.KindAbsolute:
		t.Date = task.Absolute(rec.Date)
	case task.KindRelative:
		if rec.RelativeTime == nil {
			return task.Task{}, errors.New(errors.ErrCodeInvalidDate, "%q is relative but has no relativeTime", rec.Title)
		}
		spec, err := parseRelative(rec.RelativeTime.Value, rec.RelativeTime.Unit, rec.RelativeTime.Direction)
		if err != nil {
			return task.Task{}, errors.Wrap(errors.ErrCodeInvalidDate, err, "%q", rec.Title)
		}
		t.Date = spec
	default:
		return task.Task{}, errors.New(errors.ErrCodeInvalidFormat, "%q has unknown dateType %q", rec.Title, rec.DateType)
	}
	return t, nil
}

func parseRelative(value int, unit, direction string) (task.Relative, error) {
	u, err := task.ParseUnit(unit)
	if err != nil {
		return task.Relative{}, err
	}
	d, err := task.ParseDirection(direction)
	if err != nil {
		return task.Relative{}, err
	}
	return task.NewRelative(value, u, d)
}
