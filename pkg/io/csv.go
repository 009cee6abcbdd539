package io

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/task"
)

// CSVHeader is the column order written by WriteCSV. ReadCSV accepts the
// columns in any order and requires only title and dateType.
var CSVHeader = []string{
	"title", "description", "dateType", "date",
	"relativeValue", "relativeUnit", "relativeDirection",
	"important", "dependencies", "id",
}

const depSeparator = ";"

// ReadCSV decodes one task per row. Rows without an id column value get a
// UUID derived from their position and title, and dependency entries that match another row's title are
// rewritten to that row's id.
func ReadCSV(r io.Reader) ([]task.Task, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode csv")
	}
	if len(rows) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "csv must contain a header row and at least one data row")
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, h := range []string{"title", "dateType"} {
		if _, ok := col[h]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "missing required header %q", h)
		}
	}

	tasks := make([]task.Task, 0, len(rows)-1)
	for n, row := range rows[1:] {
		get := func(name string) string {
			if i, ok := col[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		line := n + 2

		t, err := fromRow(n, get)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "line %d", line)
		}
		tasks = append(tasks, t)
	}

	resolveDependencies(tasks)
	return tasks, nil
}

func fromRow(index int, get func(string) string) (task.Task, error) {
	rec := record{
		ID:          get("id"),
		Title:       get("title"),
		Description: get("description"),
		DateType:    get("dateType"),
		Important:   strings.EqualFold(get("important"), "true"),
	}
	if rec.Title == "" {
		return task.Task{}, errors.New(errors.ErrCodeInvalidInput, "task is missing a title")
	}
	if deps := get("dependencies"); deps != "" {
		rec.Dependencies = slices.DeleteFunc(strings.Split(deps, depSeparator), func(s string) bool { return s == "" })
	}

	switch task.Kind(rec.DateType) {
	case task.KindAbsolute:
		rec.Date = get("date")
		if rec.Date == "" {
			return task.Task{}, errors.New(errors.ErrCodeInvalidDate, "%q has date type absolute but no date", rec.Title)
		}
	case task.KindRelative:
		v, err := strconv.Atoi(get("relativeValue"))
		if err != nil {
			return task.Task{}, errors.Wrap(errors.ErrCodeInvalidDate, err, "%q has an invalid relativeValue", rec.Title)
		}
		rec.RelativeTime = &relative{Value: v, Unit: get("relativeUnit"), Direction: get("relativeDirection")}
	}
	return fromRecord(index, rec)
}

// resolveDependencies rewrites dependency entries that name a task title
// rather than an id. Entries matching neither are left as they are.
func resolveDependencies(tasks []task.Task) {
	ids := make(map[string]bool, len(tasks))
	byTitle := make(map[string]string, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = true
		if _, dup := byTitle[t.Title]; !dup {
			byTitle[t.Title] = t.ID
		}
	}
	for i := range tasks {
		for j, dep := range tasks[i].Dependencies {
			if ids[dep] {
				continue
			}
			if id, ok := byTitle[dep]; ok {
				tasks[i].Dependencies[j] = id
			}
		}
	}
}

// WriteCSV encodes tasks with CSVHeader.
func WriteCSV(w io.Writer, tasks []task.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode csv")
	}
	for _, t := range tasks {
		rec := toRecord(t)
		var value, unit, dir string
		if rt := rec.RelativeTime; rt != nil {
			value, unit, dir = strconv.Itoa(rt.Value), rt.Unit, rt.Direction
		}
		row := []string{
			rec.Title, rec.Description, rec.DateType, rec.Date,
			value, unit, dir,
			strconv.FormatBool(rec.Important),
			strings.Join(rec.Dependencies, depSeparator),
			rec.ID,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode csv")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode csv")
	}
	return nil
}
