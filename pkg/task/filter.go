package task

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// FilterByRange returns the tasks whose resolved date lies in [start, end].
// Tasks without a date are dropped.
func FilterByRange(tasks []Task, anchor *time.Time, start, end time.Time) []Task {
	var out []Task
	for _, t := range tasks {
		d, ok := Resolve(t, anchor)
		if ok && !d.Before(start) && !d.After(end) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByCompletion drops completed tasks unless showCompleted is set.
func FilterByCompletion(tasks []Task, showCompleted bool) []Task {
	if showCompleted {
		return tasks
	}
	return slices.DeleteFunc(slices.Clone(tasks), func(t Task) bool { return t.Completed })
}

// FilterImportant keeps only important tasks when onlyImportant is set.
func FilterImportant(tasks []Task, onlyImportant bool) []Task {
	if !onlyImportant {
		return tasks
	}
	return slices.DeleteFunc(slices.Clone(tasks), func(t Task) bool { return !t.Important })
}

// Search matches term case-insensitively against title and description.
func Search(tasks []Task, term string) []Task {
	if term == "" {
		return tasks
	}
	term = strings.ToLower(term)
	return slices.DeleteFunc(slices.Clone(tasks), func(t Task) bool {
		return !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term)
	})
}

// Dependents returns the tasks that list id as a dependency.
func Dependents(tasks []Task, id string) []Task {
	var out []Task
	for _, t := range tasks {
		if t.DependsOn(id) {
			out = append(out, t)
		}
	}
	return out
}

// SortByDate orders tasks by resolved date. Undated tasks keep their
// relative order and sort after dated ones.
func SortByDate(tasks []Task, anchor *time.Time) []Task {
	return sortWith(tasks, anchor, nil)
}

// SortByImportanceAndDate puts important tasks first, then orders by date.
func SortByImportanceAndDate(tasks []Task, anchor *time.Time) []Task {
	return sortWith(tasks, anchor, func(a, b Task) int {
		return -cmpBool(a.Important, b.Important)
	})
}

// SortByCompletionAndDate puts open tasks first, then orders by date.
func SortByCompletionAndDate(tasks []Task, anchor *time.Time) []Task {
	return sortWith(tasks, anchor, func(a, b Task) int {
		return cmpBool(a.Completed, b.Completed)
	})
}

// GroupByDate buckets dated tasks by ISO date.
func GroupByDate(tasks []Task, anchor *time.Time) map[string][]Task {
	groups := make(map[string][]Task)
	for _, t := range tasks {
		if d, ok := Resolve(t, anchor); ok {
			key := FormatDate(d)
			groups[key] = append(groups[key], t)
		}
	}
	return groups
}

func sortWith(tasks []Task, anchor *time.Time, first func(a, b Task) int) []Task {
	type keyed struct {
		task Task
		date time.Time
		ok   bool
	}
	ks := make([]keyed, len(tasks))
	for i, t := range tasks {
		d, ok := Resolve(t, anchor)
		ks[i] = keyed{t, d, ok}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		if first != nil {
			if c := first(a.task, b.task); c != 0 {
				return c
			}
		}
		switch {
		case a.ok && b.ok:
			return a.date.Compare(b.date)
		case a.ok:
			return -1
		case b.ok:
			return 1
		}
		return 0
	})
	out := make([]Task, len(ks))
	for i, k := range ks {
		out[i] = k.task
	}
	return out
}

func cmpBool(a, b bool) int {
	toInt := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	return cmp.Compare(toInt(a), toInt(b))
}
