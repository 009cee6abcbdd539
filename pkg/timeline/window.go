package timeline

import (
	"time"

	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/task"
)

// Range is the visible date window. Both ends are inclusive and a
// zero-length range (Start == End) is legal.
type Range struct {
	Start time.Time
	End   time.Time
}

// ParseRange builds a validated range from two ISO dates.
func ParseRange(start, end string) (Range, error) {
	s, err := task.ParseDate(start)
	if err != nil {
		return Range{}, errors.Wrap(errors.ErrCodeInvalidRange, err, "range start")
	}
	e, err := task.ParseDate(end)
	if err != nil {
		return Range{}, errors.Wrap(errors.ErrCodeInvalidRange, err, "range end")
	}
	r := Range{Start: s, End: e}
	return r, r.Validate()
}

// Validate rejects a range whose end precedes its start. Layout functions
// never call it; callers that accept ranges from users do.
func (r Range) Validate() error {
	if r.End.Before(r.Start) {
		return errors.New(errors.ErrCodeInvalidRange, "range end %s precedes start %s",
			task.FormatDate(r.End), task.FormatDate(r.Start))
	}
	return nil
}

// Contains reports whether d lies within the range, boundaries included.
func (r Range) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of whole days the range spans.
func (r Range) Days() int { return task.DaysBetween(r.Start, r.End) }

// Position maps d to a percentage of the range, clamped to [0, 100].
// Every date maps to 0 in a zero-length range.
func (r Range) Position(d time.Time) float64 {
	total := r.Days()
	if total == 0 {
		return 0
	}
	p := 100 * float64(task.DaysBetween(r.Start, d)) / float64(total)
	return max(0, min(100, p))
}

// Midpoint returns the calendar day halfway between Start and End.
func (r Range) Midpoint() time.Time {
	return task.Midnight(r.Start.Add(r.End.Sub(r.Start) / 2))
}

func (r Range) String() string {
	return task.FormatDate(r.Start) + ".." + task.FormatDate(r.End)
}
