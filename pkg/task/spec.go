package task

import (
	"fmt"
	"strconv"
	"time"

	"github.com/matzehuels/eventline/pkg/errors"
)

// Unit is the granularity of a relative offset.
type Unit string

const (
	Days   Unit = "days"
	Weeks  Unit = "weeks"
	Months Unit = "months"
)

// ParseUnit returns the unit named s.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(s); u {
	case Days, Weeks, Months:
		return u, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown unit %q (must be days, weeks or months)", s)
}

// Direction says on which side of the event a relative task falls.
type Direction string

const (
	Before Direction = "before"
	After  Direction = "after"
)

// ParseDirection returns the direction named s.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Before, After:
		return d, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown direction %q (must be before or after)", s)
}

// Kind names the variant of a DateSpec in serialized snapshots.
type Kind string

const (
	KindAbsolute Kind = "absolute"
	KindRelative Kind = "relative"
)

// DateSpec is either [Absolute] or [Relative]. The interface is sealed.
type DateSpec interface {
	Kind() Kind
	String() string
	resolve(anchor *time.Time) (time.Time, bool)
}

// Absolute pins a task to an ISO calendar date.
type Absolute string

// Kind implements DateSpec.
func (Absolute) Kind() Kind { return KindAbsolute }

func (a Absolute) String() string { return string(a) }

func (a Absolute) resolve(*time.Time) (time.Time, bool) {
	d, err := ParseDate(string(a))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Relative places a task a positive number of units before or after the
// event date. Build it with NewRelative.
type Relative struct {
	value     int
	unit      Unit
	direction Direction
}

// NewRelative validates its arguments and returns a Relative spec.
func NewRelative(value int, unit Unit, dir Direction) (Relative, error) {
	if value <= 0 {
		return Relative{}, errors.New(errors.ErrCodeInvalidInput, "relative value must be positive, got %d", value)
	}
	if _, err := ParseUnit(string(unit)); err != nil {
		return Relative{}, err
	}
	if _, err := ParseDirection(string(dir)); err != nil {
		return Relative{}, err
	}
	return Relative{value: value, unit: unit, direction: dir}, nil
}

// MustRelative is like NewRelative but panics on invalid input.
// It is meant for tests and literals.
func MustRelative(value int, unit Unit, dir Direction) Relative {
	r, err := NewRelative(value, unit, dir)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Relative) Value() int           { return r.value }
func (r Relative) Unit() Unit           { return r.unit }
func (r Relative) Direction() Direction { return r.direction }

// Kind implements DateSpec.
func (Relative) Kind() Kind { return KindRelative }

// String renders the offset the way the task list shows it,
// e.g. "2 weeks before event".
func (r Relative) String() string {
	return strconv.Itoa(r.value) + " " + string(r.unit) + " " + string(r.direction) + " event"
}

// Offset applies the spec to the anchor date.
func (r Relative) Offset(anchor time.Time) time.Time {
	n := r.value
	if r.direction == Before {
		n = -n
	}
	switch r.unit {
	case Weeks:
		return AddDays(anchor, 7*n)
	case Months:
		return AddMonths(anchor, n)
	default:
		return AddDays(anchor, n)
	}
}

func (r Relative) resolve(anchor *time.Time) (time.Time, bool) {
	if anchor == nil || r.unit == "" {
		return time.Time{}, false
	}
	return r.Offset(*anchor), true
}

// Resolve computes the calendar date of t. It reports false when the task
// has no date, the absolute date is not a valid ISO date, or the spec is
// relative and no anchor is given.
func Resolve(t Task, anchor *time.Time) (time.Time, bool) {
	if t.Date == nil {
		return time.Time{}, false
	}
	return t.Date.resolve(anchor)
}

// Describe renders the task's date specification for display, substituting
// the event title into relative specs when one is known.
func Describe(spec DateSpec, eventTitle string) string {
	r, ok := spec.(Relative)
	if !ok || eventTitle == "" {
		if spec == nil {
			return ""
		}
		return spec.String()
	}
	return fmt.Sprintf("%d %s %s %s", r.value, r.unit, r.direction, eventTitle)
}
