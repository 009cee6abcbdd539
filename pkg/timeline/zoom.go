package timeline

import (
	"math"
	"time"

	"github.com/matzehuels/eventline/pkg/task"
)

// ZoomLevel selects how much of the calendar the timeline shows.
type ZoomLevel int

const (
	ZoomMonth    ZoomLevel = 1
	ZoomQuarter  ZoomLevel = 2
	ZoomHalfYear ZoomLevel = 3
	ZoomFull     ZoomLevel = 4
)

func (z ZoomLevel) String() string {
	switch z {
	case ZoomMonth:
		return "month"
	case ZoomQuarter:
		return "quarter"
	case ZoomHalfYear:
		return "half-year"
	case ZoomFull:
		return "full"
	}
	return "unknown"
}

// TickInterval returns the number of days between axis labels.
func (z ZoomLevel) TickInterval() int {
	switch z {
	case ZoomMonth:
		return 1
	case ZoomQuarter:
		return 7
	case ZoomHalfYear:
		return 14
	default:
		return 30
	}
}

// ShiftFraction is the share of the visible range one pan step moves.
const ShiftFraction = 0.3

// Direction of a pan step.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// View is the navigation state of an interactive timeline. Methods return a
// new View and never modify the receiver.
type View struct {
	Zoom  ZoomLevel
	Range Range
}

// DefaultView shows the quarter starting today.
func DefaultView(now time.Time) View {
	start := task.Midnight(now)
	return View{Zoom: ZoomQuarter, Range: Range{Start: start, End: task.AddMonths(start, 3)}}
}

// ResetView shows the full plan around an event: nine months before it and
// three months after.
func ResetView(anchor time.Time) View {
	return View{Zoom: ZoomFull, Range: Range{Start: task.AddMonths(anchor, -9), End: task.AddMonths(anchor, 3)}}
}

// ViewFor returns ResetView for a set anchor and DefaultView otherwise.
func ViewFor(anchor task.Anchor, now time.Time) View {
	if at := anchor.Time(); at != nil {
		return ResetView(*at)
	}
	return DefaultView(now)
}

// ZoomIn narrows the view by one level around the midpoint of the current
// range. It is a no-op at ZoomMonth.
func (v View) ZoomIn() View {
	if v.Zoom <= ZoomMonth {
		return v
	}
	mid := v.Range.Midpoint()
	var r Range
	switch v.Zoom {
	case ZoomQuarter:
		first := time.Date(mid.Year(), mid.Month(), 1, 0, 0, 0, 0, time.UTC)
		r = Range{Start: first, End: task.AddDays(task.AddMonths(first, 1), -1)}
	case ZoomHalfYear:
		r = around(mid, 1, 15)
	default:
		r = around(mid, 3, 0)
	}
	return View{Zoom: v.Zoom - 1, Range: r}
}

// ZoomOut widens the view by one level around the midpoint of the current
// range. It is a no-op at ZoomFull.
func (v View) ZoomOut() View {
	if v.Zoom >= ZoomFull {
		return v
	}
	mid := v.Range.Midpoint()
	var r Range
	switch v.Zoom {
	case ZoomMonth:
		r = around(mid, 1, 15)
	case ZoomQuarter:
		r = around(mid, 3, 0)
	default:
		r = around(mid, 6, 0)
	}
	return View{Zoom: v.Zoom + 1, Range: r}
}

// around spans months+days on either side of mid. A step of one and a half
// months is around(mid, 1, 15).
func around(mid time.Time, months, days int) Range {
	return Range{
		Start: task.AddDays(task.AddMonths(mid, -months), -days),
		End:   task.AddDays(task.AddMonths(mid, months), days),
	}
}

// Shift pans the view by 30% of its length, rounded to whole days.
func (v View) Shift(dir Direction) View {
	n := int(math.Round(float64(v.Range.Days())*ShiftFraction)) * int(dir)
	return View{Zoom: v.Zoom, Range: Range{Start: task.AddDays(v.Range.Start, n), End: task.AddDays(v.Range.End, n)}}
}

// Ticks returns the axis label dates: every TickInterval days from the start
// of the range up to and including its end.
func (v View) Ticks() []time.Time {
	return Ticks(v.Zoom, v.Range)
}

// Ticks returns the axis label dates for a zoom level and range.
func Ticks(z ZoomLevel, r Range) []time.Time {
	step := z.TickInterval()
	var out []time.Time
	for d := r.Start; task.DaysBetween(d, r.End) >= 0; d = task.AddDays(d, step) {
		out = append(out, d)
	}
	return out
}
