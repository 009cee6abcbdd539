package task

import (
	"time"

	"github.com/dromara/carbon/v2"

	"github.com/matzehuels/eventline/pkg/errors"
)

// DateLayout is the ISO calendar date layout used by every snapshot format.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date ("2025-06-01") to UTC midnight.
// Full RFC 3339 timestamps are accepted as well; their calendar date in the
// given offset is kept and the time of day dropped.
func ParseDate(s string) (time.Time, error) {
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeInvalidDate, err, "invalid ISO date %q", s)
	}
	return Midnight(ts), nil
}

// FormatDate renders t as an ISO calendar date.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// Midnight truncates t to the start of its calendar day in UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts t by n whole days.
func AddDays(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) }

// AddMonths shifts t by n calendar months. When the target month is shorter
// than the source day the result clamps to the target month's last day.
func AddMonths(t time.Time, n int) time.Time {
	c := carbon.CreateFromStdTime(t, t.Location().String())
	if n < 0 {
		return c.SubMonthsNoOverflow(-n).StdTime()
	}
	return c.AddMonthsNoOverflow(n).StdTime()
}

// DaysBetween returns the number of whole days from a to b, truncated
// toward zero. It is negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
