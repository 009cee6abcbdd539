package task

import (
	"fmt"
	"testing"
	"time"

	"github.com/matzehuels/eventline/pkg/errors"
)

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"iso date", "2025-06-01", "2025-06-01", false},
		{"leap day", "2024-02-29", "2024-02-29", false},
		{"rfc3339 keeps calendar date", "2025-06-01T23:30:00+02:00", "2025-06-01", false},
		{"not a leap year", "2025-02-29", "", true},
		{"garbage", "soon", "", true},
		{"empty", "", "", true},
		{"us format", "06/01/2025", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidDate) {
					t.Errorf("ParseDate(%q) code = %v, want INVALID_DATE", tt.input, errors.GetCode(err))
				}
				return
			}
			if FormatDate(got) != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, FormatDate(got), tt.want)
			}
			if got.Location() != time.UTC || got.Hour() != 0 {
				t.Errorf("ParseDate(%q) = %v, want UTC midnight", tt.input, got)
			}
		})
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		from string
		n    int
		want string
	}{
		{"2025-01-31", 1, "2025-02-28"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2025-03-31", -1, "2025-02-28"},
		{"2025-05-31", 1, "2025-06-30"},
		{"2025-01-15", 1, "2025-02-15"},
		{"2025-11-30", 3, "2026-02-28"},
		{"2025-06-01", -9, "2024-09-01"},
		{"2025-06-01", 0, "2025-06-01"},
		{"2024-03-31", -1, "2024-02-29"},
		{"2025-01-31", -2, "2024-11-30"},
		{"2024-02-29", 12, "2025-02-28"},
		{"2024-02-29", -48, "2020-02-29"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s%+d", tt.from, tt.n), func(t *testing.T) {
			if got := FormatDate(AddMonths(day(tt.from), tt.n)); got != tt.want {
				t.Errorf("AddMonths(%s, %d) = %s, want %s", tt.from, tt.n, got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b time.Time
		want int
	}{
		{day("2025-01-01"), day("2025-03-31"), 89},
		{day("2025-01-01"), day("2025-02-14"), 44},
		{day("2025-01-01"), day("2025-01-01"), 0},
		{day("2025-02-14"), day("2025-01-01"), -44},
		{day("2025-01-01"), day("2025-01-02").Add(-time.Hour), 0},
	}

	for _, tt := range tests {
		if got := DaysBetween(tt.a, tt.b); got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
