package errors

import (
	"errors"
	"fmt"
	"testing"
)

// badDate builds the chain snapshot validation produces for a task whose
// date does not parse.
func badDate() error {
	parse := Wrap(ErrCodeInvalidDate, errors.New(`parsing time "2025-02-30": day out of range`), "invalid ISO date %q", "2025-02-30")
	return Wrap(ErrCodeInvalidDate, parse, "task %s", "venue")
}

func TestCodeAndMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		message  string
		errorStr string
	}{
		{
			name:     "task not found",
			err:      New(ErrCodeTaskNotFound, "task %q not found", "ghost"),
			code:     ErrCodeTaskNotFound,
			message:  `task "ghost" not found`,
			errorStr: `TASK_NOT_FOUND: task "ghost" not found`,
		},
		{
			name:     "validation chain",
			err:      badDate(),
			code:     ErrCodeInvalidDate,
			message:  "task venue",
			errorStr: `INVALID_DATE: task venue: INVALID_DATE: invalid ISO date "2025-02-30": parsing time "2025-02-30": day out of range`,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("reload: %w", New(ErrCodeDependencyCycle, "dependency cycle: a -> b -> a")),
			code:     ErrCodeDependencyCycle,
			message:  "dependency cycle: a -> b -> a",
			errorStr: "reload: DEPENDENCY_CYCLE: dependency cycle: a -> b -> a",
		},
		{
			name:     "plain error",
			err:      errors.New("disk full"),
			code:     "",
			message:  "disk full",
			errorStr: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
			if got := tt.err.Error(); got != tt.errorStr {
				t.Errorf("Error() = %q, want %q", got, tt.errorStr)
			}
		})
	}
}

func TestIsMatchesOutermostCode(t *testing.T) {
	io := errors.New("permission denied")
	notFound := Wrap(ErrCodeFileNotFound, io, "open plan.json")
	retagged := Wrap(ErrCodeInternal, New(ErrCodeInvalidDate, "bad"), "reload")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct", notFound, ErrCodeFileNotFound, true},
		{"other code", notFound, ErrCodeInvalidInput, false},
		{"outer code wins", retagged, ErrCodeInternal, true},
		{"inner code hidden", retagged, ErrCodeInvalidDate, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}

	if !errors.Is(notFound, io) {
		t.Error("standard errors.Is should reach the cause")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, 400},
		{ErrCodeInvalidDate, 400},
		{ErrCodeInvalidRange, 400},
		{ErrCodeInvalidFormat, 400},
		{ErrCodeInvalidPath, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeTaskNotFound, 404},
		{ErrCodeFileNotFound, 404},
		{ErrCodeDependencyCycle, 422},
		{ErrCodeUnsupported, 501},
		{ErrCodeInternal, 500},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(New(tt.code, "x")); got != tt.want {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}

	if got := HTTPStatus(errors.New("boom")); got != 500 {
		t.Errorf("HTTPStatus(plain) = %d, want 500", got)
	}
	if got := HTTPStatus(badDate()); got != 400 {
		t.Errorf("HTTPStatus(validation chain) = %d, want 400", got)
	}
}
