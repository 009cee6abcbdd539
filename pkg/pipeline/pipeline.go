// Package pipeline provides the import → layout → render pipeline for eventline.
//
// The CLI, the HTTP server and the interactive browser all run the same
// three stages through a [Runner], which adds caching and observability
// hooks around them:
//
//  1. Import: read a snapshot file ([Runner.Import], or [Runner.ImportStrict]
//     when a single bad task should fail the whole file)
//  2. Layout: resolve the visible range and pack nodes ([Runner.Layout])
//  3. Render: produce SVG, JSON, PNG, PDF or dependency graph output
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	snap, err := runner.Import(ctx, "wedding.json")
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Render(ctx, snap, pipeline.Options{
//	    Start:   "2025-03-01",
//	    End:     "2025-06-30",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
//
// Without an explicit range the pipeline uses the view an interactive
// session would open with: the quarter starting today, or the full view
// around the event date when one is set.
package pipeline

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/task"
	"github.com/matzehuels/eventline/pkg/timeline"
)

// DefaultWidth is the default drawing width in pixels.
const DefaultWidth = 1200.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatDeps = "deps"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatDeps: true,
}

// Options configures one pipeline run. The zero value renders an SVG of the
// default view at DefaultWidth.
type Options struct {
	// Range. Both ends must be set together; when empty the range comes
	// from the default view for the snapshot's anchor.
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`

	// Zoom sets the tick interval. Zero means the zoom of the default view
	// when no range is given, and ZoomQuarter otherwise.
	Zoom timeline.ZoomLevel `json:"zoom,omitempty"`

	Width  float64 `json:"width,omitempty"`
	Buffer float64 `json:"buffer,omitempty"`

	Focus   string   `json:"focus,omitempty"`
	Select  string   `json:"select,omitempty"`
	Formats []string `json:"formats,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Now    time.Time   `json:"-"`
	Logger *log.Logger `json:"-"`
}

// Layout is the output of the layout stage.
type Layout struct {
	timeline.Result

	View         timeline.View
	SnapshotHash string
}

// Result contains the outputs of a full pipeline run.
type Result struct {
	Layout    *Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TaskCount  int
	NodeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot, deps)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Buffer == 0 {
		o.Buffer = timeline.NodeBuffer
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks options after SetDefaults.
func (o *Options) Validate() error {
	if !finite(o.Width) || o.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width must be a positive number, got %g", o.Width)
	}
	if !finite(o.Buffer) || o.Buffer < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "buffer must be a non-negative number, got %g", o.Buffer)
	}
	if (o.Start == "") != (o.End == "") {
		return errors.New(errors.ErrCodeInvalidRange, "start and end must be given together")
	}
	if o.Zoom != 0 && (o.Zoom < timeline.ZoomMonth || o.Zoom > timeline.ZoomFull) {
		return errors.New(errors.ErrCodeInvalidInput, "zoom must be between %d and %d, got %d",
			timeline.ZoomMonth, timeline.ZoomFull, o.Zoom)
	}
	return ValidateFormats(o.Formats)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// View resolves the visible range and zoom for snap.
func (o *Options) View(snap task.Snapshot) (timeline.View, error) {
	if o.Start == "" {
		v := timeline.ViewFor(snap.Anchor, o.Now)
		if o.Zoom != 0 {
			v.Zoom = o.Zoom
		}
		return v, nil
	}
	r, err := timeline.ParseRange(o.Start, o.End)
	if err != nil {
		return timeline.View{}, err
	}
	z := o.Zoom
	if z == 0 {
		z = timeline.ZoomQuarter
	}
	return timeline.View{Zoom: z, Range: r}, nil
}
