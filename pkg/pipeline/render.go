package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/eventline/pkg/cache"
	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/observability"
	"github.com/matzehuels/eventline/pkg/render"
	"github.com/matzehuels/eventline/pkg/task"
)

// RenderLayout is a convenience wrapper that calls RenderLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) RenderLayout(ctx context.Context, snap task.Snapshot, l *Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderLayoutWithCacheInfo(ctx, snap, l, opts)
	return artifacts, err
}

// RenderLayoutWithCacheInfo generates artifacts with caching and reports
// whether every format came from the cache.
func (r *Runner) RenderLayoutWithCacheInfo(ctx context.Context, snap task.Snapshot, l *Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	layoutHash := cache.Hash([]byte(r.layoutKey(l.SnapshotHash, l.View, opts)))
	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{
			Format: format,
			Focus:  opts.Focus,
			Select: opts.Select,
			Zoom:   int(l.View.Zoom),
		})
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit := r.get(ctx, keyFor(format), "artifact")
			if !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered, err := RenderFormats(ctx, snap, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.set(ctx, keyFor(format), "artifact", data)
	}
	return rendered, false, nil
}

// RenderFormats renders every requested format without touching a cache.
func RenderFormats(ctx context.Context, snap task.Snapshot, l *Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	timelineSVG := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(l.Result, l.View.Range, renderOptions(snap, l, opts)...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = timelineSVG()
		case FormatPNG:
			data, err = render.ToPNG(timelineSVG(), 2.0)
		case FormatPDF:
			data, err = render.ToPDF(timelineSVG())
		case FormatJSON:
			data, err = render.RenderJSON(l.Result, l.View.Range, renderOptions(snap, l, opts)...)
		case FormatDOT:
			data = []byte(render.ToDOT(snap, render.DOTOptions{Detailed: true}))
		case FormatDeps:
			data, err = render.RenderDOT(ctx, render.ToDOT(snap, render.DOTOptions{}))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderOptions(snap task.Snapshot, l *Layout, opts Options) []render.Option {
	ropts := []render.Option{
		render.WithWidth(opts.Width),
		render.WithZoom(l.View.Zoom),
	}
	if opts.Focus != "" {
		ropts = append(ropts, render.WithFocus(opts.Focus))
	}
	if opts.Select != "" {
		ropts = append(ropts, render.WithSelection(opts.Select, snap.Tasks))
	}
	return ropts
}

// Filename returns the output file name for an artifact.
func Filename(base, format string) string {
	switch format {
	case FormatDeps:
		return fmt.Sprintf("%s.deps.svg", base)
	default:
		return fmt.Sprintf("%s.%s", base, format)
	}
}
