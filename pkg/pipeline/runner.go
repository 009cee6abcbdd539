package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/eventline/pkg/cache"
	pkgio "github.com/matzehuels/eventline/pkg/io"
	"github.com/matzehuels/eventline/pkg/observability"
	"github.com/matzehuels/eventline/pkg/task"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the server and the browser share this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL applies to every entry the runner writes. Zero means no expiry.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Import reads the snapshot at path for display. Tasks whose date does not
// parse are dropped with a warning; any other validation error fails the
// import.
func (r *Runner) Import(ctx context.Context, path string) (task.Snapshot, error) {
	return r.importWith(ctx, path, func(path string) (task.Snapshot, error) {
		snap, dropped, err := pkgio.ImportLenient(path)
		for _, d := range dropped {
			r.Logger.Warn("skipping task with invalid date", "path", path, "id", d.ID, "title", d.Title, "err", d.Err)
		}
		return snap, err
	})
}

// ImportStrict reads and fully validates the snapshot at path. A single
// invalid task fails the import.
func (r *Runner) ImportStrict(ctx context.Context, path string) (task.Snapshot, error) {
	return r.importWith(ctx, path, pkgio.Import)
}

func (r *Runner) importWith(ctx context.Context, path string, read func(string) (task.Snapshot, error)) (task.Snapshot, error) {
	hooks := observability.Pipeline()
	hooks.OnImportStart(ctx, path)
	start := time.Now()

	snap, err := read(path)
	hooks.OnImportComplete(ctx, path, len(snap.Tasks), time.Since(start), err)
	if err != nil {
		return task.Snapshot{}, err
	}

	r.Logger.Debug("imported snapshot", "path", path, "tasks", len(snap.Tasks))
	return snap, nil
}

// Render runs the layout and render stages for snap.
func (r *Runner) Render(ctx context.Context, snap task.Snapshot, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Stats: Stats{TaskCount: len(snap.Tasks)}}

	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.NodeCount = len(l.Nodes)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"range", l.View.Range,
		"nodes", len(l.Nodes),
		"levels", l.MaxLevel+1,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderLayoutWithCacheInfo(ctx, snap, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads key and reports hooks. Cache errors are logged and count as
// misses so a flaky cache never fails a run.
func (r *Runner) get(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "type", keyType, "error", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

func (r *Runner) set(ctx context.Context, key, keyType string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
