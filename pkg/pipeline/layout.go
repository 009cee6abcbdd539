package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/eventline/pkg/cache"
	"github.com/matzehuels/eventline/pkg/errors"
	pkgio "github.com/matzehuels/eventline/pkg/io"
	"github.com/matzehuels/eventline/pkg/observability"
	"github.com/matzehuels/eventline/pkg/task"
	"github.com/matzehuels/eventline/pkg/timeline"
)

// cachedLayout is what the layout stage stores: the packing only. Nodes are
// rebuilt from the snapshot on a hit, which is cheap and keeps task pointers
// out of the cache.
type cachedLayout struct {
	IDs    []string `json:"ids"`
	Levels []int    `json:"levels"`
}

// SnapshotHash returns the content hash used in cache keys.
func SnapshotHash(snap task.Snapshot) (string, error) {
	data, err := pkgio.Encode(snap, pkgio.FormatJSON)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash snapshot")
	}
	return cache.Hash(data), nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, snap task.Snapshot, opts Options) (*Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, snap, opts)
	return l, err
}

// LayoutWithCacheInfo computes the layout for snap and reports whether the
// packing came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, snap task.Snapshot, opts Options) (*Layout, bool, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	view, err := opts.View(snap)
	if err != nil {
		return nil, false, err
	}
	hash, err := SnapshotHash(snap)
	if err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(snap.Tasks))
	start := time.Now()

	in := timeline.Input{Snapshot: snap, Range: view.Range, PixelWidth: opts.Width, Buffer: opts.Buffer}
	key := r.layoutKey(hash, view, opts)

	if !opts.Refresh {
		if data, hit := r.get(ctx, key, "layout"); hit {
			if res, ok := restoreLayout(in, data); ok {
				hooks.OnLayoutComplete(ctx, len(res.Nodes), res.MaxLevel, time.Since(start), nil)
				return &Layout{Result: res, View: view, SnapshotHash: hash}, true, nil
			}
			opts.Logger.Debug("discarding stale layout cache entry", "key", key)
		}
	}

	res := timeline.Compute(in)
	hooks.OnLayoutComplete(ctx, len(res.Nodes), res.MaxLevel, time.Since(start), nil)

	if data, err := json.Marshal(packing(res)); err == nil {
		r.set(ctx, key, "layout", data)
	}
	return &Layout{Result: res, View: view, SnapshotHash: hash}, false, nil
}

func (r *Runner) layoutKey(hash string, view timeline.View, opts Options) string {
	return r.Keyer.LayoutKey(hash, cache.LayoutKeyOpts{
		Start:  task.FormatDate(view.Range.Start),
		End:    task.FormatDate(view.Range.End),
		Width:  opts.Width,
		Buffer: opts.Buffer,
	})
}

func packing(res timeline.Result) cachedLayout {
	c := cachedLayout{
		IDs:    make([]string, len(res.Nodes)),
		Levels: make([]int, len(res.Nodes)),
	}
	for i, n := range res.Nodes {
		c.IDs[i] = n.ID
		c.Levels[i] = n.Level
	}
	return c
}

// restoreLayout rebuilds nodes for in and applies a cached packing. It
// reports false if the entry does not describe exactly these nodes.
func restoreLayout(in timeline.Input, data []byte) (timeline.Result, bool) {
	var c cachedLayout
	if err := json.Unmarshal(data, &c); err != nil {
		return timeline.Result{}, false
	}
	nodes := timeline.BuildNodes(in.Snapshot.Tasks, in.Snapshot.Anchor, in.Range, in.PixelWidth)
	if len(nodes) != len(c.IDs) || len(c.IDs) != len(c.Levels) {
		return timeline.Result{}, false
	}
	for i := range nodes {
		if nodes[i].ID != c.IDs[i] {
			return timeline.Result{}, false
		}
		nodes[i].Level = c.Levels[i]
	}
	maxLevel := timeline.MaxLevel(nodes)
	return timeline.Result{Nodes: nodes, MaxLevel: maxLevel, Height: timeline.Height(maxLevel)}, true
}
