package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventline/pkg/config"
	"github.com/matzehuels/eventline/pkg/pipeline"
	"github.com/matzehuels/eventline/pkg/timeline"
)

// viewFlags are the range and sizing flags shared by every command that
// computes a layout.
type viewFlags struct {
	start   string
	end     string
	zoom    int
	width   float64
	buffer  float64
	refresh bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "first visible date, YYYY-MM-DD (default: derived from the event date)")
	cmd.Flags().StringVar(&f.end, "end", "", "last visible date, YYYY-MM-DD")
	cmd.Flags().IntVar(&f.zoom, "zoom", 0, "zoom level: 1 month, 2 quarter, 3 half-year, 4 full")
	cmd.Flags().Float64Var(&f.width, "width", 0, "drawing width in pixels (default from config)")
	cmd.Flags().Float64Var(&f.buffer, "buffer", 0, "minimum label gap in percent of the width (default from config)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached layouts")
}

// options merges the flags over the config file settings.
func (f viewFlags) options(cfg config.Config) pipeline.Options {
	opts := pipeline.Options{
		Start:   f.start,
		End:     f.end,
		Zoom:    timeline.ZoomLevel(f.zoom),
		Width:   cfg.Width,
		Buffer:  cfg.Buffer,
		Refresh: f.refresh,
	}
	if f.width > 0 {
		opts.Width = f.width
	}
	if f.buffer > 0 {
		opts.Buffer = f.buffer
	}
	return opts
}
