package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/pipeline"
)

// renderOpts holds the render command flags.
type renderOpts struct {
	view    viewFlags
	output  string
	formats string
	focus   string
	selectd string
}

// renderCommand creates the render command for writing timeline artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a snapshot to SVG, PNG, PDF, JSON or a dependency graph",
		Long: `Render a snapshot to one or more output formats.

Formats:
  svg    timeline drawing
  png    timeline drawing, rasterized (requires rsvg-convert)
  pdf    timeline drawing as PDF (requires rsvg-convert)
  json   packed layout as data
  dot    dependency graph in Graphviz DOT
  deps   dependency graph drawn as SVG

--focus draws the dependency connectors of one task. --select dims every
task that is not related to the selected one.`,
		Example: `  eventline render plan.yaml
  eventline render plan.yaml -f svg,json -o out/plan
  eventline render plan.yaml --focus cake --select cake --zoom 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	opts.view.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default: input name without extension)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "comma-separated output formats")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "task whose dependency connectors are drawn")
	cmd.Flags().StringVar(&opts.selectd, "select", "", "task whose related tasks stay highlighted")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, w, status io.Writer, input string, opts renderOpts) error {
	formats := pipeline.ParseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	snap, err := runner.Import(ctx, input)
	if err != nil {
		return err
	}
	for _, id := range []string{opts.focus, opts.selectd} {
		if id == "" {
			continue
		}
		if _, ok := snap.Lookup(id); !ok {
			return errors.New(errors.ErrCodeTaskNotFound, "unknown task %q", id)
		}
	}

	popts := opts.view.options(c.Config)
	popts.Formats = formats
	popts.Focus = opts.focus
	popts.Select = opts.selectd
	popts.Logger = c.Logger

	spinner := newSpinner(ctx, status, "Rendering "+strings.Join(formats, ", ")+"...")
	spinner.Start()
	res, err := runner.Render(ctx, snap, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(res.Artifacts, formats, outputBase(input, opts.output, formats))
	if err != nil {
		return err
	}

	printSuccess(w, "Rendered %d %s", len(paths), plural(len(paths), "artifact", "artifacts"))
	for _, p := range paths {
		printFile(w, p)
	}
	printStats(w, res.Stats.NodeCount, res.Layout.MaxLevel+1, res.CacheInfo.LayoutHit)
	return nil
}

// outputBase derives the base path for artifacts. An explicit output with an
// extension matching a single requested format is used as is.
func outputBase(input, output string, formats []string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if len(formats) == 1 {
		return strings.TrimSuffix(output, "."+formats[0])
	}
	return output
}

func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
		}
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		p := pipeline.Filename(base, f)
		if err := os.WriteFile(p, artifacts[f], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", p)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// describeCount is shared by commands that summarize task lists.
func describeCount(n int) string {
	return fmt.Sprintf("%d %s", n, plural(n, "task", "tasks"))
}
