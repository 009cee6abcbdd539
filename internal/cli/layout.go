package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventline/pkg/pipeline"
	"github.com/matzehuels/eventline/pkg/task"
	"github.com/matzehuels/eventline/pkg/timeline"
)

// layoutCommand creates the layout command for printing a packed timeline.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  viewFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Print the packed timeline of a snapshot",
		Long: `Print the packed timeline of a snapshot.

Every task whose date falls into the visible range is placed at its date and
stacked into the lowest row where its label does not overlap another one.
Without --start/--end the range is the full view around the event date, or
the next three months when no event date is set.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args[0], flags, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, w io.Writer, path string, flags viewFlags, asJSON bool) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	snap, err := runner.Import(ctx, path)
	if err != nil {
		return err
	}
	opts := flags.options(c.Config)

	if asJSON {
		opts.Formats = []string{pipeline.FormatJSON}
		res, err := runner.Render(ctx, snap, opts)
		if err != nil {
			return err
		}
		_, err = w.Write(res.Artifacts[pipeline.FormatJSON])
		return err
	}

	prog := newProgress(c.Logger)
	l, hit, err := runner.LayoutWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d tasks", len(snap.Tasks)))

	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%s (%s)", l.View.Range, l.View.Zoom)))
	if len(l.Nodes) == 0 {
		printInfo(w, "No tasks in range")
		return nil
	}

	rows := make([][]string, 0, len(l.Nodes))
	for _, n := range l.Nodes {
		rows = append(rows, []string{
			task.FormatDate(n.Date),
			fmt.Sprint(n.Level),
			fmt.Sprintf("%5.1f%%", n.Position),
			nodeLabel(n),
		})
	}
	printTable(w, []string{"Date", "Row", "Position", "Task"}, rows, func(row int) lipgloss.Style {
		return nodeStyle(l.Nodes[row])
	})
	printStats(w, len(l.Nodes), l.MaxLevel+1, hit)
	return nil
}

// nodeLabel decorates a node title with its flags.
func nodeLabel(n timeline.Node) string {
	if n.IsEvent {
		return "◆ " + n.Title
	}
	var marks []string
	if n.Task.Important {
		marks = append(marks, "!")
	}
	if n.Task.Completed {
		marks = append(marks, iconSuccess)
	}
	if len(marks) == 0 {
		return n.Title
	}
	return n.Title + " " + strings.Join(marks, "")
}

func nodeStyle(n timeline.Node) lipgloss.Style {
	switch {
	case n.IsEvent:
		return StyleTitle
	case n.Task.Completed:
		return StyleDim
	case n.Task.Important:
		return StyleImportant
	}
	return StyleValue
}
