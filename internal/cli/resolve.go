package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/task"
)

// resolveOpts holds the resolve command flags.
type resolveOpts struct {
	important bool
	pending   bool
	search    string
	sort      string
}

// resolveCommand creates the resolve command for listing tasks with their dates.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "List tasks with their resolved dates",
		Long: `List every task of a snapshot with the calendar date it resolves to.

Relative dates are measured from the event date. Tasks with a relative date
and no event date have no position on the timeline and are listed last.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.important, "important", false, "only list important tasks")
	cmd.Flags().BoolVar(&opts.pending, "pending", false, "hide completed tasks")
	cmd.Flags().StringVar(&opts.search, "search", "", "filter by title or description")
	cmd.Flags().StringVar(&opts.sort, "sort", "date", "sort order: date, importance, completion")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, w io.Writer, path string, opts resolveOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	snap, err := runner.Import(ctx, path)
	if err != nil {
		return err
	}
	anchor := snap.Anchor.Time()

	tasks := task.FilterImportant(snap.Tasks, opts.important)
	tasks = task.FilterByCompletion(tasks, !opts.pending)
	tasks = task.Search(tasks, opts.search)

	switch opts.sort {
	case "date":
		tasks = task.SortByDate(tasks, anchor)
	case "importance":
		tasks = task.SortByImportanceAndDate(tasks, anchor)
	case "completion":
		tasks = task.SortByCompletionAndDate(tasks, anchor)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid sort order %q (must be date, importance or completion)", opts.sort)
	}

	if snap.Anchor.IsSet() {
		fmt.Fprintln(w, StyleTitle.Render(snap.Anchor.DisplayTitle())+" "+StyleDim.Render(snap.Anchor.Date))
	}
	if len(tasks) == 0 {
		printInfo(w, "No matching tasks")
		return nil
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		date := "-"
		if d, ok := task.Resolve(t, anchor); ok {
			date = task.FormatDate(d)
		}
		rows = append(rows, []string{
			date,
			t.Title,
			task.Describe(t.Date, snap.Anchor.Title),
			strings.Join(t.Dependencies, ", "),
		})
	}
	printTable(w, []string{"Date", "Task", "When", "Depends on"}, rows, func(row int) lipgloss.Style {
		t := tasks[row]
		switch {
		case t.Completed:
			return StyleDim
		case t.Important:
			return StyleImportant
		}
		return StyleValue
	})
	printDetail(w, "%s", describeCount(len(tasks)))
	return nil
}
