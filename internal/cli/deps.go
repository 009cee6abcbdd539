package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/task"
)

// depsCommand creates the deps command for inspecting one task's dependencies.
func (c *CLI) depsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deps [file] [task-id]",
		Short: "Show what a task depends on and what depends on it",
		Long: `Show the direct dependencies of a task and the tasks that require it.

These are the connectors drawn when the task is focused on the timeline.
Dependency IDs missing from the snapshot are reported as warnings.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDeps(cmd.Context(), cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func (c *CLI) runDeps(ctx context.Context, w io.Writer, path, id string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	snap, err := runner.Import(ctx, path)
	if err != nil {
		return err
	}
	t, ok := snap.Lookup(id)
	if !ok {
		return errors.New(errors.ErrCodeTaskNotFound, "unknown task %q", id)
	}
	anchor := snap.Anchor.Time()

	fmt.Fprintln(w, StyleTitle.Render(t.Title)+" "+StyleDim.Render(dateOf(*t, anchor)))

	fmt.Fprintln(w, styleDependsOn.Render("Depends on"))
	var deps []task.Task
	for _, dep := range t.Dependencies {
		d, ok := snap.Lookup(dep)
		if !ok {
			printWarning(w, "unknown dependency %q", dep)
			continue
		}
		deps = append(deps, *d)
	}
	printTaskList(w, task.SortByDate(deps, anchor), anchor)

	fmt.Fprintln(w, styleRequiredFor.Render("Required for"))
	printTaskList(w, task.SortByDate(task.Dependents(snap.Tasks, id), anchor), anchor)
	return nil
}

func printTaskList(w io.Writer, tasks []task.Task, anchor *time.Time) {
	if len(tasks) == 0 {
		printDetail(w, "none")
		return
	}
	for _, t := range tasks {
		printKeyValue(w, "  "+dateOf(t, anchor), t.Title+" "+StyleDim.Render("("+t.ID+")"))
	}
}

// dateOf formats the resolved date of t, or "-" when it has none.
func dateOf(t task.Task, anchor *time.Time) string {
	if d, ok := task.Resolve(t, anchor); ok {
		return task.FormatDate(d)
	}
	return "-"
}
