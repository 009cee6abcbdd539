package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/task"
	"github.com/matzehuels/eventline/pkg/timeline"
)

// relatedCommand creates the related command for the selection highlight set.
func (c *CLI) relatedCommand() *cobra.Command {
	var with string

	cmd := &cobra.Command{
		Use:   "related [file] [task-id]",
		Short: "Show which tasks stay highlighted when a task is selected",
		Long: `Show the tasks related to a selected task: the task itself, its direct
dependencies and the tasks that depend on it directly. Every other task is
dimmed on the timeline while the selection is active.

With --with, only report whether that one task is related.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRelated(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], with)
		},
	}

	cmd.Flags().StringVar(&with, "with", "", "check a single candidate task")

	return cmd
}

func (c *CLI) runRelated(ctx context.Context, w io.Writer, path, id, with string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	snap, err := runner.Import(ctx, path)
	if err != nil {
		return err
	}
	if _, ok := snap.Lookup(id); !ok {
		return errors.New(errors.ErrCodeTaskNotFound, "unknown task %q", id)
	}

	if with != "" {
		if timeline.IsRelated(with, id, snap.Tasks) {
			printSuccess(w, "%s is related to %s", with, id)
		} else {
			printInfo(w, "%s is not related to %s", with, id)
		}
		return nil
	}

	set := timeline.RelatedSet(id, snap.Tasks)
	var related []task.Task
	for _, t := range snap.Tasks {
		if set[t.ID] {
			related = append(related, t)
		}
	}
	anchor := snap.Anchor.Time()
	fmt.Fprintln(w, StyleTitle.Render("Related to "+id))
	printTaskList(w, task.SortByDate(related, anchor), anchor)
	printDetail(w, "%s highlighted, %d dimmed", describeCount(len(related)), len(snap.Tasks)-len(related))
	return nil
}
