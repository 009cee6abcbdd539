package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eventline/pkg/errors"
)

// validateCommand creates the validate command for checking snapshot files.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [files...]",
		Short: "Check snapshot files for errors",
		Long: `Check that each file decodes and forms a valid snapshot: dates parse,
task IDs are unique, and dependencies contain no cycles. Dependencies on IDs
that are not in the file are allowed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, w io.Writer, paths []string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	failed := 0
	for _, path := range paths {
		snap, err := runner.ImportStrict(ctx, path)
		if err != nil {
			failed++
			printError(w, "%s: %s", path, errors.UserMessage(err))
			continue
		}
		printSuccess(w, "%s: %s", path, describeCount(len(snap.Tasks)))
		if snap.Anchor.IsSet() {
			printDetail(w, "%s on %s", snap.Anchor.DisplayTitle(), snap.Anchor.Date)
		}
	}
	if failed > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%d of %d files invalid", failed, len(paths))
	}
	return nil
}
