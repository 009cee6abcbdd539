package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the browse command for the interactive timeline.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [file]",
		Short: "Explore a snapshot's timeline in the terminal",
		Long: `Explore a snapshot's timeline in the terminal.

Keys:
  ←/→ or h/l   pan by 30% of the visible range
  +/-          zoom in or out around the middle of the range
  r            reset to the default view
  tab/j/k      move between tasks
  enter        focus the task: show its connectors and dim unrelated tasks
  esc          clear the focus
  q            quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context, path string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	snap, err := runner.Import(ctx, path)
	if err != nil {
		return err
	}

	model := NewTimelineModel(snap, time.Now(), c.Config.Buffer)
	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
