package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eventline/internal/server"
)

// serveCommand creates the serve command for exposing a snapshot over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a snapshot over HTTP",
		Long: `Serve a snapshot over HTTP.

Endpoints:
  GET  /healthz              liveness probe
  GET  /layout               packed timeline as JSON
  GET  /timeline.svg         timeline drawing
  GET  /deps.svg             dependency graph drawing
  GET  /tasks                tasks with resolved dates
  GET  /tasks/{id}           one task
  GET  /tasks/{id}/edges     dependency connectors of a task
  GET  /tasks/{id}/related   tasks highlighted when the task is selected
  POST /reload               re-read the snapshot file

Layout endpoints accept start, end, zoom, width, buffer, focus and select
query parameters. The server stops on interrupt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd.ErrOrStderr(), args[0], listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, "+c.Config.Listen+")")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, w io.Writer, path, listen string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	snap, err := runner.Import(ctx, path)
	if err != nil {
		return err
	}
	if listen == "" {
		listen = c.Config.Listen
	}

	srv := server.New(snap, runner, c.Logger,
		server.WithSource(path),
		server.WithDefaults(c.Config.Width, c.Config.Buffer),
	)
	printInfo(w, "Serving %s on http://%s", path, listen)
	return srv.ListenAndServe(ctx, listen)
}
