package cli

import (
	"context"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eventline/pkg/errors"
	pkgio "github.com/matzehuels/eventline/pkg/io"
	"github.com/matzehuels/eventline/pkg/task"
)

// convertOpts holds the convert command flags.
type convertOpts struct {
	breakCycles bool
	eventDate   string
	eventTitle  string
}

// convertCommand creates the convert command for translating snapshot formats.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a snapshot between JSON, YAML, TOML and CSV",
		Long: `Convert a snapshot between formats. Formats are inferred from the file
extensions (.json, .yaml, .yml, .toml, .csv).

CSV files carry no event date; use --event-date to set one. With
--break-cycles, dependencies that close a cycle are dropped instead of
failing the conversion.`,
		Example: `  eventline convert plan.csv plan.yaml --event-date 2025-06-01 --event-title Wedding
  eventline convert broken.json fixed.json --break-cycles`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.breakCycles, "break-cycles", false, "drop dependencies that form cycles")
	cmd.Flags().StringVar(&opts.eventDate, "event-date", "", "set the event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.eventTitle, "event-title", "", "set the event title")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, w io.Writer, input, output string, opts convertOpts) error {
	logger := loggerFromContext(ctx)

	snap, err := readSnapshot(input)
	if err != nil {
		return err
	}
	if opts.eventDate != "" {
		if _, err := task.ParseDate(opts.eventDate); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDate, err, "event date")
		}
		snap.Anchor.Date = opts.eventDate
	}
	if opts.eventTitle != "" {
		snap.Anchor.Title = opts.eventTitle
	}

	if opts.breakCycles {
		removed := snap.Graph().BreakCycles()
		for _, e := range removed {
			dropDependency(&snap, e.From, e.To)
			logger.Warn("dropped dependency", "task", e.From, "on", e.To)
		}
		if len(removed) > 0 {
			printWarning(w, "dropped %d %s to break cycles", len(removed), plural(len(removed), "dependency", "dependencies"))
		}
	}

	if err := pkgio.Export(snap, output); err != nil {
		return err
	}
	printSuccess(w, "Converted %s", describeCount(len(snap.Tasks)))
	printFile(w, output)
	return nil
}

// readSnapshot decodes a snapshot file without validating it.
func readSnapshot(path string) (task.Snapshot, error) {
	f, err := pkgio.FormatFromPath(path)
	if err != nil {
		return task.Snapshot{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return task.Snapshot{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return task.Snapshot{}, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer file.Close()
	return pkgio.Read(file, f)
}

// dropDependency removes dep from the dependency list of task id.
func dropDependency(snap *task.Snapshot, id, dep string) {
	for i := range snap.Tasks {
		t := &snap.Tasks[i]
		if t.ID == id {
			t.Dependencies = slices.DeleteFunc(slices.Clone(t.Dependencies), func(d string) bool { return d == dep })
		}
	}
}
