package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/rexgen/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Journal string // journal path, overrides settings
	RunID   string // list this run's artifacts instead of all runs
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generation runs",
		Long: `List generation runs recorded in the journal, oldest first.
With --run, list the descriptors that run considered instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "journal database path (defaults to settings)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to list artifacts for")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	path := opts.Journal
	if path == "" {
		s, err := loadSettings(opts.RootOptions, formatter)
		if err != nil {
			return err
		}
		path = s.JournalPath()
	}
	if path == "" {
		return commandError(formatter, ErrCodeJournal, "journal is disabled in settings", nil)
	}

	// Don't create an empty database just to read it
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return commandError(formatter, ErrCodeJournal, fmt.Sprintf("journal not found: %s", path), nil)
	}

	j, err := journal.Open(path)
	if err != nil {
		return commandError(formatter, ErrCodeJournal, err.Error(), nil)
	}
	defer j.Close()

	ctx := cmd.Context()
	if opts.RunID != "" {
		arts, err := j.Artifacts(ctx, opts.RunID)
		if err != nil {
			return commandError(formatter, ErrCodeJournal, err.Error(), nil)
		}
		return outputArtifacts(formatter, opts.RunID, arts)
	}

	runs, err := j.Runs(ctx)
	if err != nil {
		return commandError(formatter, ErrCodeJournal, err.Error(), nil)
	}
	return outputRuns(formatter, runs)
}

func outputRuns(formatter *OutputFormatter, runs []journal.Run) error {
	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(formatter.Writer, "%4d  %s  %-14s %3d written / %3d total  (v%s)\n",
			r.Seq, r.ID, r.IDE, r.Written, r.Artifacts, r.ToolVersion)
	}
	return nil
}

func outputArtifacts(formatter *OutputFormatter, runID string, arts []journal.Artifact) error {
	if formatter.Format == "json" {
		return formatter.Success(arts)
	}

	if len(arts) == 0 {
		fmt.Fprintf(formatter.Writer, "No artifacts recorded for run %s\n", runID)
		return nil
	}
	for _, a := range arts {
		state := "unchanged"
		if a.Written {
			state = "written"
		}
		fmt.Fprintf(formatter.Writer, "%s [%s] %s (%s) %s\n", a.Module, a.Target, a.Path, state, shortHash(a.ContentHash))
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
