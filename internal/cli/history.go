package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stackpng/stackpng/internal/config"
	"github.com/stackpng/stackpng/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// HistoryResult holds the recorded runs, newest first.
type HistoryResult struct {
	Runs  []store.Run `json:"runs"`
	Total int         `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded builds",
		Long: `List the builds recorded in the run history database, newest first.

The database is taken from --history or the history key of the
configuration file.

Examples:
  stackpng history --history ./stackpng.db
  stackpng history --history ./stackpng.db --limit 5 --format json`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 lists all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadSettings(cmd, opts.RootOptions, nil)
	if err != nil {
		return err
	}
	if cfg.History == "" {
		return NewExitError(ExitCommandError, "no history database configured").
			WithHint("pass --history <db> or set history in " + config.DefaultFileName)
	}
	if _, err := os.Stat(cfg.History); err != nil {
		return WrapExitError(ExitCommandError, "history database not found", err)
	}

	st, err := store.Open(cfg.History)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.Success(HistoryResult{Runs: runs, Total: len(runs)})
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tCREATED\tFRAMES\tFRAME\tFRAMETIME\tIMAGE")
	for _, run := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%dx%d\t%d\t%s\n",
			run.Seq,
			run.CreatedAt.Local().Format(time.DateTime),
			run.FrameCount,
			run.FrameWidth,
			run.FrameHeight,
			run.FrameTime,
			run.ImagePath,
		)
	}
	return tw.Flush()
}
