package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftlabs/driftguard/internal/cli/output"
	"github.com/driftlabs/driftguard/internal/pipeline"
	"github.com/driftlabs/driftguard/internal/state"
)

// RunsOptions holds options for the runs command.
type RunsOptions struct {
	Limit int // Maximum number of runs to list
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{}
	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "Show recorded pipeline runs",
		Long: `List the most recent pipeline invocations from the local run ledger,
or show a single run by ID. The ledger is observability only: it never
participates in pipeline control flow.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd, opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum number of runs to list")

	return cmd
}

func runRuns(cmd *cobra.Command, opts *RunsOptions, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// A fresh checkout has no ledger directory yet; an empty ledger is a
	// valid answer, not a fault.
	if err := ensureStateDir(cfg.StatePath); err != nil {
		return &ExitError{Code: pipeline.ExitError, Msg: fmt.Sprintf("failed to create state directory: %v", err)}
	}
	store, err := state.Open(cfg.StatePath)
	if err != nil {
		return &ExitError{Code: pipeline.ExitError, Msg: fmt.Sprintf("failed to open run ledger: %v", err)}
	}
	defer store.Close()

	if len(args) == 1 {
		run, err := store.GetRun(args[0])
		if err != nil {
			return &ExitError{Code: pipeline.ExitError, Msg: err.Error()}
		}
		return renderRun(r, run)
	}

	runs, err := store.ListRuns(opts.Limit)
	if err != nil {
		return &ExitError{Code: pipeline.ExitError, Msg: err.Error()}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(runs)
	}

	if len(runs) == 0 {
		r.Println("No runs recorded")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.Status,
			formatPSI(run.MaxPSI),
			run.TriggeringFeature,
			run.StartedAt.Format(time.RFC3339),
			formatDuration(run),
		})
	}
	r.Table([]string{"Run", "Status", "Max PSI", "Feature", "Started", "Duration"}, rows)
	return nil
}

func renderRun(r *output.Renderer, run *state.Run) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(run)
	}
	r.Table([]string{"Field", "Value"}, [][]string{
		{"ID", run.ID},
		{"Reference", run.ReferencePath},
		{"Current", run.CurrentPath},
		{"Status", run.Status},
		{"Max PSI", formatPSI(run.MaxPSI)},
		{"Feature", run.TriggeringFeature},
		{"Detail", run.Detail},
		{"Started", run.StartedAt.Format(time.RFC3339)},
		{"Duration", formatDuration(run)},
	})
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatPSI(psi *float64) string {
	if psi == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *psi)
}

func formatDuration(run *state.Run) string {
	if run.CompletedAt == nil {
		return "-"
	}
	return run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
