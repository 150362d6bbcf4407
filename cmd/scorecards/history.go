package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/carlhiggs/global-scorecards/internal/adapter/ledger"
	"github.com/carlhiggs/global-scorecards/internal/config"
	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/carlhiggs/global-scorecards/internal/observability"
)

var historyFlags struct {
	runID    string
	failures uint64
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded report runs from the SQLite ledger",
	Long: `Print the per-language summary and city outcomes of a recorded run
(the latest one unless --run is given), followed by the most recent
failures across all runs. Requires LEDGER_PATH.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.LedgerPath == "" {
			return fmt.Errorf("LEDGER_PATH is not set")
		}
		l, err := ledger.Open(cfg.LedgerPath, observability.NewLogger(cfg))
		if err != nil {
			return err
		}
		defer l.Close()

		return printHistory(cmd.Context(), cmd.OutOrStdout(), l, historyFlags.runID, historyFlags.failures)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyFlags.runID, "run", "", "Run id to show (default: latest run)")
	historyCmd.Flags().Uint64Var(&historyFlags.failures, "failures", 10, "Number of recent failures to list")
}

// history is the read side of the ledger.
type history interface {
	LatestRun(ctx context.Context) (string, error)
	Summaries(ctx context.Context, runID string) ([]domain.LanguageSummary, error)
	Outcomes(ctx context.Context, runID string) ([]domain.CityOutcome, error)
	LastFailures(ctx context.Context, limit uint64) ([]domain.CityOutcome, error)
}

func printHistory(ctx context.Context, w io.Writer, h history, runID string, failures uint64) error {
	if runID == "" {
		latest, err := h.LatestRun(ctx)
		if err != nil {
			return err
		}
		if latest == "" {
			fmt.Fprintln(w, "No runs recorded.")
			return nil
		}
		runID = latest
	}

	summaries, err := h.Summaries(ctx, runID)
	if err != nil {
		return err
	}
	outcomes, err := h.Outcomes(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "=== Run %s ===\n", runID)
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No outcomes recorded for this run.")
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "  %-12s %d/%d\n", s.Language, s.Succeeded, s.Total)
	}
	for _, o := range outcomes {
		line := fmt.Sprintf("  %s / %s: %s", o.Language, o.City, o.State)
		if o.Error != "" {
			line += " (" + o.Error + ")"
		}
		fmt.Fprintln(w, line)
	}

	if failures == 0 {
		return nil
	}
	recent, err := h.LastFailures(ctx, failures)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\n--- Recent failures ---")
	if len(recent) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, o := range recent {
		fmt.Fprintf(w, "  %s  %s  %s / %s: %s\n", o.FinishedAt.Format("2006-01-02 15:04:05"), o.RunID, o.Language, o.City, o.Error)
	}
	return nil
}

// logLedgerSummary logs the run's per-language counts as stored in the
// ledger, so a run's console summary can be checked against what was
// recorded.
func logLedgerSummary(ctx context.Context, logger *slog.Logger, h history, runID string) {
	summaries, err := h.Summaries(ctx, runID)
	if err != nil {
		logger.Warn("ledger summary unavailable", "run_id", runID, "error", err)
		return
	}
	for _, s := range summaries {
		logger.Info("ledger summary", "run_id", runID, "language", s.Language, "succeeded", s.Succeeded, "total", s.Total)
	}
}
