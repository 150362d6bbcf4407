package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlhiggs/global-scorecards/internal/adapter/ledger"
	"github.com/carlhiggs/global-scorecards/internal/domain"
)

func openLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(filepath.Join(t.TempDir(), "runs.db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestPrintHistory_LatestRun(t *testing.T) {
	l := openLedger(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, l.RecordOutcomes(ctx, []domain.CityOutcome{
		{RunID: "run-1", Language: "English", City: "Graz", State: domain.StateFailed, Error: "fonts: no font", StartedAt: at, FinishedAt: at},
		{RunID: "run-2", Language: "English", City: "Graz", State: domain.StateSucceeded, StartedAt: at, FinishedAt: at.Add(time.Hour)},
		{RunID: "run-2", Language: "English", City: "Bern", State: domain.StateFailed, Error: "indicators: city not found", StartedAt: at, FinishedAt: at.Add(time.Hour + 500*time.Millisecond)},
		{RunID: "run-2", Language: "Dutch", City: "Ghent", State: domain.StateSucceeded, StartedAt: at, FinishedAt: at.Add(time.Hour)},
	}))

	var out bytes.Buffer
	require.NoError(t, printHistory(ctx, &out, l, "", 1))

	got := out.String()
	assert.Contains(t, got, "=== Run run-2 ===")
	assert.Contains(t, got, "  Dutch        1/1\n")
	assert.Contains(t, got, "  English      1/2\n")
	assert.Contains(t, got, "English / Bern: failed (indicators: city not found)")
	assert.Contains(t, got, "run-2  English / Bern: indicators: city not found")
	assert.NotContains(t, got, "fonts: no font")
}

func TestPrintHistory_SelectedRun(t *testing.T) {
	l := openLedger(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, l.RecordOutcomes(ctx, []domain.CityOutcome{
		{RunID: "run-1", Language: "German", City: "Bern", State: domain.StateSucceeded, StartedAt: at, FinishedAt: at},
		{RunID: "run-2", Language: "English", City: "Graz", State: domain.StateSucceeded, StartedAt: at, FinishedAt: at.Add(time.Hour)},
	}))

	var out bytes.Buffer
	require.NoError(t, printHistory(ctx, &out, l, "run-1", 0))

	assert.Contains(t, out.String(), "=== Run run-1 ===")
	assert.Contains(t, out.String(), "German / Bern")
	assert.NotContains(t, out.String(), "Recent failures")
}

func TestPrintHistory_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printHistory(context.Background(), &out, openLedger(t), "", 10))

	assert.Equal(t, "No runs recorded.\n", out.String())
}
