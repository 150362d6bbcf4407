// Package ledger keeps a SQLite record of per-city report outcomes across runs.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
	run_id      TEXT NOT NULL,
	language    TEXT NOT NULL,
	city        TEXT NOT NULL,
	state       TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	artifacts   TEXT NOT NULL DEFAULT '[]',
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	PRIMARY KEY (run_id, language, city)
);
CREATE INDEX IF NOT EXISTS idx_outcomes_city ON outcomes(city, finished_at);
`

// timeLayout is fixed width so that timestamps stored as text sort in time
// order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var outcomeColumns = []string{"run_id", "language", "city", "state", "error", "artifacts", "started_at", "finished_at"}

// Ledger stores outcomes in a SQLite database.
// It implements pipeline.OutcomeSink.
type Ledger struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the ledger database at path.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Ledger{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordOutcomes stores the outcomes in one transaction. A city recorded
// again in the same run and language is replaced.
func (l *Ledger) RecordOutcomes(ctx context.Context, outcomes []domain.CityOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, o := range outcomes {
		artifacts, err := json.Marshal(o.Artifacts)
		if err != nil {
			return fmt.Errorf("encode artifacts: %w", err)
		}
		_, err = sq.Insert("outcomes").
			Options("OR REPLACE").
			Columns(outcomeColumns...).
			Values(o.RunID, o.Language, o.City, string(o.State), o.Error, string(artifacts),
				o.StartedAt.UTC().Format(timeLayout), o.FinishedAt.UTC().Format(timeLayout)).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert outcome %s/%s: %w", o.Language, o.City, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	l.logger.Debug("outcomes recorded", "count", len(outcomes))
	return nil
}

// Outcomes returns the outcomes of a run ordered by language and city.
func (l *Ledger) Outcomes(ctx context.Context, runID string) ([]domain.CityOutcome, error) {
	rows, err := sq.Select(outcomeColumns...).
		From("outcomes").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("language", "city").
		RunWith(l.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []domain.CityOutcome
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Summaries returns per-language success counts of a run.
func (l *Ledger) Summaries(ctx context.Context, runID string) ([]domain.LanguageSummary, error) {
	rows, err := sq.Select("language").
		Column(sq.Expr("SUM(CASE WHEN state = ? THEN 1 ELSE 0 END)", string(domain.StateSucceeded))).
		Column("COUNT(*)").
		From("outcomes").
		Where(sq.Eq{"run_id": runID}).
		GroupBy("language").
		OrderBy("language").
		RunWith(l.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []domain.LanguageSummary
	for rows.Next() {
		var s domain.LanguageSummary
		if err := rows.Scan(&s.Language, &s.Succeeded, &s.Total); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LastFailures returns up to limit failed outcomes across all runs, newest
// first.
func (l *Ledger) LastFailures(ctx context.Context, limit uint64) ([]domain.CityOutcome, error) {
	rows, err := sq.Select(outcomeColumns...).
		From("outcomes").
		Where(sq.Eq{"state": string(domain.StateFailed)}).
		OrderBy("finished_at DESC").
		Limit(limit).
		RunWith(l.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	var out []domain.CityOutcome
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// LatestRun returns the id of the run with the most recently finished
// outcome, or "" when the ledger is empty.
func (l *Ledger) LatestRun(ctx context.Context) (string, error) {
	var runID string
	err := sq.Select("run_id").
		From("outcomes").
		OrderBy("finished_at DESC").
		Limit(1).
		RunWith(l.db).
		QueryRowContext(ctx).
		Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query latest run: %w", err)
	}
	return runID, nil
}

func scanOutcome(rows *sql.Rows) (domain.CityOutcome, error) {
	var (
		o                 domain.CityOutcome
		state, artifacts  string
		started, finished string
	)
	if err := rows.Scan(&o.RunID, &o.Language, &o.City, &state, &o.Error, &artifacts, &started, &finished); err != nil {
		return o, fmt.Errorf("scan outcome: %w", err)
	}
	o.State = domain.CityState(state)
	if err := json.Unmarshal([]byte(artifacts), &o.Artifacts); err != nil {
		return o, fmt.Errorf("decode artifacts: %w", err)
	}
	var err error
	if o.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return o, fmt.Errorf("parse started_at: %w", err)
	}
	if o.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return o, fmt.Errorf("parse finished_at: %w", err)
	}
	return o, nil
}
