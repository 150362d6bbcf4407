package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/carlhiggs/global-scorecards/internal/font"
	"github.com/carlhiggs/global-scorecards/internal/language"
	"github.com/carlhiggs/global-scorecards/internal/observability"
)

// DataSource loads the run-wide input tables.
type DataSource interface {
	LoadIndicators(ctx context.Context) (domain.Table, error)
	LoadExtrema(ctx context.Context) (domain.Table, error)
	LoadThresholds(ctx context.Context) ([]domain.ThresholdRow, error)
	LoadWalkability(ctx context.Context) (domain.Table, error)
	LoadPolicy(ctx context.Context) (domain.PolicyData, error)
	LoadCities(ctx context.Context) (map[string]domain.CityInfo, error)
}

// Configuration is the report configuration workbook.
type Configuration interface {
	RequireSheets(sheets ...string) error
	Languages() (domain.LanguageTable, error)
	Fonts() ([]domain.FontRow, error)
	Phrases(city, language string) (domain.Phrases, error)
}

// ResourceGenerator writes per-city images used by the templates.
type ResourceGenerator interface {
	GenerateResources(ctx context.Context, cc domain.CityContext) ([]string, error)
}

// ScorecardRenderer renders one template for one city and returns the output path.
type ScorecardRenderer interface {
	RenderScorecard(ctx context.Context, cc domain.CityContext, req domain.RenderRequest) (string, error)
}

// OutcomeSink receives the outcomes of each language group.
type OutcomeSink interface {
	RecordOutcomes(ctx context.Context, outcomes []domain.CityOutcome) error
}

// Deps are the collaborators of an Orchestrator. Resources may be nil when
// resource generation is never requested.
type Deps struct {
	Data      DataSource
	Config    Configuration
	Fonts     font.Registrar
	Resources ResourceGenerator
	Renderer  ScorecardRenderer
	Sinks     []OutcomeSink
	Out       io.Writer
}

// RunOptions select what a run produces.
type RunOptions struct {
	Cities            []string
	Language          string
	AutoLanguage      bool
	GenerateResources bool
	ByCity            bool
	ByLanguage        bool
	Templates         []string
}

// Orchestrator drives report generation across language groups and cities.
type Orchestrator struct {
	deps    Deps
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool

	mu     sync.Mutex
	status domain.RunStatus
}

// New creates an Orchestrator with the given collaborators and observability.
func New(deps Deps, logger *slog.Logger, metrics *observability.Metrics) *Orchestrator {
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	return &Orchestrator{
		deps:    deps,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once run setup has completed.
func (o *Orchestrator) CheckReadiness(_ context.Context) error {
	if !o.ready.Load() {
		return errors.New("report run has not completed setup")
	}
	return nil
}

// Status returns the progress of the current or last run.
func (o *Orchestrator) Status() domain.RunStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) updateStatus(fn func(s *domain.RunStatus)) {
	o.mu.Lock()
	fn(&o.status)
	o.mu.Unlock()
}

// Run generates reports for every selected language group. Setup failures
// and font failures are returned; failures of a single city are recorded in
// the report and do not stop the run.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (domain.RunReport, error) {
	report := domain.RunReport{RunID: uuid.NewString(), StartedAt: domain.Now()}
	logger := o.logger.With("run_id", report.RunID)

	o.metrics.RunRunning.Set(1)
	defer o.metrics.RunRunning.Set(0)
	o.updateStatus(func(s *domain.RunStatus) { *s = domain.RunStatus{RunID: report.RunID, Running: true} })
	defer o.updateStatus(func(s *domain.RunStatus) { s.Running = false })

	if opts.GenerateResources && o.deps.Resources == nil {
		return report, errors.New("resource generation requested without a resource generator")
	}

	st, err := o.setup(ctx, opts)
	if err != nil {
		return report, fmt.Errorf("setup: %w", err)
	}
	o.ready.Store(true)

	groups, err := language.Select(st.groups, opts.Language)
	if err != nil {
		return report, err
	}
	logger.Info("report run started", "languages", len(groups), "templates", opts.Templates)

	for _, group := range groups {
		summary, outcomes, err := o.runGroup(ctx, st, report.RunID, group, opts)
		report.Outcomes = append(report.Outcomes, outcomes...)
		// A group that ran to completion is summarised even with no cities.
		if err == nil || len(outcomes) > 0 {
			report.Languages = append(report.Languages, summary)
		}
		if len(outcomes) > 0 {
			o.publish(ctx, outcomes)
		}
		if err != nil {
			report.FinishedAt = domain.Now()
			return report, err
		}
	}

	report.FinishedAt = domain.Now()
	logger.Info("report run finished",
		"cities", len(report.Outcomes),
		"failed", len(report.Failed()),
		"duration", report.FinishedAt.Sub(report.StartedAt))
	return report, nil
}

func (o *Orchestrator) publish(ctx context.Context, outcomes []domain.CityOutcome) {
	for _, sink := range o.deps.Sinks {
		if err := sink.RecordOutcomes(ctx, outcomes); err != nil {
			o.logger.Warn("outcome sink failed", "error", err, "outcomes", len(outcomes))
		}
	}
}
