package pipeline

import (
	"context"
	"fmt"

	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/carlhiggs/global-scorecards/internal/indicator"
	"github.com/carlhiggs/global-scorecards/internal/language"
	"github.com/carlhiggs/global-scorecards/internal/policy"
	"github.com/carlhiggs/global-scorecards/internal/threshold"
	"github.com/carlhiggs/global-scorecards/internal/workbook"
)

// runState is computed once per run and shared read-only by every city.
type runState struct {
	groups      domain.LanguageGroups
	fonts       []domain.FontRow
	indicators  *indicator.Store
	comparisons domain.ComparisonSet
	thresholds  domain.ThresholdScenarios
	policy      *policy.Aggregator
	walkability domain.Table
	cities      map[string]domain.CityInfo
}

func (o *Orchestrator) setup(ctx context.Context, opts RunOptions) (*runState, error) {
	sheets := []string{workbook.SheetFonts}
	if opts.AutoLanguage {
		sheets = append(sheets, workbook.SheetLanguages)
	}
	for _, t := range opts.Templates {
		sheets = append(sheets, domain.TemplateSheet(t))
	}
	if err := o.deps.Config.RequireSheets(sheets...); err != nil {
		return nil, err
	}

	st := &runState{}

	var table domain.LanguageTable
	if opts.AutoLanguage {
		var err error
		if table, err = o.deps.Config.Languages(); err != nil {
			return nil, fmt.Errorf("languages: %w", err)
		}
	}
	st.groups = language.Resolve(table, opts.Cities, opts.Language, opts.AutoLanguage)

	fonts, err := o.deps.Config.Fonts()
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	st.fonts = fonts

	raw, err := o.deps.Data.LoadIndicators(ctx)
	if err != nil {
		return nil, fmt.Errorf("load indicators: %w", err)
	}
	if st.indicators, err = indicator.NewStore(raw); err != nil {
		return nil, fmt.Errorf("indicators: %w", err)
	}
	st.comparisons = st.indicators.Comparisons()

	extrema, err := o.deps.Data.LoadExtrema(ctx)
	if err != nil {
		return nil, fmt.Errorf("load extrema: %w", err)
	}
	metrics, err := threshold.Ranges(threshold.DefaultLookup(), extrema)
	if err != nil {
		return nil, fmt.Errorf("threshold ranges: %w", err)
	}
	rows, err := o.deps.Data.LoadThresholds(ctx)
	if err != nil {
		return nil, fmt.Errorf("load thresholds: %w", err)
	}
	if st.thresholds, err = threshold.Setup(metrics, rows); err != nil {
		return nil, fmt.Errorf("thresholds: %w", err)
	}

	pd, err := o.deps.Data.LoadPolicy(ctx)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	if st.policy, err = policy.New(pd); err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}

	if st.walkability, err = o.deps.Data.LoadWalkability(ctx); err != nil {
		return nil, fmt.Errorf("load walkability: %w", err)
	}
	if !st.walkability.HasColumn(domain.WalkabilityColumn) {
		return nil, fmt.Errorf("walkability: %w: %s", domain.ErrMissingColumn, domain.WalkabilityColumn)
	}

	if st.cities, err = o.deps.Data.LoadCities(ctx); err != nil {
		return nil, fmt.Errorf("load cities: %w", err)
	}

	o.logger.Info("run setup complete",
		"groups", len(st.groups),
		"indicator_cities", len(st.indicators.Cities()),
		"policy_analyses", len(st.policy.Analyses()),
		"threshold_scenarios", len(st.thresholds.Scenarios))
	return st, nil
}
