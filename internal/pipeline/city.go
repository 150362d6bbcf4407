package pipeline

import (
	"context"
	"fmt"

	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/carlhiggs/global-scorecards/internal/font"
)

// runGroup processes every city of one language group in order. A returned
// error is fatal to the run; city failures are only recorded.
func (o *Orchestrator) runGroup(ctx context.Context, st *runState, runID string, group domain.LanguageGroup, opts RunOptions) (domain.LanguageSummary, []domain.CityOutcome, error) {
	summary := domain.LanguageSummary{Language: group.Language, Total: len(group.Cities)}
	logger := o.logger.With("run_id", runID, "language", group.Language)

	fmt.Fprintf(o.deps.Out, "\n%s language reports:\n", group.Language)
	o.updateStatus(func(s *domain.RunStatus) { s.Language = group.Language })

	f, err := font.ResolveAndRegister(o.deps.Fonts, st.fonts, group.Language)
	if err != nil {
		return summary, nil, fmt.Errorf("font: %w", err)
	}
	logger.Debug("font registered", "font", f.Name, "file", f.File)

	outcomes := make([]domain.CityOutcome, 0, len(group.Cities))
	for _, city := range group.Cities {
		if err := ctx.Err(); err != nil {
			return summary, outcomes, err
		}

		fmt.Fprintf(o.deps.Out, "\n- %s\n", city)
		o.updateStatus(func(s *domain.RunStatus) { s.City = city })
		out := o.processCity(ctx, st, runID, group.Language, f, city, opts)
		outcomes = append(outcomes, out)
		o.updateStatus(func(s *domain.RunStatus) {
			s.Processed++
			if !out.Succeeded() {
				s.Failed++
			}
		})
		o.metrics.CityDuration.Observe(out.FinishedAt.Sub(out.StartedAt).Seconds())

		if !out.Succeeded() {
			fmt.Fprintf(o.deps.Out, "\t- Report generation failed with error: %s\n", out.Error)
			logger.Warn("report generation failed", "city", city, "error", out.Error)
			o.metrics.CitiesProcessed.WithLabelValues(group.Language, "failed").Inc()
			continue
		}
		summary.Succeeded++
		o.metrics.CitiesProcessed.WithLabelValues(group.Language, "succeeded").Inc()
	}

	fmt.Fprintf(o.deps.Out, "\n %d/%d cities processed successfully!\n", summary.Succeeded, summary.Total)
	return summary, outcomes, nil
}

// processCity builds the city context and renders every requested template.
// Any error or panic ends the city as failed.
func (o *Orchestrator) processCity(ctx context.Context, st *runState, runID, lang string, f domain.Font, city string, opts RunOptions) (out domain.CityOutcome) {
	out = domain.CityOutcome{
		RunID:     runID,
		Language:  lang,
		City:      city,
		State:     domain.StatePending,
		StartedAt: domain.Now(),
	}
	defer func() {
		if r := recover(); r != nil {
			out = failed(out, fmt.Errorf("panic: %v", r))
		}
		out.FinishedAt = domain.Now()
	}()

	cc, err := o.buildContext(st, lang, f, city)
	if err != nil {
		return failed(out, err)
	}
	out.State = domain.StateContextBuilt

	if opts.GenerateResources {
		paths, err := o.deps.Resources.GenerateResources(ctx, cc)
		if err != nil {
			o.metrics.RenderErrors.Inc()
			return failed(out, fmt.Errorf("resources: %w", err))
		}
		o.metrics.ResourcesGenerated.Add(float64(len(paths)))
		out.Artifacts = append(out.Artifacts, paths...)
	}

	out.State = domain.StateRendering
	for _, t := range opts.Templates {
		req := domain.RenderRequest{
			Template:   domain.TemplateSheet(t),
			ByCity:     opts.ByCity,
			ByLanguage: opts.ByLanguage,
		}
		fmt.Fprintf(o.deps.Out, " [%s]\n", req.Template)
		path, err := o.deps.Renderer.RenderScorecard(ctx, cc, req)
		if err != nil {
			o.metrics.RenderErrors.Inc()
			return failed(out, fmt.Errorf("render %s: %w", req.Template, err))
		}
		o.metrics.TemplatesRendered.WithLabelValues(t).Inc()
		out.Artifacts = append(out.Artifacts, path)
	}

	out.State = domain.StateSucceeded
	return out
}

// buildContext assembles the per-city view of the run state: policy, the
// city's walkability thresholds, phrases, indicators and city details.
func (o *Orchestrator) buildContext(st *runState, lang string, f domain.Font, city string) (domain.CityContext, error) {
	pol, err := st.policy.ForCity(city)
	if err != nil {
		return domain.CityContext{}, err
	}

	walk, err := st.walkability.Lookup(city, domain.WalkabilityColumn)
	if err != nil {
		return domain.CityContext{}, fmt.Errorf("walkability: %w", err)
	}

	phrases, err := o.deps.Config.Phrases(city, lang)
	if err != nil {
		return domain.CityContext{}, fmt.Errorf("phrases: %w", err)
	}

	values, err := st.indicators.ForCity(city)
	if err != nil {
		return domain.CityContext{}, err
	}

	info, ok := st.cities[city]
	if !ok {
		info = domain.CityInfo{Name: city}
	}

	return domain.CityContext{
		City:           city,
		Language:       lang,
		Font:           f,
		Info:           info,
		IndicatorNames: st.indicators.Names(),
		Indicators:     values,
		Comparisons:    st.comparisons,
		Thresholds:     st.thresholds.ForCity(walk),
		Policy:         pol,
		Phrases:        phrases,
	}, nil
}

func failed(out domain.CityOutcome, err error) domain.CityOutcome {
	out.State = domain.StateFailed
	out.Error = err.Error()
	return out
}
