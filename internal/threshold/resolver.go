// Package threshold builds the threshold scenarios used to place a city's
// neighbourhood densities against globally observed ranges.
package threshold

import (
	"fmt"
	"math"
	"slices"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

// Definition declares a threshold metric before its range is known.
type Definition struct {
	Key   string
	Title string
	Field string
	Scale string
}

// DefaultLookup returns the neighbourhood density metrics reported on scorecards.
func DefaultLookup() []Definition {
	return []Definition{
		{
			Key:   "Mean 1000 m neighbourhood population per km²",
			Title: "Neighbourhood population density (per km²)",
			Field: "local_nh_population_density",
			Scale: domain.ScaleLog,
		},
		{
			Key:   "Mean 1000 m neighbourhood street intersections per km²",
			Title: "Neighbourhood intersection density (per km²)",
			Field: "local_nh_intersection_density",
			Scale: domain.ScaleLog,
		},
	}
}

// Ranges attaches to each definition the min and max of its field across all
// rows of extrema, truncated to integers.
func Ranges(lookup []Definition, extrema domain.Table) ([]domain.ThresholdMetric, error) {
	metrics := make([]domain.ThresholdMetric, 0, len(lookup))
	for _, d := range lookup {
		values, err := extrema.Column(d.Field)
		if err != nil {
			return nil, fmt.Errorf("threshold %q: %w", d.Key, err)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("threshold %q: %w: %q", d.Key, domain.ErrEmptyColumn, d.Field)
		}
		metrics = append(metrics, domain.ThresholdMetric{
			Key:   d.Key,
			Title: d.Title,
			Field: d.Field,
			Scale: d.Scale,
			Range: [2]int{int(slices.Min(values)), int(slices.Max(values))},
		})
	}
	return metrics, nil
}

// Setup combines the metrics with the thresholds data into named scenarios.
// Every scenario must refer to a known metric.
func Setup(metrics []domain.ThresholdMetric, rows []domain.ThresholdRow) (domain.ThresholdScenarios, error) {
	s := domain.ThresholdScenarios{
		Metrics:   slices.Clone(metrics),
		Scenarios: make([]domain.ThresholdScenario, 0, len(rows)),
	}
	for _, r := range rows {
		m, ok := s.Metric(r.Metric)
		if !ok {
			return domain.ThresholdScenarios{}, fmt.Errorf("threshold scenario %q: unknown metric %q", r.Scenario, r.Metric)
		}
		s.Scenarios = append(s.Scenarios, domain.ThresholdScenario{
			Name:      r.Scenario,
			Metric:    r.Metric,
			Threshold: r.Threshold,
			Position:  Position(m, r.Threshold),
		})
	}
	return s, nil
}

// Position returns where value falls on the metric's range, on its scale,
// as a fraction clamped to [0, 1]. A degenerate range yields 0.
func Position(m domain.ThresholdMetric, value float64) float64 {
	lo, hi := float64(m.Range[0]), float64(m.Range[1])
	if m.Scale == domain.ScaleLog {
		if lo <= 0 {
			lo = 1
		}
		if value <= 0 || hi <= lo {
			return 0
		}
		lo, hi, value = math.Log10(lo), math.Log10(hi), math.Log10(value)
	}
	if hi <= lo {
		return 0
	}
	p := (value - lo) / (hi - lo)
	return math.Max(0, math.Min(1, p))
}
