// Package policy indexes the policy analyses by city and summarizes policy
// ratings across cities.
package policy

import (
	"fmt"
	"math"
	"slices"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

// Aggregator serves per-city policy context. Ratings and their global
// summaries are computed once when the aggregator is built.
type Aggregator struct {
	analyses    []domain.PolicyAnalysis
	ratings     map[string]map[string]float64 // analysis -> city -> rating
	global      map[string]domain.Summary
	presenceGDP []domain.GroupSummary
}

// New builds an aggregator over the loaded policy data.
func New(data domain.PolicyData) (*Aggregator, error) {
	a := &Aggregator{
		analyses: slices.Clone(data.Analyses),
		ratings:  make(map[string]map[string]float64),
		global:   make(map[string]domain.Summary),
	}

	seen := make(map[string]bool, len(data.Analyses))
	for _, an := range data.Analyses {
		if seen[an.Name] {
			return nil, fmt.Errorf("policy analysis %q declared twice", an.Name)
		}
		seen[an.Name] = true
		if !an.Rating {
			continue
		}

		ratings := make(map[string]float64, len(an.Items.Index))
		values := make([]float64, 0, len(an.Items.Index))
		for _, city := range an.Items.Index {
			r := rating(an.Items.Values[city])
			ratings[city] = r
			values = append(values, r)
		}
		a.ratings[an.Name] = ratings
		a.global[an.Name] = domain.Describe(values)

		if an.Name == domain.PolicyPresence && an.GroupColumn != "" {
			a.presenceGDP = groupSummaries(an, ratings)
		}
	}
	return a, nil
}

// Analyses returns the analysis names in declaration order.
func (a *Aggregator) Analyses() []string {
	out := make([]string, len(a.analyses))
	for i, an := range a.analyses {
		out[i] = an.Name
	}
	return out
}

// Global returns the run-wide rating summary of a rating-bearing analysis.
func (a *Aggregator) Global(analysis string) (domain.Summary, bool) {
	s, ok := a.global[analysis]
	return s, ok
}

// ForCity returns the policy context of city. The city must appear in every
// analysis.
func (a *Aggregator) ForCity(city string) (domain.CityPolicy, error) {
	cp := domain.CityPolicy{
		Analyses:    a.Analyses(),
		Rows:        make(map[string]map[string]float64, len(a.analyses)),
		Ratings:     make(map[string]float64, len(a.ratings)),
		Global:      a.global,
		PresenceGDP: a.presenceGDP,
	}
	for _, an := range a.analyses {
		row, err := an.Items.Row(city)
		if err != nil {
			return domain.CityPolicy{}, fmt.Errorf("policy %s: %w", an.Name, err)
		}
		cp.Rows[an.Name] = row
		if r, ok := a.ratings[an.Name]; ok {
			cp.Ratings[an.Name] = r[city]
		}
	}
	return cp, nil
}

// rating is the mean of the non-missing item scores of a row.
func rating(row map[string]float64) float64 {
	var sum float64
	var n int
	for _, v := range row {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func groupSummaries(an domain.PolicyAnalysis, ratings map[string]float64) []domain.GroupSummary {
	byGroup := make(map[string][]float64)
	for _, city := range an.Items.Index {
		g, ok := an.Groups[city]
		if !ok || g == "" {
			continue
		}
		byGroup[g] = append(byGroup[g], ratings[city])
	}
	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	slices.Sort(groups)

	out := make([]domain.GroupSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, domain.GroupSummary{Group: g, Summary: domain.Describe(byGroup[g])})
	}
	return out
}
