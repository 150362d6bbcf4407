// Package indicator indexes the per-city access indicators and computes
// between-city comparisons.
package indicator

import (
	"fmt"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

// Store holds the renamed access indicators of every loaded city.
type Store struct {
	table domain.Table
	names []string
}

// NewStore renames the raw indicator columns to their report labels. Every
// indicator must be present.
func NewStore(raw domain.Table) (*Store, error) {
	rename := make(map[string]string, len(domain.IndicatorFields))
	names := make([]string, 0, len(domain.IndicatorFields))
	for _, f := range domain.IndicatorFields {
		if !raw.HasColumn(f.Field) {
			return nil, fmt.Errorf("indicators: %w: %q", domain.ErrMissingColumn, f.Field)
		}
		rename[f.Field] = f.Label
		names = append(names, f.Label)
	}
	return &Store{table: raw.Rename(rename), names: names}, nil
}

// Names returns the indicator labels in report order.
func (s *Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Cities returns the loaded cities in file order.
func (s *Store) Cities() []string {
	out := make([]string, len(s.table.Index))
	copy(out, s.table.Index)
	return out
}

// Table returns the renamed indicator table.
func (s *Store) Table() domain.Table {
	return s.table
}

// ForCity returns the indicator values of city keyed by label.
func (s *Store) ForCity(city string) (map[string]float64, error) {
	out := make(map[string]float64, len(s.names))
	for _, name := range s.names {
		v, err := s.table.Lookup(city, name)
		if err != nil {
			return nil, fmt.Errorf("indicators: %w", err)
		}
		out[name] = v
	}
	return out, nil
}

// Comparisons returns the 25th, 50th and 75th percentiles of each indicator
// across all loaded cities.
func (s *Store) Comparisons() domain.ComparisonSet {
	set := domain.ComparisonSet{
		P25: make(map[string]float64, len(s.names)),
		P50: make(map[string]float64, len(s.names)),
		P75: make(map[string]float64, len(s.names)),
	}
	for _, name := range s.names {
		values, _ := s.table.Column(name) // names are validated columns
		set.P25[name] = domain.Quantile(values, 0.25)
		set.P50[name] = domain.Quantile(values, 0.5)
		set.P75[name] = domain.Quantile(values, 0.75)
	}
	return set
}
