package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

// Paths locates the study data files.
type Paths struct {
	CityIndicators string
	HexIndicators  string
	Thresholds     string
	Walkability    string
	PolicyLookup   string
	CityData       string
}

// Source reads the study data from local files.
// It implements pipeline.DataSource.
type Source struct {
	paths Paths
}

// NewSource creates a file-backed data source.
func NewSource(paths Paths) *Source {
	return &Source{paths: paths}
}

func (s *Source) LoadIndicators(_ context.Context) (domain.Table, error) {
	return ReadTable(s.paths.CityIndicators)
}

func (s *Source) LoadExtrema(_ context.Context) (domain.Table, error) {
	return ReadTable(s.paths.HexIndicators)
}

func (s *Source) LoadThresholds(_ context.Context) ([]domain.ThresholdRow, error) {
	return ReadThresholds(s.paths.Thresholds)
}

func (s *Source) LoadWalkability(_ context.Context) (domain.Table, error) {
	return ReadTable(s.paths.Walkability)
}

func (s *Source) LoadPolicy(_ context.Context) (domain.PolicyData, error) {
	return LoadPolicy(s.paths.PolicyLookup)
}

// LoadCities reads the city details JSON, an object keyed by city name. A
// missing file yields no details.
func (s *Source) LoadCities(_ context.Context) (map[string]domain.CityInfo, error) {
	cities := make(map[string]domain.CityInfo)
	if s.paths.CityData == "" {
		return cities, nil
	}
	data, err := os.ReadFile(s.paths.CityData)
	if errors.Is(err, os.ErrNotExist) {
		return cities, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading city data: %w", err)
	}
	if err := json.Unmarshal(data, &cities); err != nil {
		return nil, fmt.Errorf("parsing city data: %w", err)
	}
	for name, info := range cities {
		if info.Name == "" {
			info.Name = name
			cities[name] = info
		}
	}
	return cities, nil
}
