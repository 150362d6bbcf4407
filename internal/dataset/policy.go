package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/carlhiggs/global-scorecards/internal/domain"
	"gopkg.in/yaml.v3"
)

// PolicyLookup declares the policy analyses to load.
type PolicyLookup struct {
	Analyses []PolicyAnalysisConfig `yaml:"analyses"`
}

// PolicyAnalysisConfig declares one analysis. CSV paths are relative to the
// lookup file.
type PolicyAnalysisConfig struct {
	Name        string `yaml:"name"`
	CSV         string `yaml:"csv"`
	Rating      bool   `yaml:"rating"`
	GroupColumn string `yaml:"group_column"`
}

// LoadPolicyLookup parses the policy lookup YAML file.
func LoadPolicyLookup(path string) (*PolicyLookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy lookup: %w", err)
	}
	lookup := &PolicyLookup{}
	if err := yaml.Unmarshal(data, lookup); err != nil {
		return nil, fmt.Errorf("parsing policy lookup: %w", err)
	}
	for i, a := range lookup.Analyses {
		if a.Name == "" || a.CSV == "" {
			return nil, fmt.Errorf("policy lookup: analysis %d needs a name and csv", i+1)
		}
	}
	return lookup, nil
}

// LoadPolicy reads every analysis declared in the lookup file.
func LoadPolicy(path string) (domain.PolicyData, error) {
	lookup, err := LoadPolicyLookup(path)
	if err != nil {
		return domain.PolicyData{}, err
	}
	dir := filepath.Dir(path)

	data := domain.PolicyData{Analyses: make([]domain.PolicyAnalysis, 0, len(lookup.Analyses))}
	for _, a := range lookup.Analyses {
		csvPath := a.CSV
		if !filepath.IsAbs(csvPath) {
			csvPath = filepath.Join(dir, csvPath)
		}

		var skip []string
		if a.GroupColumn != "" {
			skip = append(skip, a.GroupColumn)
		}
		items, err := ReadTable(csvPath, skip...)
		if err != nil {
			return domain.PolicyData{}, fmt.Errorf("policy %s: %w", a.Name, err)
		}

		an := domain.PolicyAnalysis{
			Name:        a.Name,
			Rating:      a.Rating,
			GroupColumn: a.GroupColumn,
			Items:       items,
		}
		if a.GroupColumn != "" {
			groups, err := readColumn(csvPath, a.GroupColumn)
			if err != nil {
				return domain.PolicyData{}, fmt.Errorf("policy %s: %w", a.Name, err)
			}
			an.Groups = groups
		}
		data.Analyses = append(data.Analyses, an)
	}
	return data, nil
}
