package pipeline_test

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

// --- fakes ---

var studyCities = []string{"Graz", "Ghent", "Bern"}

type fakeData struct {
	walkability domain.Table
	extrema     domain.Table
	thresholds  []domain.ThresholdRow
	indicators  domain.Table
	policy      domain.PolicyData
}

// indicatorTable holds indicator values for the given cities.
func indicatorTable(cities ...string) domain.Table {
	ind := make([]string, 0, len(domain.IndicatorFields))
	for _, f := range domain.IndicatorFields {
		ind = append(ind, f.Field)
	}
	indicators := domain.NewTable(ind...)
	for i, city := range cities {
		row := make(map[string]float64, len(ind))
		for j, f := range ind {
			row[f] = float64(10*(i+1) + j)
		}
		indicators.AddRow(city, row)
	}
	return indicators
}

func newFakeData() *fakeData {
	indicators := indicatorTable(studyCities...)

	extrema := domain.NewTable("local_nh_population_density", "local_nh_intersection_density")
	extrema.AddRow("Graz", map[string]float64{"local_nh_population_density": 10.7, "local_nh_intersection_density": 2.2})
	extrema.AddRow("Ghent", map[string]float64{"local_nh_population_density": 5400.9, "local_nh_intersection_density": 310.4})

	walk := domain.NewTable(domain.WalkabilityColumn)
	walk.AddRow("Graz", map[string]float64{domain.WalkabilityColumn: 62.5})
	walk.AddRow("Ghent", map[string]float64{domain.WalkabilityColumn: 48.1})
	walk.AddRow("Bern", map[string]float64{domain.WalkabilityColumn: 71.0})

	presence := domain.NewTable("q1", "q2")
	presence.AddRow("Graz", map[string]float64{"q1": 1, "q2": 0})
	presence.AddRow("Ghent", map[string]float64{"q1": 1, "q2": 1})
	presence.AddRow("Bern", map[string]float64{"q1": 0, "q2": 0})

	return &fakeData{
		walkability: walk,
		extrema:     extrema,
		thresholds: []domain.ThresholdRow{
			{Scenario: "WHO target", Metric: "Mean 1000 m neighbourhood population per km²", Threshold: 5700},
		},
		indicators: indicators,
		policy: domain.PolicyData{Analyses: []domain.PolicyAnalysis{
			{Name: domain.PolicyPresence, Rating: true, Items: presence},
		}},
	}
}

func (f *fakeData) LoadIndicators(context.Context) (domain.Table, error) { return f.indicators, nil }
func (f *fakeData) LoadExtrema(context.Context) (domain.Table, error)    { return f.extrema, nil }
func (f *fakeData) LoadThresholds(context.Context) ([]domain.ThresholdRow, error) {
	return f.thresholds, nil
}
func (f *fakeData) LoadWalkability(context.Context) (domain.Table, error) { return f.walkability, nil }
func (f *fakeData) LoadPolicy(context.Context) (domain.PolicyData, error) { return f.policy, nil }
func (f *fakeData) LoadCities(context.Context) (map[string]domain.CityInfo, error) {
	return map[string]domain.CityInfo{"Graz": {Name: "Graz", Country: "Austria", Lat: 47.07, Lon: 15.44}}, nil
}

type fakeConfig struct {
	sheets    []string
	languages domain.LanguageTable
	fonts     []domain.FontRow
}

func newFakeConfig() *fakeConfig {
	return &fakeConfig{
		sheets: []string{"languages", "fonts", "phrases", "template_web", "template_print"},
		languages: domain.LanguageTable{
			Languages: []string{"English", "German", "Dutch"},
			Cities:    []string{"Graz", "Ghent", "Bern"},
			Names: map[string]map[string]string{
				"Graz":  {"English": "Graz", "German": "Graz"},
				"Ghent": {"English": "Ghent", "Dutch": "Gent"},
				"Bern":  {"English": "Bern", "German": "Bern"},
			},
		},
		fonts: []domain.FontRow{
			{Language: "default", File: "fonts/Roboto.ttf", Font: "Roboto"},
			{Language: "German", File: "fonts/Fira.ttf", Font: "Fira"},
		},
	}
}

func (c *fakeConfig) RequireSheets(sheets ...string) error {
	for _, s := range sheets {
		if !slices.Contains(c.sheets, s) {
			return fmt.Errorf("%w: %q", domain.ErrMissingSheet, s)
		}
	}
	return nil
}

func (c *fakeConfig) Languages() (domain.LanguageTable, error) { return c.languages, nil }
func (c *fakeConfig) Fonts() ([]domain.FontRow, error)         { return c.fonts, nil }

func (c *fakeConfig) Phrases(city, language string) (domain.Phrases, error) {
	return domain.Phrases{"city": c.languages.LocalName(city, language), "language": language}, nil
}

type fakeFonts struct {
	registered []domain.FontRow
}

func (f *fakeFonts) Register(row domain.FontRow) (domain.Font, error) {
	f.registered = append(f.registered, row)
	return domain.Font{Language: row.Language, File: row.File, Name: row.Font, Family: row.Font}, nil
}

type renderCall struct {
	City        string
	Language    string
	Template    string
	Font        string
	Walkability float64
	Presence    domain.Summary
}

type fakeRenderer struct {
	mu      sync.Mutex
	calls   []renderCall
	failFor map[string]error
	panicOn string
}

func (r *fakeRenderer) RenderScorecard(_ context.Context, cc domain.CityContext, req domain.RenderRequest) (string, error) {
	if cc.City == r.panicOn {
		panic("renderer exploded")
	}
	if err := r.failFor[cc.City]; err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, renderCall{
		City:        cc.City,
		Language:    cc.Language,
		Template:    req.Template,
		Font:        cc.Font.Name,
		Walkability: cc.Thresholds.Walkability,
		Presence:    cc.Policy.Global[domain.PolicyPresence],
	})
	return fmt.Sprintf("out/%s/scorecard_%s_%s.pdf", cc.Language, cc.City, req.Template), nil
}

type fakeResources struct {
	cities []string
}

func (r *fakeResources) GenerateResources(_ context.Context, cc domain.CityContext) ([]string, error) {
	r.cities = append(r.cities, cc.City)
	return []string{"resources/" + cc.City + "/access.png"}, nil
}

type fakeSink struct {
	batches [][]domain.CityOutcome
	err     error
}

func (s *fakeSink) RecordOutcomes(_ context.Context, outcomes []domain.CityOutcome) error {
	s.batches = append(s.batches, outcomes)
	return s.err
}
