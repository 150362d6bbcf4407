package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/image/font/gofont/goregular"
	"gopkg.in/yaml.v3"

	"github.com/carlhiggs/global-scorecards/internal/dataset"
	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/carlhiggs/global-scorecards/internal/threshold"
	"github.com/carlhiggs/global-scorecards/internal/workbook"
)

var fixturesDir string

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Write a small demo dataset and configuration workbook",
	Long: `Write a self-consistent demo dataset to a directory: configuration
workbook, study data CSVs, policy lookup and city details. Point DATA_DIR at
<dir>/data and --configuration at <dir>/_report_configuration.xlsx to run
the report pipeline against it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := writeFixtures(fixturesDir); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "demo dataset written to %s (cities: %s)\n", fixturesDir, joinCities())
		return nil
	},
}

func init() {
	fixturesCmd.Flags().StringVar(&fixturesDir, "dir", "demo", "Directory to write the demo dataset to")
}

// fixtureCity is a demo city with its local names and study values.
type fixtureCity struct {
	name    string
	country string
	lat     float64
	lon     float64
	names   map[string]string // language -> local name
	// base scales the city's indicator values.
	base        float64
	walkability float64
	gdp         string
}

var fixtureLanguages = []string{"English", "German", "Dutch", "Portuguese"}

var fixtureCities = []fixtureCity{
	{name: "Graz", country: "Austria", lat: 47.0707, lon: 15.4395, names: map[string]string{"English": "Graz", "German": "Graz"}, base: 62, walkability: 58.4, gdp: "High income"},
	{name: "Ghent", country: "Belgium", lat: 51.0543, lon: 3.7174, names: map[string]string{"English": "Ghent", "Dutch": "Gent"}, base: 71, walkability: 64.2, gdp: "High income"},
	{name: "Bern", country: "Switzerland", lat: 46.948, lon: 7.4474, names: map[string]string{"English": "Bern", "German": "Bern"}, base: 68, walkability: 61.7, gdp: "High income"},
	{name: "Lisbon", country: "Portugal", lat: 38.7223, lon: -9.1393, names: map[string]string{"English": "Lisbon", "Portuguese": "Lisboa"}, base: 77, walkability: 72.9, gdp: "High income"},
	{name: "Sao Paulo", country: "Brazil", lat: -23.5505, lon: -46.6333, names: map[string]string{"English": "Sao Paulo", "Portuguese": "São Paulo"}, base: 49, walkability: 44.1, gdp: "Upper-middle income"},
}

func joinCities() string {
	names := make([]string, len(fixtureCities))
	for i, c := range fixtureCities {
		names[i] = c.name
	}
	return strings.Join(names, ",")
}

// writeFixtures writes the demo dataset under dir.
func writeFixtures(dir string) error {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	dataDir := filepath.Join(dir, "data")
	fontDir := filepath.Join(dir, "fonts")
	for _, d := range []string{dataDir, fontDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}

	fontPath := filepath.Join(fontDir, "Go-Regular.ttf")
	if err := os.WriteFile(fontPath, goregular.TTF, 0o644); err != nil {
		return fmt.Errorf("write font: %w", err)
	}

	if err := workbook.Write(filepath.Join(dir, "_report_configuration.xlsx"), fixtureSheets(fontPath)...); err != nil {
		return err
	}

	steps := []struct {
		name string
		rows [][]string
	}{
		{"city_indicators.csv", indicatorRows()},
		{"hex_indicators.csv", hexRows()},
		{"thresholds.csv", thresholdRows()},
		{"walkability.csv", walkabilityRows()},
		{"policy_presence.csv", policyRows(true)},
		{"policy_checklist.csv", policyRows(false)},
	}
	for _, s := range steps {
		if err := writeCSV(filepath.Join(dataDir, s.name), s.rows); err != nil {
			return err
		}
	}

	if err := writePolicyLookup(filepath.Join(dataDir, "policy_lookup.yaml")); err != nil {
		return err
	}
	return writeCityData(filepath.Join(dataDir, "cities.json"))
}

func fixtureSheets(fontPath string) []workbook.Sheet {
	languages := [][]string{append([]string{"name"}, fixtureLanguages...)}
	for _, c := range fixtureCities {
		row := []string{c.name}
		for _, lang := range fixtureLanguages {
			row = append(row, c.names[lang])
		}
		languages = append(languages, row)
	}

	fonts := [][]string{
		{"Language", "File", "Font"},
		{"default", fontPath, "Go"},
		{"English", fontPath, "Go"},
	}

	phrases := [][]string{
		append([]string{"name"}, fixtureLanguages...),
		{"title", "Healthy and sustainable city indicators: {city}", "Indikatoren für gesunde und nachhaltige Städte: {city}", "Indicatoren voor gezonde en duurzame steden: {city}", "Indicadores de cidades saudáveis e sustentáveis: {city}"},
		{"subtitle", "{city}, {country}", "{city}, {country}", "{city}, {country}", "{city}, {country}"},
		{"access_heading", "Population with access within 500 m (%)", "Bevölkerung mit Zugang innerhalb von 500 m (%)", "Bevolking met toegang binnen 500 m (%)", "População com acesso a 500 m (%)"},
		{"walkability_label", "Population above median walkability (%)", "Bevölkerung über dem Median der Gehfreundlichkeit (%)", "Bevolking boven mediane beloopbaarheid (%)", "População acima da caminhabilidade mediana (%)"},
		{"policy_label", "Policy presence rating", "Bewertung der Politikpräsenz", "Beoordeling beleidsaanwezigheid", "Classificação da presença de políticas"},
	}

	details := [][]string{{"City", "country"}}
	for _, c := range fixtureCities {
		details = append(details, []string{c.name, c.country})
	}

	header := []string{"page", "name", "type", "x", "y", "w", "h", "size", "content"}
	web := [][]string{
		header,
		{"1", "title", "text", "15", "15", "180", "12", "18", "{title}"},
		{"1", "subtitle", "text", "15", "30", "180", "8", "12", "{subtitle}"},
		{"1", "access_heading", "text", "15", "45", "180", "8", "12", "{access_heading}"},
	}
	y := 55
	for _, f := range domain.IndicatorFields {
		web = append(web, []string{"1", f.Label, "text", "20", strconv.Itoa(y), "170", "6", "10",
			fmt.Sprintf("%[1]s: {%[1]s} (median {%[1]s median})", f.Label)})
		y += 8
	}
	web = append(web,
		[]string{"1", "walkability", "text", "15", strconv.Itoa(y + 5), "180", "8", "10", "{walkability_label}: {walkability}"},
		[]string{"2", "policy", "text", "15", "15", "180", "8", "10", "{policy_label}: {Presence rating} (median {Presence median rating})"},
	)

	printTemplate := [][]string{
		header,
		{"1", "title", "text", "15", "15", "180", "12", "18", "{title}"},
		{"1", "chart", "image", "15", "35", "180", "77", "", "{resources}/access.png"},
	}

	return []workbook.Sheet{
		{Name: workbook.SheetLanguages, Rows: languages},
		{Name: workbook.SheetFonts, Rows: fonts},
		{Name: workbook.SheetPhrases, Rows: phrases},
		{Name: workbook.SheetCityDetails, Rows: details},
		{Name: domain.TemplateSheet("web"), Rows: web},
		{Name: domain.TemplateSheet("print"), Rows: printTemplate},
	}
}

func indicatorRows() [][]string {
	header := []string{dataset.IndexColumn}
	for _, f := range domain.IndicatorFields {
		header = append(header, f.Field)
	}
	rows := [][]string{header}
	for _, c := range fixtureCities {
		row := []string{c.name}
		for i := range domain.IndicatorFields {
			v := c.base + float64(i*5) - 10
			row = append(row, strconv.FormatFloat(min(v, 100), 'f', 1, 64))
		}
		rows = append(rows, row)
	}
	return rows
}

// hexRows lists a few neighbourhood hexes per city; only the extremes of
// their densities matter.
func hexRows() [][]string {
	defs := threshold.DefaultLookup()
	scale := []float64{40, 1.6} // population, intersections per index point
	header := []string{dataset.IndexColumn}
	for _, d := range defs {
		header = append(header, d.Field)
	}
	rows := [][]string{header}
	for _, c := range fixtureCities {
		for h := 1; h <= 3; h++ {
			row := []string{fmt.Sprintf("%s %d", c.name, h)}
			for i := range defs {
				v := c.base * float64(h) * scale[i%len(scale)]
				row = append(row, strconv.FormatFloat(v, 'f', 0, 64))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func thresholdRows() [][]string {
	defs := threshold.DefaultLookup()
	return [][]string{
		{"Scenario", "Metric", "Threshold"},
		{"Population density, target", defs[0].Key, "5700"},
		{"Intersection density, target", defs[1].Key, "106"},
	}
}

func walkabilityRows() [][]string {
	rows := [][]string{{dataset.IndexColumn, domain.WalkabilityColumn}}
	for _, c := range fixtureCities {
		rows = append(rows, []string{c.name, strconv.FormatFloat(c.walkability, 'f', 1, 64)})
	}
	return rows
}

// policyRows writes a presence (with GDP group) or checklist analysis.
func policyRows(presence bool) [][]string {
	items := []string{"Transport policy", "Urban design policy", "Open space policy", "Housing policy"}
	header := []string{dataset.IndexColumn}
	if presence {
		header = append(header, "gdp_group")
	}
	rows := [][]string{append(header, items...)}
	for i, c := range fixtureCities {
		row := []string{c.name}
		if presence {
			row = append(row, c.gdp)
		}
		for j := range items {
			score := (i + j) % 2
			if !presence {
				score = (i + 2*j) % 3
			}
			row = append(row, strconv.Itoa(score))
		}
		rows = append(rows, row)
	}
	return rows
}

func writePolicyLookup(path string) error {
	lookup := dataset.PolicyLookup{Analyses: []dataset.PolicyAnalysisConfig{
		{Name: domain.PolicyPresence, CSV: "policy_presence.csv", Rating: true, GroupColumn: "gdp_group"},
		{Name: domain.PolicyChecklist, CSV: "policy_checklist.csv", Rating: true},
	}}
	data, err := yaml.Marshal(&lookup)
	if err != nil {
		return fmt.Errorf("encode policy lookup: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCityData(path string) error {
	cities := make(map[string]domain.CityInfo, len(fixtureCities))
	for _, c := range fixtureCities {
		cities[c.name] = domain.CityInfo{Name: c.name, Country: c.country, Year: 2020, Lat: c.lat, Lon: c.lon, Zoom: 11}
	}
	data, err := json.MarshalIndent(cities, "", "  ")
	if err != nil {
		return fmt.Errorf("encode city data: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
