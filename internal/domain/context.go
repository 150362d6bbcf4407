package domain

// Phrases are localized text snippets keyed by phrase name.
type Phrases map[string]string

// CityContext is everything the renderers need for one city in one language.
// It is built fresh for every city and discarded once its renders complete.
type CityContext struct {
	City           string
	Language       string
	Font           Font
	Info           CityInfo
	IndicatorNames []string
	Indicators     map[string]float64
	Comparisons    ComparisonSet
	Thresholds     CityThresholds
	Policy         CityPolicy
	Phrases        Phrases
}

// RenderRequest selects a template and the output location policy.
type RenderRequest struct {
	Template   string // workbook sheet name, e.g. "template_web"
	ByCity     bool
	ByLanguage bool
}

// TemplateSheet returns the workbook sheet name for a template.
func TemplateSheet(name string) string {
	return "template_" + name
}
