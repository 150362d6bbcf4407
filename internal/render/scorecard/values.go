package scorecard

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// substitute replaces "{key}" placeholders with values. Unknown keys are left
// as written.
func substitute(s string, values map[string]string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := values[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// contextValues flattens a city context into placeholder values. Phrases
// take precedence over computed values of the same name.
func contextValues(cc domain.CityContext, resourcesDir string) map[string]string {
	v := map[string]string{
		"city":        cc.City,
		"language":    cc.Language,
		"country":     cc.Info.Country,
		"walkability": formatNumber(cc.Thresholds.Walkability, 1),
		"resources":   filepath.Join(resourcesDir, cc.City),
	}
	for _, name := range cc.IndicatorNames {
		v[name] = formatNumber(cc.Indicators[name], 1)
		v[name+" p25"] = formatNumber(cc.Comparisons.P25[name], 1)
		v[name+" median"] = formatNumber(cc.Comparisons.P50[name], 1)
		v[name+" p75"] = formatNumber(cc.Comparisons.P75[name], 1)
	}
	for _, s := range cc.Thresholds.Scenarios {
		v[s.Name] = formatNumber(s.Threshold, 0)
	}
	for name, r := range cc.Policy.Ratings {
		v[name+" rating"] = formatNumber(r, 1)
		if g, ok := cc.Policy.Global[name]; ok {
			v[name+" median rating"] = formatNumber(g.P50, 1)
		}
	}
	for k, p := range cc.Phrases {
		v[k] = p
	}
	return v
}

func formatNumber(f float64, decimals int) string {
	if math.IsNaN(f) {
		return "-"
	}
	return fmt.Sprintf("%.*f", decimals, f)
}
