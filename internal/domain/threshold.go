package domain

// Threshold metric scales.
const (
	ScaleLog    = "log"
	ScaleLinear = "linear"
)

// ThresholdMetric is a named comparison axis with the global range of its
// underlying field.
type ThresholdMetric struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Field string `json:"field"`
	Scale string `json:"scale"`
	Range [2]int `json:"range"`
}

// ThresholdRow is a row of the thresholds data.
type ThresholdRow struct {
	Scenario  string
	Metric    string
	Threshold float64
}

// ThresholdScenario locates a named threshold on its metric's range.
// Position is the fraction of the range, on the metric's scale, at which the
// threshold falls, clamped to [0, 1].
type ThresholdScenario struct {
	Name      string  `json:"name"`
	Metric    string  `json:"metric"`
	Threshold float64 `json:"threshold"`
	Position  float64 `json:"position"`
}

// ThresholdScenarios is the run-wide, read-only set of threshold metrics and
// scenarios.
type ThresholdScenarios struct {
	Metrics   []ThresholdMetric   `json:"metrics"`
	Scenarios []ThresholdScenario `json:"scenarios"`
}

// Metric returns the metric with key.
func (s ThresholdScenarios) Metric(key string) (ThresholdMetric, bool) {
	for _, m := range s.Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return ThresholdMetric{}, false
}

// ForCity returns the scenarios specialized for one city. The receiver is not
// modified, so each city sees only its own walkability value.
func (s ThresholdScenarios) ForCity(walkability float64) CityThresholds {
	return CityThresholds{
		ThresholdScenarios: s,
		Walkability:        walkability,
	}
}

// CityThresholds is the per-city view of the threshold scenarios.
type CityThresholds struct {
	ThresholdScenarios
	Walkability float64 `json:"walkability"`
}

// WalkabilityColumn is the walkability table column holding the share of a
// city's population above the between-city median walkability.
const WalkabilityColumn = "pct_walkability_above_median"
