package domain

// Policy analysis names with ratings in the study.
const (
	PolicyPresence  = "Presence"
	PolicyChecklist = "Checklist"
)

// PolicyAnalysis is one loaded policy analysis table.
type PolicyAnalysis struct {
	Name string
	// Rating marks analyses whose items are averaged into a per-city rating.
	Rating bool
	// GroupColumn, when set, names a non-item column used to group ratings
	// (e.g. GDP group); its value is kept in Groups, not in Items.
	GroupColumn string
	Items       Table
	Groups      map[string]string // city -> group
}

// PolicyData holds every loaded analysis in declaration order.
type PolicyData struct {
	Analyses []PolicyAnalysis
}

// GroupSummary summarizes a rating across the cities of one group.
type GroupSummary struct {
	Group   string  `json:"group"`
	Summary Summary `json:"summary"`
}

// CityPolicy is a city's view of the policy analyses. Global and GDP
// summaries are shared values computed once per run.
type CityPolicy struct {
	Analyses    []string                      `json:"analyses"`
	Rows        map[string]map[string]float64 `json:"rows"`
	Ratings     map[string]float64            `json:"ratings"`
	Global      map[string]Summary            `json:"global"`
	PresenceGDP []GroupSummary                `json:"presence_gdp,omitempty"`
}
