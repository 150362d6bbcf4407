package domain

import "time"

// CityState tracks a city through a run.
type CityState string

const (
	StatePending      CityState = "pending"
	StateContextBuilt CityState = "context-built"
	StateRendering    CityState = "rendering"
	StateSucceeded    CityState = "succeeded"
	StateFailed       CityState = "failed"
)

// CityOutcome records the result of processing one city in one language.
type CityOutcome struct {
	RunID      string    `json:"run_id"`
	Language   string    `json:"language"`
	City       string    `json:"city"`
	State      CityState `json:"state"`
	Error      string    `json:"error,omitempty"`
	Artifacts  []string  `json:"artifacts,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Succeeded reports whether the city was fully processed.
func (o CityOutcome) Succeeded() bool {
	return o.State == StateSucceeded
}

// LanguageSummary counts outcomes for one language group.
type LanguageSummary struct {
	Language  string `json:"language"`
	Succeeded int    `json:"succeeded"`
	Total     int    `json:"total"`
}

// RunReport aggregates the outcomes of a run.
type RunReport struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Languages  []LanguageSummary `json:"languages"`
	Outcomes   []CityOutcome     `json:"outcomes"`
}

// Failed returns the outcomes that did not succeed.
func (r RunReport) Failed() []CityOutcome {
	var out []CityOutcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			out = append(out, o)
		}
	}
	return out
}

// RunStatus is a point-in-time view of a run in progress.
type RunStatus struct {
	RunID     string `json:"run_id"`
	Running   bool   `json:"running"`
	Language  string `json:"language,omitempty"`
	City      string `json:"city,omitempty"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
}
