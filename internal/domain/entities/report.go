package entities

import "time"

// Counter names used in run reports. Stable across adapters so tooling can
// aggregate reports from different sources.
const (
	CounterLocationsCreated          = "locations_created"
	CounterLocationsSkipped          = "locations_skipped"
	CounterActorsCreated             = "actors_created"
	CounterActorsSkipped             = "actors_skipped"
	CounterSourcesCreated            = "sources_created"
	CounterSourcesSkipped            = "sources_skipped"
	CounterFactoidsCreated           = "factoids_created"
	CounterFactoidsSkipped           = "factoids_skipped"
	CounterPlacementsCreated         = "placements_created"
	CounterPlacementsSkipped         = "placements_skipped"
	CounterConnectionsCreated        = "connections_created"
	CounterConnectionsSkippedMissing = "connections_skipped_missing"
	CounterConnectionsSkippedError   = "connections_skipped_error"
	CounterErrors                    = "errors"
)

// RunReport is the only structured output of an ingestion run: a flat
// counter map plus the source name and completion time. Created/skipped are
// counted separately from errors so an operator can tell "everything already
// existed" apart from "the source data is broken".
type RunReport struct {
	Source      string         `json:"source"`
	CompletedAt time.Time      `json:"timestamp"`
	Counts      map[string]int `json:"counts"`
}

// NewRunReport creates an empty report for the named source.
func NewRunReport(source string) *RunReport {
	return &RunReport{
		Source: source,
		Counts: make(map[string]int),
	}
}

// Add increments the named counter by one.
func (r *RunReport) Add(counter string) {
	r.Counts[counter]++
}

// Get returns the value of the named counter (zero if never incremented).
func (r *RunReport) Get(counter string) int {
	return r.Counts[counter]
}

// Finish stamps the completion time and returns the report.
func (r *RunReport) Finish() *RunReport {
	r.CompletedAt = time.Now().UTC()
	return r
}
