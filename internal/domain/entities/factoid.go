package entities

// Layer is the epistemological layer of a factoid: how the claim is known,
// orthogonal to how confidently it can be dated.
type Layer string

// Epistemological layers.
const (
	LayerDocumented  Layer = "documented"
	LayerAttested    Layer = "attested"
	LayerTraditional Layer = "traditional"
	LayerInferred    Layer = "inferred"
)

// FactoidStatus is the review state of a factoid.
type FactoidStatus string

// Factoid statuses.
const (
	FactoidSourced  FactoidStatus = "sourced"
	FactoidVerified FactoidStatus = "verified"
)

// MinFactoidDescriptionLen is the minimum length of a factoid description.
const MinFactoidDescriptionLen = 10

// Factoid is an atomic, frame-independent claim about the past. It carries
// no date itself; temporal anchoring lives in Placement.
type Factoid struct {
	ID                 string        `json:"id,omitempty"`
	Description        string        `json:"description"`
	Summary            string        `json:"summary,omitempty"`
	Type               string        `json:"factoid_type"`
	Layer              Layer         `json:"layer"`
	RawObservation     string        `json:"raw_observation,omitempty"`
	RawObservationType string        `json:"raw_observation_type,omitempty"`
	Status             FactoidStatus `json:"status"`
}

// FactoidSource links a factoid to the source that attests it. The pair
// (FactoidID, SourceID) is the conflict key at the store boundary, so
// repeated links are absorbed rather than duplicated.
type FactoidSource struct {
	FactoidID       string `json:"factoid_id"`
	SourceID        string `json:"source_id"`
	Relationship    string `json:"relationship"`
	RelevantExcerpt string `json:"relevant_excerpt,omitempty"`
}
