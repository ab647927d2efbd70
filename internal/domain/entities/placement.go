package entities

// PlacementType distinguishes system-computed placements from ones a human
// asserted.
type PlacementType string

// Placement types.
const (
	PlacementSystem PlacementType = "system"
	PlacementHuman  PlacementType = "human"
)

// DatePrecision tags how precise a placement's date range is.
type DatePrecision string

// Date precisions.
const (
	PrecisionExact   DatePrecision = "exact"
	PrecisionYear    DatePrecision = "year"
	PrecisionDecade  DatePrecision = "decade"
	PrecisionCentury DatePrecision = "century"
)

// Placement anchors a factoid in a reference frame with a date range. A
// factoid may have zero, one or many placements: one per frame, or several
// competing placements within a frame. Date bounds are store date literals
// and may be open on either side.
type Placement struct {
	ID         string        `json:"id,omitempty"`
	FactoidID  string        `json:"factoid_id"`
	FrameID    string        `json:"frame_id"`
	DateStart  string        `json:"date_start,omitempty"`
	DateEnd    string        `json:"date_end,omitempty"`
	Precision  DatePrecision `json:"date_precision"`
	Confidence float64       `json:"placement_confidence"`
	Reasoning  string        `json:"reasoning,omitempty"`
	Type       PlacementType `json:"placement_type"`
}

// ReferenceFrame is a named dating scheme against which placements are
// expressed. Exactly one frame per store is flagged as default.
type ReferenceFrame struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}
