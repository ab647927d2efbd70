// Package entities contains the canonical knowledge-model data structures.
package entities

// LocationType is the geometric kind of a location.
type LocationType string

// Location geometry kinds.
const (
	LocationPoint  LocationType = "point"
	LocationArea   LocationType = "area"
	LocationLinear LocationType = "linear"
)

// HistoricalName is one attested name of a location, with the period it was
// valid for and where the attestation comes from.
type HistoricalName struct {
	Name            string   `json:"name"`
	Language        string   `json:"language,omitempty"`
	Romanized       string   `json:"romanized,omitempty"`
	PeriodStart     string   `json:"period_start,omitempty"` // store date literal
	PeriodEnd       string   `json:"period_end,omitempty"`
	AttestedPeriods []string `json:"attested_periods,omitempty"`
	Provenance      string   `json:"source,omitempty"`
}

// LocationChange is a time-boxed geometry variant of a location. A place can
// move, or scholars can disagree about where it was in a given period.
type LocationChange struct {
	Description     string   `json:"description"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	PeriodStart     string   `json:"period_start,omitempty"`
	PeriodEnd       string   `json:"period_end,omitempty"`
	Accuracy        string   `json:"accuracy,omitempty"`
	AttestedPeriods []string `json:"attested_periods,omitempty"`
}

// Location is a place in the canonical model. Coordinates are optional:
// "unlocated" is a valid state for places known only from texts.
// Optional scalar fields are pointers so the store boundary can distinguish
// "absent" from a zero value.
type Location struct {
	ID                  string           `json:"id,omitempty"`
	NameModern          string           `json:"name_modern,omitempty"`
	HistoricalNames     []HistoricalName `json:"name_historical,omitempty"`
	Type                LocationType     `json:"location_type"`
	Subtype             string           `json:"location_subtype,omitempty"`
	Longitude           *float64         `json:"coordinate_x,omitempty"`
	Latitude            *float64         `json:"coordinate_y,omitempty"`
	UncertaintyRadiusKM *float64         `json:"uncertainty_radius_km,omitempty"`
	UncertaintyNotes    string           `json:"uncertainty_notes,omitempty"`
	BoundaryGeoJSON     map[string]any   `json:"boundary_geojson,omitempty"`
	LocationChanges     []LocationChange `json:"location_changes,omitempty"`
	TerrainNotes        string           `json:"terrain_notes,omitempty"`
	Description         string           `json:"description,omitempty"`
	ExternalID          string           `json:"external_id,omitempty"`
}

// HasName reports whether the location carries any usable name. A location
// with neither a modern name nor a historical name is rejected at creation.
func (l *Location) HasName() bool {
	return l.NameModern != "" || len(l.HistoricalNames) > 0
}

// LocationRef pairs a canonical location id with its external identifier.
// Used when rebuilding the external-id cache by scanning the store.
type LocationRef struct {
	ID         string
	ExternalID string
}
