package entities

// EntityKind names which canonical table an entity reference points into.
type EntityKind string

// Entity kinds usable as connection endpoints.
const (
	KindLocation EntityKind = "location"
	KindActor    EntityKind = "actor"
	KindSource   EntityKind = "source"
	KindFactoid  EntityKind = "factoid"
)

// Connection is a directed typed edge between any two canonical entities.
// Connection types are usually namespaced ("spatial:near",
// "temporal:succeeds"). Generic connections carry no uniqueness constraint:
// re-ingesting the same edge data creates the edge again.
type Connection struct {
	ID         string     `json:"id,omitempty"`
	FromKind   EntityKind `json:"from_entity_type"`
	FromID     string     `json:"from_entity_id"`
	ToKind     EntityKind `json:"to_entity_type"`
	ToID       string     `json:"to_entity_id"`
	Type       string     `json:"connection_type"`
	Confidence float64    `json:"confidence"`
	Notes      string     `json:"notes,omitempty"`
}
