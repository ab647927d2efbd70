package entities

// ActorType is the broad category of an actor.
type ActorType string

// Actor categories.
const (
	ActorPerson      ActorType = "person"
	ActorGroup       ActorType = "group"
	ActorInstitution ActorType = "institution"
)

// MinActorNameLen is the minimum length of an actor's primary name.
const MinActorNameLen = 2

// Actor is a person, group or institution in the canonical model.
// RawTemporalEvidence carries unparsed date strings ("c. 484 - c. 425 BCE")
// exactly as the source gives them; parsing them is a later concern.
type Actor struct {
	ID                  string    `json:"id,omitempty"`
	NamePrimary         string    `json:"name_primary"`
	NameAliases         []string  `json:"name_aliases,omitempty"`
	Type                ActorType `json:"actor_type"`
	Subtype             string    `json:"actor_subtype,omitempty"`
	RawTemporalEvidence string    `json:"raw_temporal_evidence,omitempty"`
	Description         string    `json:"description,omitempty"`
	KnownBiases         string    `json:"known_biases,omitempty"`
	ExternalID          string    `json:"external_id,omitempty"`
}
