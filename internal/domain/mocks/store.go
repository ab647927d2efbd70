// Package mocks provides in-memory implementations of the domain ports for
// tests.
package mocks

import (
	"context"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/google/uuid"
)

// placementKey is the conflict key for idempotent placement inserts.
type placementKey struct {
	factoidID string
	frameID   string
	dateStart string
	dateEnd   string
}

// linkKey is the conflict key for factoid-source links.
type linkKey struct {
	factoidID string
	sourceID  string
}

// Store is a mock implementation of ports.Store backed by in-memory maps.
// Setting Err makes every operation fail with it.
type Store struct {
	Frame *entities.ReferenceFrame
	Err   error

	Locations   map[string]*entities.Location
	Actors      map[string]*entities.Actor
	Sources     map[string]*entities.Source
	Factoids    map[string]*entities.Factoid
	Placements  map[string]*entities.Placement
	Links       map[linkKey]*entities.FactoidSource
	Connections []*entities.Connection

	locationOrder []string // insertion order, for deterministic paging

	placements map[placementKey]string
}

// NewStore creates an empty mock store with a default reference frame.
func NewStore() *Store {
	return &Store{
		Frame:      &entities.ReferenceFrame{ID: "frame-default", Name: "Common Era", IsDefault: true},
		Locations:  make(map[string]*entities.Location),
		Actors:     make(map[string]*entities.Actor),
		Sources:    make(map[string]*entities.Source),
		Factoids:   make(map[string]*entities.Factoid),
		Placements: make(map[string]*entities.Placement),
		Links:      make(map[linkKey]*entities.FactoidSource),
		placements: make(map[placementKey]string),
	}
}

// EnsureSchema creates the entity tables if they don't exist.
func (m *Store) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close releases the store connection.
func (m *Store) Close() error {
	return nil
}

// DefaultFrame returns the configured default frame, or nil if unset.
func (m *Store) DefaultFrame(_ context.Context) (*entities.ReferenceFrame, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Frame, nil
}

// InsertLocation inserts a location row and returns its generated id.
func (m *Store) InsertLocation(_ context.Context, loc *entities.Location) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	stored := *loc
	stored.ID = uuid.New().String()
	m.Locations[stored.ID] = &stored
	m.locationOrder = append(m.locationOrder, stored.ID)
	return stored.ID, nil
}

// FindLocationByExternalID finds a location carrying the external id.
func (m *Store) FindLocationByExternalID(_ context.Context, externalID string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	for _, id := range m.locationOrder {
		if m.Locations[id].ExternalID == externalID {
			return id, nil
		}
	}
	return "", nil
}

// ListLocationRefs pages through locations carrying an external id.
func (m *Store) ListLocationRefs(_ context.Context, offset, limit int) ([]entities.LocationRef, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var refs []entities.LocationRef
	for _, id := range m.locationOrder {
		if m.Locations[id].ExternalID != "" {
			refs = append(refs, entities.LocationRef{ID: id, ExternalID: m.Locations[id].ExternalID})
		}
	}
	if offset >= len(refs) {
		return nil, nil
	}
	refs = refs[offset:]
	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// InsertActor inserts an actor row and returns its generated id.
func (m *Store) InsertActor(_ context.Context, actor *entities.Actor) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	stored := *actor
	stored.ID = uuid.New().String()
	m.Actors[stored.ID] = &stored
	return stored.ID, nil
}

// FindActorByAlias finds an actor whose alias list contains the value.
func (m *Store) FindActorByAlias(_ context.Context, alias string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	for id, a := range m.Actors {
		for _, al := range a.NameAliases {
			if al == alias {
				return id, nil
			}
		}
	}
	return "", nil
}

// FindActorByName finds an actor by exact primary name.
func (m *Store) FindActorByName(_ context.Context, name string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	for id, a := range m.Actors {
		if a.NamePrimary == name {
			return id, nil
		}
	}
	return "", nil
}

// InsertSource inserts a source row and returns its generated id.
func (m *Store) InsertSource(_ context.Context, src *entities.Source) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	stored := *src
	stored.ID = uuid.New().String()
	m.Sources[stored.ID] = &stored
	return stored.ID, nil
}

// FindSourceByURL finds a source by its digital URL.
func (m *Store) FindSourceByURL(_ context.Context, url string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	for id, s := range m.Sources {
		if s.DigitalURL == url {
			return id, nil
		}
	}
	return "", nil
}

// FindSourceByTitleAuthor finds a source by (title, author), where an empty
// authorID matches only authorless sources.
func (m *Store) FindSourceByTitleAuthor(_ context.Context, title, authorID string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	for id, s := range m.Sources {
		if s.Title == title && s.AuthorID == authorID {
			return id, nil
		}
	}
	return "", nil
}

// InsertFactoid inserts a factoid row and returns its generated id.
func (m *Store) InsertFactoid(_ context.Context, f *entities.Factoid) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	stored := *f
	stored.ID = uuid.New().String()
	m.Factoids[stored.ID] = &stored
	return stored.ID, nil
}

// InsertPlacement inserts a placement, absorbing conflicts on
// (factoid, frame, date range).
func (m *Store) InsertPlacement(_ context.Context, p *entities.Placement) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	key := placementKey{p.FactoidID, p.FrameID, p.DateStart, p.DateEnd}
	if _, exists := m.placements[key]; exists {
		return "", nil
	}
	stored := *p
	stored.ID = uuid.New().String()
	m.Placements[stored.ID] = &stored
	m.placements[key] = stored.ID
	return stored.ID, nil
}

// LinkFactoidSource links a factoid to a source, absorbing repeats.
func (m *Store) LinkFactoidSource(_ context.Context, link *entities.FactoidSource) error {
	if m.Err != nil {
		return m.Err
	}
	key := linkKey{link.FactoidID, link.SourceID}
	if _, exists := m.Links[key]; !exists {
		stored := *link
		m.Links[key] = &stored
	}
	return nil
}

// InsertConnection inserts a connection row; no uniqueness constraint.
func (m *Store) InsertConnection(_ context.Context, c *entities.Connection) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	stored := *c
	stored.ID = uuid.New().String()
	m.Connections = append(m.Connections, &stored)
	return stored.ID, nil
}
