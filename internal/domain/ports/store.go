// Package ports defines the interfaces the domain layer depends on.
package ports

import (
	"context"

	"github.com/ersonp/historia/internal/domain/entities"
)

// Store is the row-oriented boundary to the canonical entity tables.
// Insert operations omit absent fields (nil pointers, empty strings) and
// return the generated id; Find operations return an empty id, not an
// error, when nothing matches. Placement and factoid-source inserts are
// idempotent on their declared conflict keys.
type Store interface {
	// EnsureSchema creates the entity tables if they don't exist.
	EnsureSchema(ctx context.Context) error

	// Close releases the store connection.
	Close() error

	// DefaultFrame returns the reference frame flagged as default, or nil
	// if the store has none.
	DefaultFrame(ctx context.Context) (*entities.ReferenceFrame, error)

	// Location operations

	// InsertLocation inserts a location row and returns its generated id.
	InsertLocation(ctx context.Context, loc *entities.Location) (string, error)

	// FindLocationByExternalID finds a location carrying the given
	// external identifier.
	FindLocationByExternalID(ctx context.Context, externalID string) (string, error)

	// ListLocationRefs pages through locations that carry an external id,
	// for rebuilding the resolution cache from committed data.
	ListLocationRefs(ctx context.Context, offset, limit int) ([]entities.LocationRef, error)

	// Actor operations

	// InsertActor inserts an actor row and returns its generated id.
	InsertActor(ctx context.Context, actor *entities.Actor) (string, error)

	// FindActorByAlias finds an actor whose alias list contains the value.
	FindActorByAlias(ctx context.Context, alias string) (string, error)

	// FindActorByName finds an actor by exact primary name.
	FindActorByName(ctx context.Context, name string) (string, error)

	// Source operations

	// InsertSource inserts a source row and returns its generated id.
	InsertSource(ctx context.Context, src *entities.Source) (string, error)

	// FindSourceByURL finds a source by its digital URL.
	FindSourceByURL(ctx context.Context, url string) (string, error)

	// FindSourceByTitleAuthor finds a source by (title, author) where an
	// empty authorID matches only sources without an author.
	FindSourceByTitleAuthor(ctx context.Context, title, authorID string) (string, error)

	// Factoid operations

	// InsertFactoid inserts a factoid row and returns its generated id.
	InsertFactoid(ctx context.Context, f *entities.Factoid) (string, error)

	// InsertPlacement inserts a placement, ignoring conflicts on
	// (factoid, frame, date range). Returns "" when the insert was absorbed
	// by an existing row.
	InsertPlacement(ctx context.Context, p *entities.Placement) (string, error)

	// LinkFactoidSource links a factoid to a source, ignoring conflicts on
	// (factoid, source).
	LinkFactoidSource(ctx context.Context, link *entities.FactoidSource) error

	// Connection operations

	// InsertConnection inserts a connection row and returns its generated
	// id. Connections carry no uniqueness constraint.
	InsertConnection(ctx context.Context, c *entities.Connection) (string, error)
}
