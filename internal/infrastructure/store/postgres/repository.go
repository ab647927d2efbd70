// Package postgres provides a Postgres implementation of the Store interface.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// Repository implements ports.Store using Postgres. Date bounds are stored
// as DATE columns; Postgres accepts the "0584-05-28 BC" literal form
// directly, so era-aware dates never need client-side conversion.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Postgres repository.
func NewRepository(cfg config.DatabaseConfig) (*Repository, error) {
	if cfg.URL == "" {
		return nil, errors.New("database url is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the database schema if it doesn't exist and seeds
// the default reference frame.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Reference frames (dating schemes placements are expressed against)
	CREATE TABLE IF NOT EXISTS reference_frames (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	-- Locations (places, located or not)
	CREATE TABLE IF NOT EXISTS locations (
		id UUID PRIMARY KEY,
		name_modern TEXT,
		name_historical JSONB,
		location_type TEXT NOT NULL,
		location_subtype TEXT,
		coordinate_x DOUBLE PRECISION,
		coordinate_y DOUBLE PRECISION,
		uncertainty_radius_km DOUBLE PRECISION,
		uncertainty_notes TEXT,
		boundary_geojson JSONB,
		location_changes JSONB,
		terrain_notes TEXT,
		description TEXT,
		external_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_locations_external ON locations(external_id) WHERE external_id IS NOT NULL;

	-- Actors (persons, groups, institutions)
	CREATE TABLE IF NOT EXISTS actors (
		id UUID PRIMARY KEY,
		name_primary TEXT NOT NULL,
		name_aliases TEXT[] NOT NULL DEFAULT '{}',
		actor_type TEXT NOT NULL,
		actor_subtype TEXT,
		raw_temporal_evidence TEXT,
		description TEXT,
		known_biases TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_actors_name ON actors(name_primary);
	CREATE INDEX IF NOT EXISTS idx_actors_aliases ON actors USING GIN(name_aliases);

	-- Sources (texts and documents)
	CREATE TABLE IF NOT EXISTS sources (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		source_type TEXT NOT NULL,
		genre TEXT,
		author_id UUID REFERENCES actors(id),
		raw_dating_evidence TEXT,
		raw_period_covered TEXT,
		original_language TEXT,
		digital_url TEXT,
		extraction_status TEXT NOT NULL DEFAULT 'pending',
		external_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_sources_url ON sources(digital_url) WHERE digital_url IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_sources_title ON sources(title);

	-- Factoids (atomic frame-independent claims)
	CREATE TABLE IF NOT EXISTS factoids (
		id UUID PRIMARY KEY,
		description TEXT NOT NULL,
		summary TEXT,
		factoid_type TEXT NOT NULL,
		layer TEXT NOT NULL,
		raw_observation TEXT,
		raw_observation_type TEXT,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	-- Placements (temporal anchoring of factoids per frame)
	CREATE TABLE IF NOT EXISTS factoid_placements (
		id UUID PRIMARY KEY,
		factoid_id UUID NOT NULL REFERENCES factoids(id),
		frame_id UUID NOT NULL REFERENCES reference_frames(id),
		date_start DATE,
		date_end DATE,
		date_precision TEXT NOT NULL,
		placement_confidence DOUBLE PRECISION NOT NULL,
		reasoning TEXT,
		placement_type TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE NULLS NOT DISTINCT (factoid_id, frame_id, date_start, date_end)
	);

	-- Factoid-source attestation links
	CREATE TABLE IF NOT EXISTS factoid_sources (
		factoid_id UUID NOT NULL REFERENCES factoids(id),
		source_id UUID NOT NULL REFERENCES sources(id),
		relationship TEXT NOT NULL,
		relevant_excerpt TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (factoid_id, source_id)
	);

	-- Connections (typed edges between any two entities)
	CREATE TABLE IF NOT EXISTS connections (
		id UUID PRIMARY KEY,
		from_entity_type TEXT NOT NULL,
		from_entity_id UUID NOT NULL,
		to_entity_type TEXT NOT NULL,
		to_entity_id UUID NOT NULL,
		connection_type TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_connections_from ON connections(from_entity_id);
	CREATE INDEX IF NOT EXISTS idx_connections_to ON connections(to_entity_id);
	`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	seed := `
		INSERT INTO reference_frames (id, name, is_default)
		VALUES ($1, 'Common Era', TRUE)
		ON CONFLICT (name) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, seed, generateUUID()); err != nil {
		return fmt.Errorf("seeding default reference frame: %w", err)
	}
	return nil
}

// DefaultFrame returns the reference frame flagged as default, or nil if
// the store has none.
func (r *Repository) DefaultFrame(ctx context.Context) (*entities.ReferenceFrame, error) {
	query := `SELECT id, name FROM reference_frames WHERE is_default LIMIT 1`

	var frame entities.ReferenceFrame
	err := r.db.QueryRowContext(ctx, query).Scan(&frame.ID, &frame.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying default frame: %w", err)
	}
	frame.IsDefault = true
	return &frame, nil
}

// InsertLocation inserts a location row and returns its generated id.
func (r *Repository) InsertLocation(ctx context.Context, loc *entities.Location) (string, error) {
	names, err := jsonColumn(loc.HistoricalNames, len(loc.HistoricalNames) > 0)
	if err != nil {
		return "", fmt.Errorf("encoding historical names: %w", err)
	}
	boundary, err := jsonColumn(loc.BoundaryGeoJSON, len(loc.BoundaryGeoJSON) > 0)
	if err != nil {
		return "", fmt.Errorf("encoding boundary: %w", err)
	}
	changes, err := jsonColumn(loc.LocationChanges, len(loc.LocationChanges) > 0)
	if err != nil {
		return "", fmt.Errorf("encoding location changes: %w", err)
	}

	query := `
		INSERT INTO locations (
			id, name_modern, name_historical, location_type, location_subtype,
			coordinate_x, coordinate_y, uncertainty_radius_km, uncertainty_notes,
			boundary_geojson, location_changes, terrain_notes, description, external_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	id := generateUUID()
	_, err = r.db.ExecContext(ctx, query,
		id,
		nullString(loc.NameModern),
		names,
		string(loc.Type),
		nullString(loc.Subtype),
		nullFloat(loc.Longitude),
		nullFloat(loc.Latitude),
		nullFloat(loc.UncertaintyRadiusKM),
		nullString(loc.UncertaintyNotes),
		boundary,
		changes,
		nullString(loc.TerrainNotes),
		nullString(loc.Description),
		nullString(loc.ExternalID),
	)
	if err != nil {
		return "", fmt.Errorf("inserting location: %w", err)
	}
	return id, nil
}

// FindLocationByExternalID finds a location carrying the external id.
func (r *Repository) FindLocationByExternalID(ctx context.Context, externalID string) (string, error) {
	query := `SELECT id FROM locations WHERE external_id = $1 LIMIT 1`

	var id string
	err := r.db.QueryRowContext(ctx, query, externalID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying location by external id: %w", err)
	}
	return id, nil
}

// ListLocationRefs pages through locations that carry an external id, in a
// stable order.
func (r *Repository) ListLocationRefs(ctx context.Context, offset, limit int) ([]entities.LocationRef, error) {
	query := `
		SELECT id, external_id FROM locations
		WHERE external_id IS NOT NULL
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("querying location refs: %w", err)
	}
	defer rows.Close()

	var refs []entities.LocationRef
	for rows.Next() {
		var ref entities.LocationRef
		if err := rows.Scan(&ref.ID, &ref.ExternalID); err != nil {
			return nil, fmt.Errorf("scanning location ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating location refs: %w", err)
	}
	return refs, nil
}

// InsertActor inserts an actor row and returns its generated id.
func (r *Repository) InsertActor(ctx context.Context, actor *entities.Actor) (string, error) {
	query := `
		INSERT INTO actors (
			id, name_primary, name_aliases, actor_type, actor_subtype,
			raw_temporal_evidence, description, known_biases
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	id := generateUUID()
	aliases := actor.NameAliases
	if aliases == nil {
		aliases = []string{}
	}
	_, err := r.db.ExecContext(ctx, query,
		id,
		actor.NamePrimary,
		pq.Array(aliases),
		string(actor.Type),
		nullString(actor.Subtype),
		nullString(actor.RawTemporalEvidence),
		nullString(actor.Description),
		nullString(actor.KnownBiases),
	)
	if err != nil {
		return "", fmt.Errorf("inserting actor: %w", err)
	}
	return id, nil
}

// FindActorByAlias finds an actor whose alias list contains the value.
func (r *Repository) FindActorByAlias(ctx context.Context, alias string) (string, error) {
	query := `SELECT id FROM actors WHERE $1 = ANY(name_aliases) LIMIT 1`

	var id string
	err := r.db.QueryRowContext(ctx, query, alias).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying actor by alias: %w", err)
	}
	return id, nil
}

// FindActorByName finds an actor by exact primary name.
func (r *Repository) FindActorByName(ctx context.Context, name string) (string, error) {
	query := `SELECT id FROM actors WHERE name_primary = $1 LIMIT 1`

	var id string
	err := r.db.QueryRowContext(ctx, query, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying actor by name: %w", err)
	}
	return id, nil
}

// InsertSource inserts a source row and returns its generated id.
func (r *Repository) InsertSource(ctx context.Context, src *entities.Source) (string, error) {
	query := `
		INSERT INTO sources (
			id, title, source_type, genre, author_id, raw_dating_evidence,
			raw_period_covered, original_language, digital_url, extraction_status,
			external_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	id := generateUUID()
	_, err := r.db.ExecContext(ctx, query,
		id,
		src.Title,
		string(src.Type),
		nullString(src.Genre),
		nullString(src.AuthorID),
		nullString(src.RawDatingEvidence),
		nullString(src.RawPeriodCovered),
		nullString(src.OriginalLanguage),
		nullString(src.DigitalURL),
		string(src.ExtractionStatus),
		nullString(src.ExternalID),
	)
	if err != nil {
		return "", fmt.Errorf("inserting source: %w", err)
	}
	return id, nil
}

// FindSourceByURL finds a source by its digital URL.
func (r *Repository) FindSourceByURL(ctx context.Context, url string) (string, error) {
	query := `SELECT id FROM sources WHERE digital_url = $1 LIMIT 1`

	var id string
	err := r.db.QueryRowContext(ctx, query, url).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying source by url: %w", err)
	}
	return id, nil
}

// FindSourceByTitleAuthor finds a source by (title, author), where an
// empty authorID matches only authorless sources.
func (r *Repository) FindSourceByTitleAuthor(ctx context.Context, title, authorID string) (string, error) {
	query := `SELECT id FROM sources WHERE title = $1 AND author_id IS NOT DISTINCT FROM $2 LIMIT 1`

	var id string
	err := r.db.QueryRowContext(ctx, query, title, nullString(authorID)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying source by title: %w", err)
	}
	return id, nil
}

// InsertFactoid inserts a factoid row and returns its generated id.
func (r *Repository) InsertFactoid(ctx context.Context, f *entities.Factoid) (string, error) {
	query := `
		INSERT INTO factoids (
			id, description, summary, factoid_type, layer,
			raw_observation, raw_observation_type, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	id := generateUUID()
	_, err := r.db.ExecContext(ctx, query,
		id,
		f.Description,
		nullString(f.Summary),
		f.Type,
		string(f.Layer),
		nullString(f.RawObservation),
		nullString(f.RawObservationType),
		string(f.Status),
	)
	if err != nil {
		return "", fmt.Errorf("inserting factoid: %w", err)
	}
	return id, nil
}

// InsertPlacement inserts a placement, absorbing conflicts on
// (factoid, frame, date range). Returns "" when the row already existed.
func (r *Repository) InsertPlacement(ctx context.Context, p *entities.Placement) (string, error) {
	query := `
		INSERT INTO factoid_placements (
			id, factoid_id, frame_id, date_start, date_end,
			date_precision, placement_confidence, reasoning, placement_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (factoid_id, frame_id, date_start, date_end) DO NOTHING
		RETURNING id`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		generateUUID(),
		p.FactoidID,
		p.FrameID,
		nullString(p.DateStart),
		nullString(p.DateEnd),
		string(p.Precision),
		p.Confidence,
		nullString(p.Reasoning),
		string(p.Type),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("inserting placement: %w", err)
	}
	return id, nil
}

// LinkFactoidSource links a factoid to a source, absorbing repeats on the
// (factoid, source) key.
func (r *Repository) LinkFactoidSource(ctx context.Context, link *entities.FactoidSource) error {
	query := `
		INSERT INTO factoid_sources (factoid_id, source_id, relationship, relevant_excerpt)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (factoid_id, source_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		link.FactoidID,
		link.SourceID,
		link.Relationship,
		nullString(link.RelevantExcerpt),
	)
	if err != nil {
		return fmt.Errorf("linking factoid to source: %w", err)
	}
	return nil
}

// InsertConnection inserts a connection row and returns its generated id.
func (r *Repository) InsertConnection(ctx context.Context, c *entities.Connection) (string, error) {
	query := `
		INSERT INTO connections (
			id, from_entity_type, from_entity_id, to_entity_type, to_entity_id,
			connection_type, confidence, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	id := generateUUID()
	_, err := r.db.ExecContext(ctx, query,
		id,
		string(c.FromKind),
		c.FromID,
		string(c.ToKind),
		c.ToID,
		c.Type,
		c.Confidence,
		nullString(c.Notes),
	)
	if err != nil {
		return "", fmt.Errorf("inserting connection: %w", err)
	}
	return id, nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullFloat maps a nil pointer to SQL NULL.
func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// jsonColumn encodes a value for a JSONB column, or NULL when absent.
func jsonColumn(v any, present bool) (any, error) {
	if !present {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}
