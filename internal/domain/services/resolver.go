// Package services contains the entity-resolution and graph-building logic
// sitting between source adapters and the store.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/domain/ports"
)

// ErrNotConnected is returned when a resolver operation runs before
// Connect established the store session.
var ErrNotConnected = errors.New("resolver: store not connected")

// Resolver owns the only write path into the store for canonical entities.
// Each Create operation decides whether the incoming record already exists
// (a normal skip, never an error) or inserts it, and increments the
// matching counter on the run report. A Resolver is scoped to one ingestion
// run and must not be shared across concurrent runs: its dedup checks are
// check-then-insert, safe only under a single sequential writer.
type Resolver struct {
	store  ports.Store
	log    *slog.Logger
	report *entities.RunReport

	connected bool
	frame     *entities.ReferenceFrame
}

// NewResolver creates a resolver writing counters into the given report.
func NewResolver(store ports.Store, logger *slog.Logger, report *entities.RunReport) *Resolver {
	return &Resolver{
		store:  store,
		log:    logger,
		report: report,
	}
}

// Connect establishes the store session for this run and caches the
// default reference frame. A store without a default frame is usable:
// placements will degrade to skip-and-log.
func (r *Resolver) Connect(ctx context.Context) error {
	frame, err := r.store.DefaultFrame(ctx)
	if err != nil {
		return fmt.Errorf("fetching default reference frame: %w", err)
	}
	r.frame = frame
	r.connected = true

	if frame == nil {
		r.log.Warn("no default reference frame found; placements will be skipped")
	} else {
		r.log.Info("using default reference frame", "frame_id", frame.ID)
	}
	return nil
}

// Report returns the run report the resolver accumulates into.
func (r *Resolver) Report() *entities.RunReport {
	return r.report
}

// ReportError counts a caller-reported per-item failure and logs it with
// the item's identifier. Processing is expected to continue.
func (r *Resolver) ReportError(msg string, err error, args ...any) {
	r.report.Add(entities.CounterErrors)
	r.log.Error(msg, append(args, "error", err)...)
}

// CreateLocation creates a location or returns the existing canonical id
// for its external identifier. A location with no name at all is skipped.
func (r *Resolver) CreateLocation(ctx context.Context, loc *entities.Location) (string, error) {
	if !r.connected {
		return "", ErrNotConnected
	}

	if !loc.HasName() {
		r.report.Add(entities.CounterLocationsSkipped)
		return "", nil
	}

	if loc.ExternalID != "" {
		id, err := r.store.FindLocationByExternalID(ctx, loc.ExternalID)
		if err != nil {
			return "", fmt.Errorf("checking location %q: %w", loc.ExternalID, err)
		}
		if id != "" {
			r.report.Add(entities.CounterLocationsSkipped)
			return id, nil
		}
	}

	id, err := r.store.InsertLocation(ctx, loc)
	if err != nil {
		return "", fmt.Errorf("inserting location: %w", err)
	}
	r.report.Add(entities.CounterLocationsCreated)
	return id, nil
}

// CreateActor creates an actor or returns the existing canonical id,
// matching first by external identifier in the alias list, then by exact
// primary name. Names shorter than two characters are skipped.
func (r *Resolver) CreateActor(ctx context.Context, actor *entities.Actor) (string, error) {
	if !r.connected {
		return "", ErrNotConnected
	}

	if len(actor.NamePrimary) < entities.MinActorNameLen {
		r.report.Add(entities.CounterActorsSkipped)
		return "", nil
	}

	if actor.ExternalID != "" {
		id, err := r.store.FindActorByAlias(ctx, actor.ExternalID)
		if err != nil {
			return "", fmt.Errorf("checking actor alias %q: %w", actor.ExternalID, err)
		}
		if id != "" {
			r.report.Add(entities.CounterActorsSkipped)
			return id, nil
		}

		// Keep the external id findable on re-ingest.
		if !containsString(actor.NameAliases, actor.ExternalID) {
			actor.NameAliases = append(actor.NameAliases, actor.ExternalID)
		}
	}

	id, err := r.store.FindActorByName(ctx, actor.NamePrimary)
	if err != nil {
		return "", fmt.Errorf("checking actor name %q: %w", actor.NamePrimary, err)
	}
	if id != "" {
		r.report.Add(entities.CounterActorsSkipped)
		return id, nil
	}

	id, err = r.store.InsertActor(ctx, actor)
	if err != nil {
		return "", fmt.Errorf("inserting actor: %w", err)
	}
	r.report.Add(entities.CounterActorsCreated)
	return id, nil
}

// CreateSource creates a source or returns the existing canonical id,
// matching first by digital URL, then by (title, author) where "no author"
// is its own bucket. Extraction status always starts pending.
func (r *Resolver) CreateSource(ctx context.Context, src *entities.Source) (string, error) {
	if !r.connected {
		return "", ErrNotConnected
	}

	if src.Title == "" {
		r.report.Add(entities.CounterSourcesSkipped)
		return "", nil
	}

	if src.DigitalURL != "" {
		id, err := r.store.FindSourceByURL(ctx, src.DigitalURL)
		if err != nil {
			return "", fmt.Errorf("checking source url %q: %w", src.DigitalURL, err)
		}
		if id != "" {
			r.report.Add(entities.CounterSourcesSkipped)
			return id, nil
		}
	}

	id, err := r.store.FindSourceByTitleAuthor(ctx, src.Title, src.AuthorID)
	if err != nil {
		return "", fmt.Errorf("checking source title %q: %w", src.Title, err)
	}
	if id != "" {
		r.report.Add(entities.CounterSourcesSkipped)
		return id, nil
	}

	src.ExtractionStatus = entities.ExtractionPending
	id, err = r.store.InsertSource(ctx, src)
	if err != nil {
		return "", fmt.Errorf("inserting source: %w", err)
	}
	r.report.Add(entities.CounterSourcesCreated)
	return id, nil
}

// CreateFactoid inserts a factoid. Factoids are append-only observations:
// every call that passes validation inserts, duplicate detection is out of
// scope at this layer. Descriptions shorter than ten characters are
// skipped.
func (r *Resolver) CreateFactoid(ctx context.Context, f *entities.Factoid) (string, error) {
	if !r.connected {
		return "", ErrNotConnected
	}

	if len(f.Description) < entities.MinFactoidDescriptionLen {
		r.report.Add(entities.CounterFactoidsSkipped)
		return "", nil
	}

	id, err := r.store.InsertFactoid(ctx, f)
	if err != nil {
		return "", fmt.Errorf("inserting factoid: %w", err)
	}
	r.report.Add(entities.CounterFactoidsCreated)
	return id, nil
}

// CreatePlacement inserts a placement, resolving the reference frame to
// the run's cached default when none is given. No default frame means the
// placement is skipped and logged, not failed. Repeated submissions for
// the same (factoid, frame, date range) are absorbed by the store.
func (r *Resolver) CreatePlacement(ctx context.Context, p *entities.Placement) (string, error) {
	if !r.connected {
		return "", ErrNotConnected
	}

	if p.FrameID == "" {
		if r.frame == nil {
			r.log.Warn("no frame and no default frame, skipping placement", "factoid_id", p.FactoidID)
			r.report.Add(entities.CounterPlacementsSkipped)
			return "", nil
		}
		p.FrameID = r.frame.ID
	}

	id, err := r.store.InsertPlacement(ctx, p)
	if err != nil {
		return "", fmt.Errorf("inserting placement: %w", err)
	}
	if id == "" {
		r.report.Add(entities.CounterPlacementsSkipped)
		return "", nil
	}
	r.report.Add(entities.CounterPlacementsCreated)
	return id, nil
}

// LinkFactoidSource links a factoid to its source, absorbing repeats on
// the (factoid, source) conflict key.
func (r *Resolver) LinkFactoidSource(ctx context.Context, link *entities.FactoidSource) error {
	if !r.connected {
		return ErrNotConnected
	}

	if link.Relationship == "" {
		link.Relationship = "primary_source"
	}
	if err := r.store.LinkFactoidSource(ctx, link); err != nil {
		return fmt.Errorf("linking factoid to source: %w", err)
	}
	return nil
}

// CreateConnection inserts a typed edge between two entities. Generic
// connections are constructive-only and carry no uniqueness constraint.
func (r *Resolver) CreateConnection(ctx context.Context, c *entities.Connection) (string, error) {
	if !r.connected {
		return "", ErrNotConnected
	}

	id, err := r.store.InsertConnection(ctx, c)
	if err != nil {
		return "", fmt.Errorf("inserting connection: %w", err)
	}
	r.report.Add(entities.CounterConnectionsCreated)
	return id, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
