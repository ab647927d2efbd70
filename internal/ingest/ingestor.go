// Package ingest contains the source adapters that feed external
// historical datasets through the resolver into the store.
package ingest

import (
	"context"

	"github.com/ersonp/historia/internal/domain/entities"
)

// Options controls a single ingestion run.
type Options struct {
	// Limit caps how many primary records the adapter processes; zero
	// means no limit. What counts as a record is adapter-specific
	// (places, eclipses, works, items per search).
	Limit int
}

// Ingestor is one source adapter. Ingest returns the run report even on
// failure so partial progress stays visible; per-record problems are
// counted and logged, only environmental failures (missing data files,
// unreachable store) abort the run.
type Ingestor interface {
	// SourceName returns the human-readable name of the dataset.
	SourceName() string

	// Ingest runs the adapter until the dataset is exhausted or the
	// limit is reached.
	Ingest(ctx context.Context, opts Options) (*entities.RunReport, error)
}

// reached reports whether processing hit the optional limit.
func reached(limit, count int) bool {
	return limit > 0 && count >= limit
}
