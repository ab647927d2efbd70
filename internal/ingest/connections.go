package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/domain/ports"
	"github.com/ersonp/historia/internal/domain/services"
	"github.com/ersonp/historia/internal/infrastructure/loader"
)

// connectionsSource is the run-report name of the edge pass.
const connectionsSource = "Pleiades Connections"

// Connections is the second phase of gazetteer ingestion: it rebuilds the
// external-id cache from committed locations, re-reads the places dump
// for its connection records, and materializes them as typed edges. Run
// it after Gazetteer; places missing from the store make their edges
// skipped, never failed.
type Connections struct {
	store   ports.Store
	log     *slog.Logger
	dataDir string
}

// NewConnections creates the edge-pass adapter reading from dataDir.
func NewConnections(store ports.Store, logger *slog.Logger, dataDir string) *Connections {
	return &Connections{store: store, log: logger, dataDir: dataDir}
}

// SourceName returns the human-readable name of the dataset.
func (c *Connections) SourceName() string { return connectionsSource }

// Ingest runs the edge pass. The limit caps enqueued edges.
func (c *Connections) Ingest(ctx context.Context, opts Options) (*entities.RunReport, error) {
	report := entities.NewRunReport(connectionsSource)
	resolver := services.NewResolver(c.store, c.log, report)
	if err := resolver.Connect(ctx); err != nil {
		return report.Finish(), err
	}

	builder := services.NewGraphBuilder(resolver, c.log)
	if err := builder.RebuildCache(ctx, c.store); err != nil {
		return report.Finish(), err
	}
	if builder.CacheSize() == 0 {
		c.log.Error("no gazetteer locations in store; run the places ingestion first")
		return report.Finish(), nil
	}

	path, err := loader.FindFile(c.dataDir, "pleiades*.json.gz", "pleiades*.json")
	if err != nil {
		return report.Finish(), fmt.Errorf("locating places dump: %w", err)
	}

	f, err := loader.Open(path)
	if err != nil {
		return report.Finish(), err
	}
	defer f.Close()

	err = loader.StreamArray(f, func(raw json.RawMessage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if reached(opts.Limit, builder.PendingCount()) {
			return errLimitReached
		}

		place, err := loader.DecodeGeneric(raw)
		if err != nil {
			resolver.ReportError("decoding place", err)
			return nil
		}
		c.enqueuePlaceEdges(builder, place, opts.Limit)
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return report.Finish(), fmt.Errorf("streaming places: %w", err)
	}

	c.log.Info("resolving edges", "pending", builder.PendingCount())
	if err := builder.ResolveEdges(ctx); err != nil {
		return report.Finish(), err
	}
	return report.Finish(), nil
}

// enqueuePlaceEdges queues a place's connection records. Payloads stay
// generic: the edge schema varies per connection type and the builder
// only reads the members it understands.
func (c *Connections) enqueuePlaceEdges(builder *services.GraphBuilder, place map[string]any, limit int) {
	id, _ := place["id"].(string)
	if id == "" {
		return
	}
	conns, _ := place["connections"].([]any)
	for _, raw := range conns {
		if reached(limit, builder.PendingCount()) {
			return
		}
		if payload, ok := raw.(map[string]any); ok {
			builder.EnqueueEdge("pleiades:"+id, payload)
		}
	}
}
