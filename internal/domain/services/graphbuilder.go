package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/domain/ports"
	"github.com/ersonp/historia/internal/domain/taxonomy"
)

// cachePageSize is how many location refs RebuildCache fetches per page.
const cachePageSize = 1000

// PendingEdge is a deferred location-to-location edge recorded during node
// ingestion. The payload is the raw connection record from the source,
// kept generic because edges are resolved after all nodes exist and the
// source schema varies per connection type.
type PendingEdge struct {
	FromExternalID string
	Payload        map[string]any
}

// GraphBuilder resolves cross-references between locations in two phases:
// nodes first, edges second. During node ingestion it records every
// external-id-to-canonical-id mapping and queues raw edge payloads; once
// all nodes are committed, ResolveEdges materializes the queue into
// connections. An edge whose endpoint never appeared is skipped and
// counted, never failed.
type GraphBuilder struct {
	resolver *Resolver
	log      *slog.Logger

	cache   map[string]string
	pending []PendingEdge
}

// NewGraphBuilder creates a builder writing connections through the given
// resolver. The cache starts empty; populate it with RecordNode during
// ingestion or RebuildCache from committed data.
func NewGraphBuilder(resolver *Resolver, logger *slog.Logger) *GraphBuilder {
	return &GraphBuilder{
		resolver: resolver,
		log:      logger,
		cache:    make(map[string]string),
	}
}

// RecordNode maps a source-local external id to its canonical id.
func (b *GraphBuilder) RecordNode(externalID, canonicalID string) {
	if externalID == "" || canonicalID == "" {
		return
	}
	b.cache[externalID] = canonicalID
}

// EnqueueEdge defers a raw connection record until ResolveEdges runs.
func (b *GraphBuilder) EnqueueEdge(fromExternalID string, payload map[string]any) {
	b.pending = append(b.pending, PendingEdge{FromExternalID: fromExternalID, Payload: payload})
}

// PendingCount returns the number of queued edges.
func (b *GraphBuilder) PendingCount() int {
	return len(b.pending)
}

// CacheSize returns the number of known external-id mappings.
func (b *GraphBuilder) CacheSize() int {
	return len(b.cache)
}

// RebuildCache repopulates the external-id cache by paging through the
// store's committed locations. Used when the edge pass runs in a separate
// process from node ingestion.
func (b *GraphBuilder) RebuildCache(ctx context.Context, store ports.Store) error {
	b.cache = make(map[string]string)
	for offset := 0; ; offset += cachePageSize {
		refs, err := store.ListLocationRefs(ctx, offset, cachePageSize)
		if err != nil {
			return fmt.Errorf("listing location refs at offset %d: %w", offset, err)
		}
		for _, ref := range refs {
			b.cache[ref.ExternalID] = ref.ID
		}
		if len(refs) < cachePageSize {
			break
		}
	}
	b.log.Info("location cache rebuilt", "size", len(b.cache))
	return nil
}

// ResolveEdges drains the pending queue, creating a connection for every
// edge whose endpoints both resolve. Unresolvable edges increment the
// missing counter; store failures increment the error counter. Both let
// the pass continue, and the queue is empty afterwards either way.
func (b *GraphBuilder) ResolveEdges(ctx context.Context) error {
	report := b.resolver.Report()
	edges := b.pending
	b.pending = nil

	for _, edge := range edges {
		if err := ctx.Err(); err != nil {
			return err
		}

		fromID := b.cache[edge.FromExternalID]
		toID := b.cache[externalIDFromURI(payloadString(edge.Payload, "connectsTo"))]
		if fromID == "" || toID == "" {
			report.Add(entities.CounterConnectionsSkippedMissing)
			continue
		}

		certainty := payloadString(edge.Payload, "associationCertainty")
		conn := entities.Connection{
			FromKind:   entities.KindLocation,
			FromID:     fromID,
			ToKind:     entities.KindLocation,
			ToID:       toID,
			Type:       taxonomy.MapConnectionType(payloadString(edge.Payload, "connectionType")),
			Confidence: taxonomy.CertaintyConfidence(certainty),
			Notes:      connectionNotes(edge.Payload),
		}
		if _, err := b.resolver.CreateConnection(ctx, &conn); err != nil {
			b.log.Warn("creating connection", "from", edge.FromExternalID, "error", err)
			report.Add(entities.CounterConnectionsSkippedError)
		}
	}
	return nil
}

// connectionNotes flattens the descriptive parts of a raw edge payload
// into a single human-readable string.
func connectionNotes(payload map[string]any) string {
	var parts []string

	if title := payloadString(payload, "title"); title != "" {
		parts = append(parts, "Connected to: "+title)
	}

	start, hasStart := payloadYear(payload, "start")
	end, hasEnd := payloadYear(payload, "end")
	if hasStart || hasEnd {
		if !hasStart {
			start = "?"
		}
		if !hasEnd {
			end = "?"
		}
		parts = append(parts, fmt.Sprintf("Period: %s - %s", start, end))
	}

	if periods := attestedPeriods(payload); len(periods) > 0 {
		parts = append(parts, "Attested: "+strings.Join(periods, ", "))
	}

	if uri := payloadString(payload, "uri"); uri != "" {
		parts = append(parts, "Source: "+uri)
	}

	return strings.Join(parts, "; ")
}

// attestedPeriods collects time-period labels from a payload's attestation
// list. Entries can be plain strings or objects with a timePeriod member.
func attestedPeriods(payload map[string]any) []string {
	list, ok := payload["attestations"].([]any)
	if !ok {
		return nil
	}
	var periods []string
	for _, item := range list {
		switch v := item.(type) {
		case string:
			periods = append(periods, v)
		case map[string]any:
			if p, ok := v["timePeriod"].(string); ok && p != "" {
				periods = append(periods, p)
			}
		}
	}
	return periods
}

// externalIDFromURI extracts the canonical external id from a reference
// URI like "https://pleiades.stoa.org/places/579885", in the namespaced
// form the store carries ("pleiades:579885"). A bare numeric id passes
// through; anything else resolves to nothing.
func externalIDFromURI(uri string) string {
	uri = strings.TrimSuffix(uri, "/")
	if uri == "" {
		return ""
	}
	if i := strings.Index(uri, "/places/"); i >= 0 {
		rest := uri[i+len("/places/"):]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			rest = rest[:j]
		}
		return "pleiades:" + rest
	}
	if !strings.Contains(uri, "/") {
		return "pleiades:" + uri
	}
	return ""
}

// payloadString reads a string member of a generic payload.
func payloadString(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

// payloadYear reads a numeric year member, formatted without a fraction.
// Source decimals arrive normalized to float64.
func payloadYear(payload map[string]any, key string) (string, bool) {
	switch v := payload[key].(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case string:
		if v != "" {
			return v, true
		}
	}
	return "", false
}
