package mocks

import (
	"context"

	"github.com/ersonp/historia/internal/domain/ports"
)

// Catalog is a mock implementation of ports.CatalogSearcher returning
// canned results per query.
type Catalog struct {
	Results map[string][]ports.CatalogItem
	Err     error
}

// NewCatalog creates an empty mock catalog.
func NewCatalog() *Catalog {
	return &Catalog{Results: make(map[string][]ports.CatalogItem)}
}

// Search returns the canned items for the query, truncated to limit.
func (m *Catalog) Search(_ context.Context, query string, limit int) ([]ports.CatalogItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	items := m.Results[query]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
