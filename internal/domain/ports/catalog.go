package ports

import "context"

// CatalogItem is one record from a digitized-book catalog search.
type CatalogItem struct {
	Identifier string
	Title      string
	Creator    string
	Date       string
	Language   string
}

// CatalogSearcher searches an external digitized-book catalog. The client
// is injected at construction; an unconfigured client fails when built,
// not on first use.
type CatalogSearcher interface {
	// Search runs a catalog query and returns at most limit items.
	Search(ctx context.Context, query string, limit int) ([]CatalogItem, error)
}
