package ingest

import (
	"context"
	"log/slog"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/domain/ports"
	"github.com/ersonp/historia/internal/domain/services"
)

// booksSource is the run-report name of the digitized-book catalog.
const booksSource = "Internet Archive"

// CatalogSearch is one curated catalog query with its classification.
type CatalogSearch struct {
	Query      string
	Name       string
	Limit      int
	Genre      string
	SourceType entities.SourceType
}

// curatedSearches are small targeted queries for specific classical texts
// and reference works, a few hundred items total. Bulk catalog ingestion
// is deliberately out of scope.
var curatedSearches = []CatalogSearch{
	{
		Query: "creator:(Herodotus) AND mediatype:texts AND language:eng",
		Name:  "Herodotus translations",
		Limit: 10,
		Genre: "historiography",
	},
	{
		Query: "creator:(Thucydides) AND mediatype:texts AND language:eng",
		Name:  "Thucydides translations",
		Limit: 10,
		Genre: "historiography",
	},
	{
		Query: "creator:(Plutarch) AND mediatype:texts AND language:eng",
		Name:  "Plutarch translations",
		Limit: 15,
		Genre: "biography",
	},
	{
		Query: "creator:(Tacitus) AND mediatype:texts AND language:eng",
		Name:  "Tacitus translations",
		Limit: 10,
		Genre: "historiography",
	},
	{
		Query: "creator:(Livy) AND mediatype:texts AND language:eng",
		Name:  "Livy translations",
		Limit: 10,
		Genre: "historiography",
	},
	{
		Query: "creator:(Polybius) AND mediatype:texts AND language:eng",
		Name:  "Polybius translations",
		Limit: 8,
		Genre: "historiography",
	},
	{
		Query: "creator:(Josephus) AND mediatype:texts AND language:eng",
		Name:  "Josephus translations",
		Limit: 10,
		Genre: "historiography",
	},
	{
		Query: "creator:(Diodorus) AND mediatype:texts AND language:eng",
		Name:  "Diodorus Siculus translations",
		Limit: 8,
		Genre: "historiography",
	},
	{
		Query: "creator:(Pausanias) AND mediatype:texts AND language:eng",
		Name:  "Pausanias translations",
		Limit: 5,
		Genre: "geography",
	},
	{
		Query: "creator:(Strabo) AND mediatype:texts AND language:eng",
		Name:  "Strabo translations",
		Limit: 5,
		Genre: "geography",
	},
	{
		Query:      `title:("Cambridge Ancient History") AND mediatype:texts`,
		Name:       "Cambridge Ancient History",
		Limit:      20,
		Genre:      "historiography",
		SourceType: entities.SourceSecondary,
	},
	{
		Query:      `title:("Oxford Classical") AND mediatype:texts`,
		Name:       "Oxford Classical texts",
		Limit:      10,
		Genre:      "reference",
		SourceType: entities.SourceSecondary,
	},
}

// Books ingests digitized-book catalog metadata as source records.
// Catalog-only: the books themselves are created pending extraction.
type Books struct {
	store    ports.Store
	catalog  ports.CatalogSearcher
	log      *slog.Logger
	searches []CatalogSearch
}

// NewBooks creates the book-catalog adapter using the curated searches.
func NewBooks(store ports.Store, catalog ports.CatalogSearcher, logger *slog.Logger) *Books {
	return &Books{store: store, catalog: catalog, log: logger, searches: curatedSearches}
}

// SourceName returns the human-readable name of the dataset.
func (b *Books) SourceName() string { return booksSource }

// Ingest runs every curated search and creates one source per item. A
// failed search is counted and the remaining searches still run. The
// limit overrides each search's own per-search cap.
func (b *Books) Ingest(ctx context.Context, opts Options) (*entities.RunReport, error) {
	report := entities.NewRunReport(booksSource)
	resolver := services.NewResolver(b.store, b.log, report)
	if err := resolver.Connect(ctx); err != nil {
		return report.Finish(), err
	}

	b.log.Info("running curated searches", "count", len(b.searches))
	for _, search := range b.searches {
		if err := ctx.Err(); err != nil {
			return report.Finish(), err
		}

		limit := search.Limit
		if opts.Limit > 0 {
			limit = opts.Limit
		}
		b.log.Info("searching catalog", "name", search.Name, "limit", limit)

		items, err := b.catalog.Search(ctx, search.Query, limit)
		if err != nil {
			resolver.ReportError("catalog search failed", err, "search", search.Name)
			continue
		}

		for _, item := range items {
			if err := b.processItem(ctx, resolver, item, search); err != nil {
				resolver.ReportError("processing catalog item", err, "identifier", item.Identifier)
			}
		}
	}

	return report.Finish(), nil
}

func (b *Books) processItem(ctx context.Context, resolver *services.Resolver, item ports.CatalogItem, search CatalogSearch) error {
	if item.Identifier == "" {
		resolver.Report().Add(entities.CounterSourcesSkipped)
		return nil
	}

	title := item.Title
	if title == "" {
		title = item.Identifier
	}
	sourceType := search.SourceType
	if sourceType == "" {
		sourceType = entities.SourcePrimary
	}
	rawDating := ""
	if item.Date != "" {
		rawDating = "Published: " + item.Date
	}

	src := entities.Source{
		Title:             title,
		Type:              sourceType,
		Genre:             search.Genre,
		RawDatingEvidence: rawDating,
		OriginalLanguage:  item.Language,
		DigitalURL:        "https://archive.org/details/" + item.Identifier,
		ExternalID:        "ia:" + item.Identifier,
	}
	_, err := resolver.CreateSource(ctx, &src)
	return err
}
