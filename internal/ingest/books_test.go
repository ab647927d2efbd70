package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/domain/mocks"
	"github.com/ersonp/historia/internal/domain/ports"
)

func TestBooks_Ingest(t *testing.T) {
	store := mocks.NewStore()
	catalog := mocks.NewCatalog()
	catalog.Results["creator:(Herodotus) AND mediatype:texts AND language:eng"] = []ports.CatalogItem{
		{
			Identifier: "historiesofherodo01hero",
			Title:      "The histories of Herodotus",
			Creator:    "Herodotus",
			Date:       "1890",
			Language:   "eng",
		},
		{Identifier: "herodotus02", Title: ""},
	}
	catalog.Results[`title:("Cambridge Ancient History") AND mediatype:texts`] = []ports.CatalogItem{
		{Identifier: "cambridgeancient04bury", Title: "The Cambridge Ancient History, Volume IV"},
	}
	ctx := context.Background()

	report, err := NewBooks(store, catalog, testLogger()).Ingest(ctx, Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Get(entities.CounterSourcesCreated))
	assert.Zero(t, report.Get(entities.CounterErrors))

	herodotusID, err := store.FindSourceByURL(ctx, "https://archive.org/details/historiesofherodo01hero")
	require.NoError(t, err)
	require.NotEmpty(t, herodotusID)
	herodotus := store.Sources[herodotusID]
	assert.Equal(t, entities.SourcePrimary, herodotus.Type)
	assert.Equal(t, "historiography", herodotus.Genre)
	assert.Equal(t, "Published: 1890", herodotus.RawDatingEvidence)
	assert.Equal(t, "eng", herodotus.OriginalLanguage)
	assert.Equal(t, "ia:historiesofherodo01hero", herodotus.ExternalID)
	assert.Equal(t, entities.ExtractionPending, herodotus.ExtractionStatus)

	// A title-less item still catalogs under its identifier.
	untitledID, err := store.FindSourceByURL(ctx, "https://archive.org/details/herodotus02")
	require.NoError(t, err)
	assert.Equal(t, "herodotus02", store.Sources[untitledID].Title)

	// Reference-series searches carry their own source type.
	cambridgeID, err := store.FindSourceByURL(ctx, "https://archive.org/details/cambridgeancient04bury")
	require.NoError(t, err)
	assert.Equal(t, entities.SourceSecondary, store.Sources[cambridgeID].Type)
}

func TestBooks_SearchFailureContinues(t *testing.T) {
	store := mocks.NewStore()
	catalog := mocks.NewCatalog()
	catalog.Err = errors.New("catalog unreachable")

	report, err := NewBooks(store, catalog, testLogger()).Ingest(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, len(curatedSearches), report.Get(entities.CounterErrors))
	assert.Empty(t, store.Sources)
}

func TestBooks_LimitOverridesSearchCaps(t *testing.T) {
	store := mocks.NewStore()
	catalog := mocks.NewCatalog()
	catalog.Results["creator:(Herodotus) AND mediatype:texts AND language:eng"] = []ports.CatalogItem{
		{Identifier: "a"}, {Identifier: "b"}, {Identifier: "c"},
	}

	report, err := NewBooks(store, catalog, testLogger()).Ingest(context.Background(), Options{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Get(entities.CounterSourcesCreated))
}

func TestBooks_RerunSkipsExisting(t *testing.T) {
	store := mocks.NewStore()
	catalog := mocks.NewCatalog()
	catalog.Results["creator:(Strabo) AND mediatype:texts AND language:eng"] = []ports.CatalogItem{
		{Identifier: "strabogeography01stra", Title: "The geography of Strabo"},
	}
	ctx := context.Background()

	_, err := NewBooks(store, catalog, testLogger()).Ingest(ctx, Options{})
	require.NoError(t, err)

	report, err := NewBooks(store, catalog, testLogger()).Ingest(ctx, Options{})
	require.NoError(t, err)

	assert.Zero(t, report.Get(entities.CounterSourcesCreated))
	assert.Equal(t, 1, report.Get(entities.CounterSourcesSkipped))
	assert.Len(t, store.Sources, 1)
}
