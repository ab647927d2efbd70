package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/domain/mocks"
	"github.com/ersonp/historia/internal/infrastructure/loader"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// placesFixture is a minimal places dump: one fully populated settlement,
// one bare place, one titleless place, one region with a bounding box.
const placesFixture = `{
	"@context": {"ignored": true},
	"@graph": [
		{
			"id": "579885",
			"title": "Athenae",
			"description": "The ancient city of Athens.",
			"placeTypes": ["settlement"],
			"reprPoint": [23.72, 37.97],
			"review_state": "published",
			"names": [
				{
					"attested": "Ἀθῆναι",
					"romanized": "Athenai",
					"language": "grc",
					"start": -750,
					"end": 640,
					"attestations": [{"timePeriod": "classical", "confidence": "confident"}]
				}
			],
			"locations": [
				{
					"title": "Acropolis point",
					"geometry": {"type": "Point", "coordinates": [23.72, 37.97]},
					"accuracy": "20 meters",
					"location_precision": "precise",
					"attestations": [{"timePeriod": {"title": "classical"}, "confidence": "certain"}]
				}
			],
			"connectsWith": ["https://pleiades.stoa.org/places/580101"],
			"connections": [
				{
					"connectsTo": "https://pleiades.stoa.org/places/580101",
					"connectionType": "near",
					"associationCertainty": "certain",
					"title": "Piraeus",
					"start": -600,
					"end": 640,
					"uri": "https://pleiades.stoa.org/places/579885/near-piraeus"
				},
				{
					"connectsTo": "https://pleiades.stoa.org/places/999999",
					"connectionType": "at"
				}
			],
			"references": [{"citation": "Barrington Atlas"}]
		},
		{
			"id": "580101",
			"title": "Piraeus",
			"placeTypes": ["settlement", "port"],
			"reprPoint": [23.65, 37.94]
		},
		{"id": "000001", "title": "   "},
		{
			"id": "991640",
			"title": "Attica",
			"placeTypes": ["region"],
			"bbox": [23.0, 37.7, 24.1, 38.3]
		}
	]
}`

func writePlacesFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pleiades-places-test.json")
	require.NoError(t, os.WriteFile(path, []byte(placesFixture), 0o644))
	return dir
}

func TestGazetteer_Ingest(t *testing.T) {
	store := mocks.NewStore()
	g := NewGazetteer(store, testLogger(), writePlacesFixture(t))
	ctx := context.Background()

	report, err := g.Ingest(ctx, Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Get(entities.CounterLocationsCreated))
	assert.Equal(t, 1, report.Get(entities.CounterLocationsSkipped))
	assert.Zero(t, report.Get(entities.CounterErrors))
	assert.False(t, report.CompletedAt.IsZero())

	athensID, err := store.FindLocationByExternalID(ctx, "pleiades:579885")
	require.NoError(t, err)
	require.NotEmpty(t, athensID)
	athens := store.Locations[athensID]

	assert.Equal(t, "Athenae", athens.NameModern)
	assert.Equal(t, entities.LocationPoint, athens.Type)
	assert.Equal(t, "settlement", athens.Subtype)
	require.NotNil(t, athens.Longitude)
	assert.InDelta(t, 23.72, *athens.Longitude, 1e-9)
	require.NotNil(t, athens.UncertaintyRadiusKM)
	assert.InDelta(t, 0.02, *athens.UncertaintyRadiusKM, 1e-9)
	assert.Contains(t, athens.UncertaintyNotes, "Location precision: precise")
	assert.Contains(t, athens.UncertaintyNotes, "Accuracy values: 20 meters")
	assert.Contains(t, athens.Description, "The ancient city of Athens.")
	assert.Contains(t, athens.Description, "Connected to 1 other places")
	assert.Contains(t, athens.Description, "Citations: 1 reference(s)")
	assert.Contains(t, athens.Description, "Source: https://pleiades.stoa.org/places/579885")
	assert.Equal(t, "Pleiades place types: settlement", athens.TerrainNotes)

	require.Len(t, athens.HistoricalNames, 1)
	name := athens.HistoricalNames[0]
	assert.Equal(t, "Ἀθῆναι", name.Name)
	assert.Equal(t, "Athenai", name.Romanized)
	assert.Equal(t, "grc", name.Language)
	assert.Equal(t, "0750-01-01 BC", name.PeriodStart)
	assert.Equal(t, "0640-01-01", name.PeriodEnd)
	assert.Equal(t, []string{"classical"}, name.AttestedPeriods)

	require.Len(t, athens.LocationChanges, 1)
	change := athens.LocationChanges[0]
	assert.Equal(t, "Acropolis point", change.Description)
	assert.Equal(t, "20 meters", change.Accuracy)
	assert.Equal(t, []string{"classical (certain)"}, change.AttestedPeriods)

	// The region gets a bounding-box polygon; the point does not.
	atticaID, err := store.FindLocationByExternalID(ctx, "pleiades:991640")
	require.NoError(t, err)
	attica := store.Locations[atticaID]
	assert.Equal(t, entities.LocationArea, attica.Type)
	require.NotNil(t, attica.BoundaryGeoJSON)
	assert.Equal(t, "Polygon", attica.BoundaryGeoJSON["type"])
	assert.Nil(t, athens.BoundaryGeoJSON)

	// A place without a names array still gets one entry from its title.
	piraeusID, err := store.FindLocationByExternalID(ctx, "pleiades:580101")
	require.NoError(t, err)
	require.Len(t, store.Locations[piraeusID].HistoricalNames, 1)
	assert.Equal(t, "Piraeus", store.Locations[piraeusID].HistoricalNames[0].Name)
}

func TestGazetteer_RerunSkipsExisting(t *testing.T) {
	store := mocks.NewStore()
	dir := writePlacesFixture(t)
	ctx := context.Background()

	_, err := NewGazetteer(store, testLogger(), dir).Ingest(ctx, Options{})
	require.NoError(t, err)
	require.Len(t, store.Locations, 3)

	report, err := NewGazetteer(store, testLogger(), dir).Ingest(ctx, Options{})
	require.NoError(t, err)

	assert.Len(t, store.Locations, 3)
	assert.Zero(t, report.Get(entities.CounterLocationsCreated))
	// 3 dedup hits plus the titleless place.
	assert.Equal(t, 4, report.Get(entities.CounterLocationsSkipped))
}

func TestGazetteer_Limit(t *testing.T) {
	store := mocks.NewStore()
	g := NewGazetteer(store, testLogger(), writePlacesFixture(t))

	report, err := g.Ingest(context.Background(), Options{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Get(entities.CounterLocationsCreated))
	assert.Len(t, store.Locations, 1)
}

func TestGazetteer_MissingDump(t *testing.T) {
	g := NewGazetteer(mocks.NewStore(), testLogger(), t.TempDir())

	_, err := g.Ingest(context.Background(), Options{})
	var notFound *loader.ErrNoDataFile
	assert.ErrorAs(t, err, &notFound)
}
