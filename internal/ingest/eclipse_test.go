package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/domain/mocks"
)

func TestEclipse_CuratedList(t *testing.T) {
	store := mocks.NewStore()
	e := NewEclipse(store, testLogger(), t.TempDir())
	ctx := context.Background()

	report, err := e.Ingest(ctx, Options{})
	require.NoError(t, err)

	total := len(historicalEclipses)
	assert.Equal(t, 1, report.Get(entities.CounterSourcesCreated))
	assert.Equal(t, total, report.Get(entities.CounterFactoidsCreated))
	assert.Equal(t, total, report.Get(entities.CounterPlacementsCreated))
	assert.Equal(t, total, report.Get(entities.CounterLocationsCreated))
	assert.Equal(t, total, report.Get(entities.CounterConnectionsCreated))
	assert.Zero(t, report.Get(entities.CounterErrors))
	assert.Len(t, store.Links, total)

	// The Thales eclipse anchors at an era-aware exact date.
	var thalesID string
	for id, f := range store.Factoids {
		if strings.HasPrefix(f.Description, "Eclipse of Thales:") {
			thalesID = id
			assert.Equal(t, "Total solar eclipse on 584 BCE", f.Summary)
			assert.Equal(t, entities.LayerAttested, f.Layer)
			assert.Equal(t, entities.FactoidVerified, f.Status)
		}
	}
	require.NotEmpty(t, thalesID)

	found := false
	for _, p := range store.Placements {
		if p.FactoidID == thalesID {
			found = true
			assert.Equal(t, "0584-05-28 BC", p.DateStart)
			assert.Equal(t, "0584-05-28 BC", p.DateEnd)
			assert.Equal(t, entities.PrecisionExact, p.Precision)
			assert.Equal(t, entities.PlacementSystem, p.Type)
		}
	}
	assert.True(t, found, "thales eclipse has no placement")

	// Every eclipse connects its factoid to a visibility area.
	for _, c := range store.Connections {
		assert.Equal(t, entities.KindFactoid, c.FromKind)
		assert.Equal(t, entities.KindLocation, c.ToKind)
		assert.Equal(t, "located_at", c.Type)
	}
}

func TestEclipse_Limit(t *testing.T) {
	store := mocks.NewStore()
	e := NewEclipse(store, testLogger(), t.TempDir())

	report, err := e.Ingest(context.Background(), Options{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Get(entities.CounterFactoidsCreated))
}

func TestEclipse_RerunDedupsCatalogSource(t *testing.T) {
	store := mocks.NewStore()
	dir := t.TempDir()
	ctx := context.Background()

	_, err := NewEclipse(store, testLogger(), dir).Ingest(ctx, Options{Limit: 2})
	require.NoError(t, err)

	report, err := NewEclipse(store, testLogger(), dir).Ingest(ctx, Options{Limit: 2})
	require.NoError(t, err)

	// The catalog source dedups by URL; factoids are append-only
	// observations, so a rerun records them (and their placements) again
	// under new ids.
	assert.Equal(t, 1, report.Get(entities.CounterSourcesSkipped))
	assert.Zero(t, report.Get(entities.CounterSourcesCreated))
	assert.Equal(t, 2, report.Get(entities.CounterFactoidsCreated))
	assert.Equal(t, 2, report.Get(entities.CounterPlacementsCreated))
	assert.Len(t, store.Sources, 1)
	assert.Len(t, store.Factoids, 4)
}

func TestEclipse_CatalogFile(t *testing.T) {
	dir := t.TempDir()
	csv := "Date,Type,Latitude,Longitude\n" +
		"1133-08-02,T,51.5,-0.1\n" +
		"not a date,T,0,0\n" +
		"1605/10/12,A,41.0,28.9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solar-eclipse-catalog.csv"), []byte(csv), 0o644))

	store := mocks.NewStore()
	report, err := NewEclipse(store, testLogger(), dir).Ingest(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Get(entities.CounterFactoidsCreated))
	assert.Equal(t, 1, report.Get(entities.CounterErrors))

	descriptions := make([]string, 0, len(store.Factoids))
	for _, f := range store.Factoids {
		descriptions = append(descriptions, f.Description)
	}
	assert.Contains(t, descriptions, "Eclipse of 1133 CE: Total solar eclipse recorded by NASA GSFC")
	assert.Contains(t, descriptions, "Eclipse of 1605 CE: Annular solar eclipse recorded by NASA GSFC")
}
