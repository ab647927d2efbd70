package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/infrastructure/config"
)

var testRepo *Repository

// TestMain runs these tests only against a live database. Set
// INTEGRATION_TEST=1 and DATABASE_URL to a scratch Postgres instance;
// every test truncates the entity tables it touches.
func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TEST") != "1" {
		os.Exit(0)
	}

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		panic("DATABASE_URL is required when INTEGRATION_TEST=1")
	}

	var err error
	testRepo, err = NewRepository(config.DatabaseConfig{URL: url})
	if err != nil {
		panic("failed to create repository: " + err.Error())
	}

	ctx := context.Background()
	if err := testRepo.EnsureSchema(ctx); err != nil {
		panic("failed to ensure schema: " + err.Error())
	}

	code := m.Run()

	testRepo.Close()
	os.Exit(code)
}

// cleanupTables empties the entity tables between tests. Reference frames
// stay; the seeded default frame is part of the schema.
func cleanupTables(t *testing.T) {
	t.Helper()
	_, err := testRepo.db.ExecContext(context.Background(),
		`TRUNCATE factoid_sources, factoid_placements, connections, factoids, sources, actors, locations`)
	require.NoError(t, err)
}

func TestRepository_DefaultFrame(t *testing.T) {
	cleanupTables(t)

	frame, err := testRepo.DefaultFrame(context.Background())
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, "Common Era", frame.Name)
	assert.True(t, frame.IsDefault)
}

func TestRepository_LocationRoundTrip(t *testing.T) {
	cleanupTables(t)
	ctx := context.Background()

	lon, lat, radius := 23.72, 37.97, 0.2
	id, err := testRepo.InsertLocation(ctx, &entities.Location{
		NameModern: "Athens",
		HistoricalNames: []entities.HistoricalName{
			{Name: "Athenae", Language: "la", PeriodStart: "0550-01-01 BC"},
		},
		Type:                entities.LocationPoint,
		Subtype:             "settlement",
		Longitude:           &lon,
		Latitude:            &lat,
		UncertaintyRadiusKM: &radius,
		ExternalID:          "pleiades:579885",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	found, err := testRepo.FindLocationByExternalID(ctx, "pleiades:579885")
	require.NoError(t, err)
	assert.Equal(t, id, found)

	missing, err := testRepo.FindLocationByExternalID(ctx, "pleiades:999999")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestRepository_ListLocationRefsSkipsUnreferenced(t *testing.T) {
	cleanupTables(t)
	ctx := context.Background()

	withRef, err := testRepo.InsertLocation(ctx, &entities.Location{
		NameModern: "Piraeus",
		Type:       entities.LocationPoint,
		ExternalID: "pleiades:580101",
	})
	require.NoError(t, err)
	_, err = testRepo.InsertLocation(ctx, &entities.Location{
		NameModern: "Unplaced settlement",
		Type:       entities.LocationPoint,
	})
	require.NoError(t, err)

	refs, err := testRepo.ListLocationRefs(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, withRef, refs[0].ID)
	assert.Equal(t, "pleiades:580101", refs[0].ExternalID)
}

func TestRepository_ActorAliasLookup(t *testing.T) {
	cleanupTables(t)
	ctx := context.Background()

	id, err := testRepo.InsertActor(ctx, &entities.Actor{
		NamePrimary: "Herodotus",
		NameAliases: []string{"Herodotos", "tlg:tlg0016"},
		Type:        entities.ActorPerson,
	})
	require.NoError(t, err)

	byAlias, err := testRepo.FindActorByAlias(ctx, "tlg:tlg0016")
	require.NoError(t, err)
	assert.Equal(t, id, byAlias)

	byName, err := testRepo.FindActorByName(ctx, "Herodotus")
	require.NoError(t, err)
	assert.Equal(t, id, byName)

	miss, err := testRepo.FindActorByAlias(ctx, "tlg:tlg9999")
	require.NoError(t, err)
	assert.Empty(t, miss)
}

func TestRepository_SourceLookups(t *testing.T) {
	cleanupTables(t)
	ctx := context.Background()

	authorID, err := testRepo.InsertActor(ctx, &entities.Actor{
		NamePrimary: "Thucydides",
		Type:        entities.ActorPerson,
	})
	require.NoError(t, err)

	authored, err := testRepo.InsertSource(ctx, &entities.Source{
		Title:            "History of the Peloponnesian War",
		Type:             entities.SourcePrimary,
		AuthorID:         authorID,
		DigitalURL:       "https://scaife.perseus.org/reader/urn:cts:greekLit:tlg0003",
		ExtractionStatus: entities.ExtractionPending,
		ExternalID:       "tlg:tlg0003.tlg001",
	})
	require.NoError(t, err)

	anonymous, err := testRepo.InsertSource(ctx, &entities.Source{
		Title:            "History of the Peloponnesian War",
		Type:             entities.SourceSecondary,
		ExtractionStatus: entities.ExtractionPending,
	})
	require.NoError(t, err)

	byURL, err := testRepo.FindSourceByURL(ctx, "https://scaife.perseus.org/reader/urn:cts:greekLit:tlg0003")
	require.NoError(t, err)
	assert.Equal(t, authored, byURL)

	// Same title resolves per author; empty author matches only the
	// authorless row.
	byTitle, err := testRepo.FindSourceByTitleAuthor(ctx, "History of the Peloponnesian War", authorID)
	require.NoError(t, err)
	assert.Equal(t, authored, byTitle)

	byTitleNoAuthor, err := testRepo.FindSourceByTitleAuthor(ctx, "History of the Peloponnesian War", "")
	require.NoError(t, err)
	assert.Equal(t, anonymous, byTitleNoAuthor)
}

func TestRepository_PlacementConflictAbsorbed(t *testing.T) {
	cleanupTables(t)
	ctx := context.Background()

	frame, err := testRepo.DefaultFrame(ctx)
	require.NoError(t, err)
	require.NotNil(t, frame)

	factoidID, err := testRepo.InsertFactoid(ctx, &entities.Factoid{
		Description: "Total solar eclipse during the battle of Halys",
		Type:        "event",
		Layer:       entities.LayerAttested,
		Status:      entities.FactoidVerified,
	})
	require.NoError(t, err)

	placement := &entities.Placement{
		FactoidID:  factoidID,
		FrameID:    frame.ID,
		DateStart:  "0584-05-28 BC",
		DateEnd:    "0584-05-28 BC",
		Precision:  entities.PrecisionExact,
		Confidence: 0.99,
		Type:       entities.PlacementSystem,
	}

	first, err := testRepo.InsertPlacement(ctx, placement)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := testRepo.InsertPlacement(ctx, placement)
	require.NoError(t, err)
	assert.Empty(t, second)

	// Open date bounds conflict too: NULLS NOT DISTINCT treats two NULL
	// ranges as the same placement.
	open := &entities.Placement{
		FactoidID:  factoidID,
		FrameID:    frame.ID,
		Precision:  entities.PrecisionCentury,
		Confidence: 0.5,
		Type:       entities.PlacementSystem,
	}
	first, err = testRepo.InsertPlacement(ctx, open)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err = testRepo.InsertPlacement(ctx, open)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestRepository_LinkFactoidSourceIdempotent(t *testing.T) {
	cleanupTables(t)
	ctx := context.Background()

	factoidID, err := testRepo.InsertFactoid(ctx, &entities.Factoid{
		Description: "Croesus consulted the oracle at Delphi",
		Type:        "event",
		Layer:       entities.LayerAttested,
		Status:      entities.FactoidSourced,
	})
	require.NoError(t, err)

	sourceID, err := testRepo.InsertSource(ctx, &entities.Source{
		Title:            "The Histories",
		Type:             entities.SourcePrimary,
		ExtractionStatus: entities.ExtractionPending,
	})
	require.NoError(t, err)

	link := &entities.FactoidSource{
		FactoidID:    factoidID,
		SourceID:     sourceID,
		Relationship: "primary_source",
	}
	require.NoError(t, testRepo.LinkFactoidSource(ctx, link))
	require.NoError(t, testRepo.LinkFactoidSource(ctx, link))

	var count int
	err = testRepo.db.QueryRowContext(ctx,
		`SELECT count(*) FROM factoid_sources WHERE factoid_id = $1`, factoidID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRepository_ConnectionsHaveNoUniqueness(t *testing.T) {
	cleanupTables(t)
	ctx := context.Background()

	from, err := testRepo.InsertLocation(ctx, &entities.Location{
		NameModern: "Athens", Type: entities.LocationPoint, ExternalID: "pleiades:579885",
	})
	require.NoError(t, err)
	to, err := testRepo.InsertLocation(ctx, &entities.Location{
		NameModern: "Piraeus", Type: entities.LocationPoint, ExternalID: "pleiades:580101",
	})
	require.NoError(t, err)

	conn := &entities.Connection{
		FromKind:   entities.KindLocation,
		FromID:     from,
		ToKind:     entities.KindLocation,
		ToID:       to,
		Type:       "spatial:near",
		Confidence: 0.95,
	}

	firstID, err := testRepo.InsertConnection(ctx, conn)
	require.NoError(t, err)
	secondID, err := testRepo.InsertConnection(ctx, conn)
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	var count int
	err = testRepo.db.QueryRowContext(ctx,
		`SELECT count(*) FROM connections WHERE from_entity_id = $1`, from).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
