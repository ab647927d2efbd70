package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/domain/ports"
	"github.com/ersonp/historia/internal/domain/services"
	"github.com/ersonp/historia/internal/domain/temporal"
	"github.com/ersonp/historia/internal/infrastructure/loader"
)

// eclipseSource is the run-report name of the eclipse dataset.
const eclipseSource = "NASA Eclipse Data"

// eclipseTypes maps catalog type codes to descriptions.
var eclipseTypes = map[string]string{
	"T":  "Total solar eclipse",
	"A":  "Annular solar eclipse",
	"H":  "Hybrid solar eclipse",
	"P":  "Partial solar eclipse",
	"T+": "Total lunar eclipse",
	"P+": "Partial lunar eclipse",
	"N":  "Penumbral lunar eclipse",
}

// eclipseRecord is one eclipse, from the curated list or a catalog file.
type eclipseRecord struct {
	Date           temporal.Date
	Type           string
	Name           string
	Description    string
	Lat            *float64
	Lon            *float64
	Confidence     float64
	Layer          entities.Layer
	RawObservation string
}

// historicalEclipses are astronomically dated eclipses that ancient
// sources describe, usable as fixed points when anchoring chronology.
var historicalEclipses = []eclipseRecord{
	{
		Date: temporal.NewDate(-584, 5, 28), Type: "T",
		Name:           "Eclipse of Thales",
		Description:    "Solar eclipse predicted by Thales of Miletus. Said to have stopped the battle between Lydians and Medes.",
		Lat:            ptr(39.0),
		Lon:            ptr(35.0),
		Confidence:     0.95,
		Layer:          entities.LayerAttested,
		RawObservation: "Herodotus, Histories 1.74: 'Day was turned into night'",
	},
	{
		Date: temporal.NewDate(-430, 8, 3), Type: "A",
		Name:           "Eclipse at start of Peloponnesian War",
		Description:    "Annular solar eclipse at the start of the Peloponnesian War, recorded by Thucydides.",
		Lat:            ptr(38.0),
		Lon:            ptr(23.7),
		Confidence:     0.95,
		Layer:          entities.LayerAttested,
		RawObservation: "Thucydides 2.28: 'The sun was eclipsed'",
	},
	{
		Date: temporal.NewDate(-309, 8, 15), Type: "T",
		Name:           "Eclipse of Agathocles",
		Description:    "Total solar eclipse observed as Agathocles sailed from Syracuse to Africa.",
		Lat:            ptr(37.0),
		Lon:            ptr(15.0),
		Confidence:     0.90,
		Layer:          entities.LayerAttested,
		RawObservation: "Diodorus Siculus 20.5",
	},
	{
		Date: temporal.NewDate(-189, 3, 14), Type: "A",
		Name:           "Eclipse before Battle of Magnesia",
		Description:    "Annular eclipse recorded before the Roman-Seleucid Battle of Magnesia.",
		Lat:            ptr(38.6),
		Lon:            ptr(27.4),
		Confidence:     0.90,
		Layer:          entities.LayerAttested,
		RawObservation: "Livy 37.4.4",
	},
	{
		Date: temporal.NewDate(-167, 6, 21), Type: "T+",
		Name:           "Eclipse before Battle of Pydna",
		Description:    "Total lunar eclipse the night before the Battle of Pydna. Sulpicius Gallus predicted it.",
		Lat:            ptr(40.4),
		Lon:            ptr(22.5),
		Confidence:     0.95,
		Layer:          entities.LayerDocumented,
		RawObservation: "Livy 44.37.5-9; Pliny NH 2.53",
	},
	{
		Date: temporal.NewDate(-43, 5, 24), Type: "P",
		Name:           "Eclipse after Caesar's assassination",
		Description:    "Partial solar eclipse following Julius Caesar's assassination. Associated with 'Caesar's Comet'.",
		Lat:            ptr(41.9),
		Lon:            ptr(12.5),
		Confidence:     0.85,
		Layer:          entities.LayerAttested,
		RawObservation: "Multiple Roman sources mention darkened sun",
	},
	{
		Date: temporal.NewDate(29, 11, 24), Type: "T",
		Name:           "Eclipse near Crucifixion date",
		Description:    "Total solar eclipse visible in the Mediterranean region, one of several candidates for the 'darkness' at the Crucifixion.",
		Lat:            ptr(32.0),
		Lon:            ptr(35.0),
		Confidence:     0.70,
		Layer:          entities.LayerTraditional,
		RawObservation: "Phlegon of Tralles fragment preserved in Origen",
	},
	{
		Date: temporal.NewDate(59, 4, 30), Type: "A",
		Name:           "Eclipse in reign of Nero",
		Description:    "Annular solar eclipse recorded during Nero's reign.",
		Lat:            ptr(41.9),
		Lon:            ptr(12.5),
		Confidence:     0.90,
		Layer:          entities.LayerDocumented,
		RawObservation: "Tacitus Annals 14.12",
	},
	{
		Date: temporal.NewDate(71, 3, 20), Type: "T",
		Name:           "Eclipse during Jewish War",
		Description:    "Total solar eclipse during the Roman siege of Jerusalem.",
		Lat:            ptr(31.8),
		Lon:            ptr(35.2),
		Confidence:     0.90,
		Layer:          entities.LayerAttested,
		RawObservation: "Josephus references",
	},
	{
		Date: temporal.NewDate(364, 6, 16), Type: "T",
		Name:           "Eclipse of Julian's Persian campaign",
		Description:    "Total solar eclipse during Emperor Julian's Persian campaign.",
		Lat:            ptr(33.0),
		Lon:            ptr(44.0),
		Confidence:     0.90,
		Layer:          entities.LayerDocumented,
		RawObservation: "Ammianus Marcellinus 25.10.2",
	},
	{
		Date: temporal.NewDate(484, 1, 14), Type: "T",
		Name:           "Eclipse recorded in Chinese sources",
		Description:    "Total solar eclipse recorded in both Roman and Chinese sources.",
		Lat:            ptr(35.0),
		Lon:            ptr(110.0),
		Confidence:     0.95,
		Layer:          entities.LayerDocumented,
		RawObservation: "Chinese dynastic histories",
	},
	{
		Date: temporal.NewDate(590, 10, 4), Type: "T",
		Name:           "Eclipse during Gregory of Tours' time",
		Description:    "Total solar eclipse recorded by Gregory of Tours.",
		Lat:            ptr(47.4),
		Lon:            ptr(0.7),
		Confidence:     0.90,
		Layer:          entities.LayerDocumented,
		RawObservation: "Gregory of Tours, History of the Franks 10.23",
	},
	{
		Date: temporal.NewDate(840, 5, 5), Type: "T",
		Name:           "Eclipse and death of Louis the Pious",
		Description:    "Total solar eclipse shortly before the death of Louis the Pious. Seen as an omen.",
		Lat:            ptr(49.0),
		Lon:            ptr(7.0),
		Confidence:     0.95,
		Layer:          entities.LayerDocumented,
		RawObservation: "Multiple Carolingian sources",
	},
	{
		Date: temporal.NewDate(1133, 8, 2), Type: "T",
		Name:           "King Henry's Eclipse",
		Description:    "Total solar eclipse associated with the death of King Henry I of England.",
		Lat:            ptr(51.5),
		Lon:            ptr(-0.1),
		Confidence:     0.95,
		Layer:          entities.LayerDocumented,
		RawObservation: "William of Malmesbury",
	},
}

// Eclipse ingests historical eclipses as precisely dated factoids. These
// are the highest-confidence temporal anchors in the model: the dates are
// astronomically computed and the events appear in ancient sources. With
// no catalog file present, a curated list of historically significant
// eclipses is used.
type Eclipse struct {
	store   ports.Store
	log     *slog.Logger
	dataDir string
}

// NewEclipse creates the eclipse adapter reading from dataDir.
func NewEclipse(store ports.Store, logger *slog.Logger, dataDir string) *Eclipse {
	return &Eclipse{store: store, log: logger, dataDir: dataDir}
}

// SourceName returns the human-readable name of the dataset.
func (e *Eclipse) SourceName() string { return eclipseSource }

// Ingest creates the catalog source record, then a factoid, placement,
// source link, visibility location and connection per eclipse.
func (e *Eclipse) Ingest(ctx context.Context, opts Options) (*entities.RunReport, error) {
	report := entities.NewRunReport(eclipseSource)
	resolver := services.NewResolver(e.store, e.log, report)
	if err := resolver.Connect(ctx); err != nil {
		return report.Finish(), err
	}

	sourceID, err := resolver.CreateSource(ctx, &entities.Source{
		Title:             "NASA GSFC Eclipse Website",
		Type:              entities.SourceTertiary,
		Genre:             "astronomical_catalog",
		RawDatingEvidence: "Calculated from astronomical algorithms",
		DigitalURL:        "https://eclipse.gsfc.nasa.gov/",
	})
	if err != nil {
		return report.Finish(), err
	}

	records, err := e.loadRecords(resolver)
	if err != nil {
		return report.Finish(), err
	}

	count := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return report.Finish(), err
		}
		if reached(opts.Limit, count) {
			break
		}
		if err := e.createEclipse(ctx, resolver, sourceID, rec); err != nil {
			resolver.ReportError("creating eclipse", err, "eclipse", rec.Name)
			continue
		}
		count++
	}

	e.log.Info("eclipse ingestion complete", "processed", count)
	return report.Finish(), nil
}

// loadRecords reads eclipse catalog files from the data directory, or
// falls back to the curated historical list when none exist.
func (e *Eclipse) loadRecords(resolver *services.Resolver) ([]eclipseRecord, error) {
	path, err := loader.FindFile(e.dataDir, "*eclipse*.csv", "*eclipse*.txt")
	var notFound *loader.ErrNoDataFile
	if errors.As(err, &notFound) {
		e.log.Info("no eclipse catalog files found, using curated historical list")
		return historicalEclipses, nil
	}
	if err != nil {
		return nil, err
	}

	e.log.Info("processing eclipse catalog", "path", path)
	f, err := loader.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseEclipseCatalog(f, resolver)
}

// parseEclipseCatalog reads a CSV catalog with Date/Type/Latitude/
// Longitude columns. Rows that don't parse are counted and skipped.
func parseEclipseCatalog(r io.Reader, resolver *services.Resolver) ([]eclipseRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var records []eclipseRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			resolver.ReportError("reading catalog row", err)
			continue
		}
		rec, ok := parseEclipseRow(row, cols)
		if !ok {
			resolver.ReportError("parsing catalog row", fmt.Errorf("unparseable row %v", row))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseEclipseRow(row []string, cols map[string]int) (eclipseRecord, bool) {
	field := func(names ...string) string {
		for _, name := range names {
			if i, ok := cols[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	dateStr := field("date", "calendar date")
	if dateStr == "" {
		return eclipseRecord{}, false
	}
	parts := strings.Split(strings.ReplaceAll(dateStr, "/", "-"), "-")
	if len(parts) != 3 {
		return eclipseRecord{}, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return eclipseRecord{}, false
	}
	date := temporal.NewDate(year, month, day)

	typeCode := field("type", "eclipse type")
	if typeCode == "" {
		typeCode = "T"
	}
	typeCode = typeCode[:1]

	rec := eclipseRecord{
		Date:        date,
		Type:        typeCode,
		Name:        "Eclipse of " + date.Display(),
		Description: eclipseTypeName(typeCode) + " recorded by NASA GSFC",
		Confidence:  0.99,
		Layer:       entities.LayerDocumented,
	}
	if lat, err := strconv.ParseFloat(field("latitude"), 64); err == nil {
		rec.Lat = ptr(lat)
	}
	if lon, err := strconv.ParseFloat(field("longitude"), 64); err == nil {
		rec.Lon = ptr(lon)
	}
	return rec, true
}

func eclipseTypeName(code string) string {
	if name, ok := eclipseTypes[code]; ok {
		return name
	}
	return "Eclipse"
}

// createEclipse writes the factoid, its placement, the source link, and
// the visibility location with its connection.
func (e *Eclipse) createEclipse(ctx context.Context, resolver *services.Resolver, sourceID string, rec eclipseRecord) error {
	typeName := eclipseTypeName(rec.Type)
	literal := rec.Date.Literal()

	factoidID, err := resolver.CreateFactoid(ctx, &entities.Factoid{
		Description:        rec.Name + ": " + rec.Description,
		Summary:            fmt.Sprintf("%s on %s", typeName, rec.Date.Display()),
		Type:               "event",
		Layer:              rec.Layer,
		RawObservation:     rec.RawObservation,
		RawObservationType: "document_text",
		Status:             entities.FactoidVerified,
	})
	if err != nil || factoidID == "" {
		return err
	}

	if _, err := resolver.CreatePlacement(ctx, &entities.Placement{
		FactoidID:  factoidID,
		DateStart:  literal,
		DateEnd:    literal,
		Precision:  entities.PrecisionExact,
		Confidence: rec.Confidence,
		Reasoning:  "Astronomically calculated eclipse date from NASA GSFC",
		Type:       entities.PlacementSystem,
	}); err != nil {
		return err
	}

	if sourceID != "" {
		if err := resolver.LinkFactoidSource(ctx, &entities.FactoidSource{
			FactoidID: factoidID,
			SourceID:  sourceID,
		}); err != nil {
			return err
		}
	}

	if rec.Lat == nil || rec.Lon == nil {
		return nil
	}
	locationID, err := resolver.CreateLocation(ctx, &entities.Location{
		NameModern:          "Eclipse visibility: " + rec.Name,
		Type:                entities.LocationArea,
		Subtype:             "eclipse_path",
		Latitude:            rec.Lat,
		Longitude:           rec.Lon,
		UncertaintyRadiusKM: ptr(500.0),
		Description:         "Central path of " + strings.ToLower(typeName),
	})
	if err != nil || locationID == "" {
		return err
	}

	_, err = resolver.CreateConnection(ctx, &entities.Connection{
		FromKind:   entities.KindFactoid,
		FromID:     factoidID,
		ToKind:     entities.KindLocation,
		ToID:       locationID,
		Type:       "located_at",
		Confidence: 0.8,
		Notes:      "Approximate central path of eclipse visibility",
	})
	return err
}
