package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/domain/ports"
	"github.com/ersonp/historia/internal/domain/services"
	"github.com/ersonp/historia/internal/domain/taxonomy"
	"github.com/ersonp/historia/internal/domain/temporal"
	"github.com/ersonp/historia/internal/infrastructure/loader"
)

// gazetteerSource is the run-report name of the ancient-places dataset.
const gazetteerSource = "Pleiades Gazetteer"

// gazetteerProvenance marks historical-name entries created by this adapter.
const gazetteerProvenance = "Pleiades Gazetteer"

// errLimitReached stops streaming early once the record limit is hit.
var errLimitReached = errors.New("record limit reached")

// Gazetteer ingests the Pleiades ancient-places JSON dump as locations.
// It creates locations only; cross-references between places are a
// separate pass (see Connections) run after every node is committed.
type Gazetteer struct {
	store   ports.Store
	log     *slog.Logger
	dataDir string
}

// NewGazetteer creates the gazetteer adapter reading from dataDir.
func NewGazetteer(store ports.Store, logger *slog.Logger, dataDir string) *Gazetteer {
	return &Gazetteer{store: store, log: logger, dataDir: dataDir}
}

// SourceName returns the human-readable name of the dataset.
func (g *Gazetteer) SourceName() string { return gazetteerSource }

// Ingest streams the places dump and creates one location per titled
// place. Malformed places are counted and skipped.
func (g *Gazetteer) Ingest(ctx context.Context, opts Options) (*entities.RunReport, error) {
	report := entities.NewRunReport(gazetteerSource)
	resolver := services.NewResolver(g.store, g.log, report)
	if err := resolver.Connect(ctx); err != nil {
		return report.Finish(), err
	}

	path, err := loader.FindFile(g.dataDir, "pleiades*.json.gz", "pleiades*.json")
	if err != nil {
		return report.Finish(), fmt.Errorf("locating places dump: %w", err)
	}
	g.log.Info("found places dump", "path", path)

	f, err := loader.Open(path)
	if err != nil {
		return report.Finish(), err
	}
	defer f.Close()

	processed := 0
	err = loader.StreamArray(f, func(raw json.RawMessage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if reached(opts.Limit, processed) {
			return errLimitReached
		}
		processed++

		var place gazetteerPlace
		if err := json.Unmarshal(raw, &place); err != nil {
			resolver.ReportError("decoding place", err)
			return nil
		}
		if err := g.processPlace(ctx, resolver, &place); err != nil {
			resolver.ReportError("processing place", err, "place_id", place.ID)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return report.Finish(), fmt.Errorf("streaming places: %w", err)
	}

	g.log.Info("gazetteer ingestion complete", "processed", processed)
	return report.Finish(), nil
}

func (g *Gazetteer) processPlace(ctx context.Context, resolver *services.Resolver, place *gazetteerPlace) error {
	title := strings.TrimSpace(place.Title)
	if title == "" {
		resolver.Report().Add(entities.CounterLocationsSkipped)
		return nil
	}

	locType, subtype := taxonomy.MapPlaceTypes(place.PlaceTypes)
	lon, lat := place.coordinates()
	radiusKM, uncertaintyNotes := place.uncertainty()

	loc := entities.Location{
		NameModern:          title,
		HistoricalNames:     place.historicalNames(),
		Type:                locType,
		Subtype:             subtype,
		Longitude:           lon,
		Latitude:            lat,
		UncertaintyRadiusKM: radiusKM,
		UncertaintyNotes:    uncertaintyNotes,
		BoundaryGeoJSON:     place.boundary(locType),
		LocationChanges:     place.locationChanges(),
		TerrainNotes:        place.terrainNotes(),
		Description:         place.buildDescription(),
		ExternalID:          "pleiades:" + place.ID,
	}
	_, err := resolver.CreateLocation(ctx, &loc)
	return err
}

// gazetteerPlace is one @graph element of the places dump. Only the
// members this adapter reads are declared.
type gazetteerPlace struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	PlaceTypes   []string          `json:"placeTypes"`
	ReprPoint    []float64         `json:"reprPoint"`
	BBox         []float64         `json:"bbox"`
	ReviewState  string            `json:"review_state"`
	Names        []placeName       `json:"names"`
	Locations    []placeLocation   `json:"locations"`
	Features     []placeFeature    `json:"features"`
	ConnectsWith []string          `json:"connectsWith"`
	References   []json.RawMessage `json:"references"`
}

type placeName struct {
	Attested     string        `json:"attested"`
	Romanized    string        `json:"romanized"`
	Language     string        `json:"language"`
	Start        *float64      `json:"start"`
	End          *float64      `json:"end"`
	Attestations []attestation `json:"attestations"`
}

type placeLocation struct {
	Title             string        `json:"title"`
	Start             *float64      `json:"start"`
	End               *float64      `json:"end"`
	Accuracy          string        `json:"accuracy"`
	LocationPrecision string        `json:"location_precision"`
	Geometry          placeGeometry `json:"geometry"`
	Attestations      []attestation `json:"attestations"`
}

type placeFeature struct {
	Geometry placeGeometry `json:"geometry"`
}

type placeGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// point returns the geometry's coordinates when it is a point.
func (g *placeGeometry) point() (lon, lat float64, ok bool) {
	if g.Type != "Point" || len(g.Coordinates) == 0 {
		return 0, 0, false
	}
	var coords []float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil || len(coords) < 2 {
		return 0, 0, false
	}
	return coords[0], coords[1], true
}

// attestation pairs a time period with a confidence label. The dump
// writes timePeriod as a bare string or as an object with a title.
type attestation struct {
	TimePeriod timePeriod `json:"timePeriod"`
	Confidence string     `json:"confidence"`
}

type timePeriod string

func (p *timePeriod) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = timePeriod(s)
		return nil
	}
	var obj struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*p = timePeriod(obj.Title)
	return nil
}

// coordinates picks the representative point, falling back to feature and
// then location geometries.
func (p *gazetteerPlace) coordinates() (lon, lat *float64) {
	if len(p.ReprPoint) == 2 {
		return ptr(p.ReprPoint[0]), ptr(p.ReprPoint[1])
	}
	for _, f := range p.Features {
		if x, y, ok := f.Geometry.point(); ok {
			return ptr(x), ptr(y)
		}
	}
	for _, l := range p.Locations {
		if x, y, ok := l.Geometry.point(); ok {
			return ptr(x), ptr(y)
		}
	}
	return nil, nil
}

// historicalNames builds structured name entries from the names array,
// preferring attested spellings over romanizations. A place with no name
// entries still gets one from its title.
func (p *gazetteerPlace) historicalNames() []entities.HistoricalName {
	var names []entities.HistoricalName
	for _, n := range p.Names {
		attested := strings.TrimSpace(n.Attested)
		romanized := strings.TrimSpace(n.Romanized)
		name := attested
		if name == "" {
			name = romanized
		}
		if name == "" {
			continue
		}

		entry := entities.HistoricalName{
			Name:       name,
			Language:   n.Language,
			Provenance: gazetteerProvenance,
		}
		if attested != "" && romanized != "" && attested != romanized {
			entry.Romanized = romanized
		}
		if n.Start != nil {
			entry.PeriodStart = temporal.YearOnly(int(*n.Start)).Literal()
		}
		if n.End != nil {
			entry.PeriodEnd = temporal.YearOnly(int(*n.End)).Literal()
		}
		entry.AttestedPeriods = attestedPeriods(n.Attestations, false)
		names = append(names, entry)
	}

	if len(names) == 0 && strings.TrimSpace(p.Title) != "" {
		names = append(names, entities.HistoricalName{
			Name:       strings.TrimSpace(p.Title),
			Provenance: gazetteerProvenance,
		})
	}
	return names
}

// locationChanges maps the dump's location variants: the same place at
// different times, or competing scholarly readings of where it was.
func (p *gazetteerPlace) locationChanges() []entities.LocationChange {
	var changes []entities.LocationChange
	for _, l := range p.Locations {
		change := entities.LocationChange{Description: l.Title}
		if change.Description == "" {
			change.Description = "Location variant"
		}
		if x, y, ok := l.Geometry.point(); ok {
			change.Longitude = ptr(x)
			change.Latitude = ptr(y)
		}
		if l.Start != nil {
			change.PeriodStart = temporal.YearOnly(int(*l.Start)).Literal()
		}
		if l.End != nil {
			change.PeriodEnd = temporal.YearOnly(int(*l.End)).Literal()
		}
		change.Accuracy = l.Accuracy
		change.AttestedPeriods = attestedPeriods(l.Attestations, true)
		changes = append(changes, change)
	}
	return changes
}

// attestedPeriods flattens attestations into period labels, optionally
// annotated with the confidence label.
func attestedPeriods(atts []attestation, withConfidence bool) []string {
	var periods []string
	for _, a := range atts {
		period := string(a.TimePeriod)
		if period == "" {
			continue
		}
		if withConfidence && a.Confidence != "" {
			period = fmt.Sprintf("%s (%s)", period, a.Confidence)
		}
		periods = append(periods, period)
	}
	return periods
}

// uncertainty derives a radius and notes from the variants' accuracy
// values, location precision, and review state. A stated accuracy in
// meters wins over the coarser precision-label radius.
func (p *gazetteerPlace) uncertainty() (*float64, string) {
	var parts []string
	var accuracies []string
	var radiusKM *float64

	for _, l := range p.Locations {
		if l.Accuracy != "" {
			accuracies = append(accuracies, l.Accuracy)
		}
		if l.LocationPrecision != "" {
			parts = append(parts, "Location precision: "+l.LocationPrecision)
		}
	}
	if len(accuracies) > 0 {
		parts = append(parts, "Accuracy values: "+strings.Join(accuracies, ", "))
		for _, acc := range accuracies {
			if km, ok := metersToKM(acc); ok {
				radiusKM = ptr(km)
				break
			}
		}
	}
	if radiusKM == nil {
		for _, l := range p.Locations {
			if km, ok := taxonomy.PrecisionRadiusKM(l.LocationPrecision); ok {
				radiusKM = ptr(km)
				break
			}
		}
	}
	if p.ReviewState != "" && p.ReviewState != "published" {
		parts = append(parts, "Review state: "+p.ReviewState)
	}
	return radiusKM, strings.Join(parts, "; ")
}

// metersToKM extracts the number from accuracy strings like "200 meters".
func metersToKM(accuracy string) (float64, bool) {
	if !strings.Contains(strings.ToLower(accuracy), "meters") {
		return 0, false
	}
	var digits strings.Builder
	for _, c := range accuracy {
		if (c >= '0' && c <= '9') || c == '.' {
			digits.WriteRune(c)
		}
	}
	m, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, false
	}
	return m / 1000, true
}

// boundary builds a polygon from the bounding box. Only area features get
// a boundary; a bbox around a point would overstate what is known.
func (p *gazetteerPlace) boundary(locType entities.LocationType) map[string]any {
	if locType != entities.LocationArea || len(p.BBox) != 4 {
		return nil
	}
	minLon, minLat, maxLon, maxLat := p.BBox[0], p.BBox[1], p.BBox[2], p.BBox[3]
	return map[string]any{
		"type": "Polygon",
		"coordinates": []any{[]any{
			[]any{minLon, minLat},
			[]any{maxLon, minLat},
			[]any{maxLon, maxLat},
			[]any{minLon, maxLat},
			[]any{minLon, minLat},
		}},
	}
}

func (p *gazetteerPlace) terrainNotes() string {
	if len(p.PlaceTypes) == 0 {
		return ""
	}
	return "Pleiades place types: " + strings.Join(p.PlaceTypes, ", ")
}

func (p *gazetteerPlace) buildDescription() string {
	var parts []string
	if desc := strings.TrimSpace(p.Description); desc != "" {
		parts = append(parts, desc)
	}
	if n := len(p.ConnectsWith); n > 0 {
		parts = append(parts, fmt.Sprintf("Connected to %d other places", n))
	}
	if n := len(p.References); n > 0 {
		parts = append(parts, fmt.Sprintf("Citations: %d reference(s)", n))
	}
	if p.ID != "" {
		parts = append(parts, "Source: https://pleiades.stoa.org/places/"+p.ID)
	}
	return strings.Join(parts, "\n\n")
}

func ptr(f float64) *float64 {
	return &f
}
