// Package taxonomy translates source-specific vocabularies into the
// canonical enumerations. Every mapper is a pure function and total: unknown
// input falls through to a generic bucket, never to an error.
package taxonomy

import (
	"strings"

	"github.com/ersonp/historia/internal/domain/entities"
)

// placeTypeRule matches any of its keywords as a substring of the joined,
// lowercased feature-type list. Rules are ordered: the first match wins.
type placeTypeRule struct {
	keywords []string
	kind     entities.LocationType
	subtype  string
}

var placeTypeRules = []placeTypeRule{
	// Areas
	{[]string{"region", "province", "territory", "country", "diocese"}, entities.LocationArea, "region"},
	{[]string{"island", "peninsula"}, entities.LocationArea, "landform"},
	{[]string{"bay", "gulf", "strait", "sea", "ocean"}, entities.LocationArea, "water"},
	// Linear features
	{[]string{"road", "via", "wall", "aqueduct", "canal"}, entities.LocationLinear, ""},
	{[]string{"river"}, entities.LocationLinear, "river"},
	// Settlements
	{[]string{"settlement", "urban", "city", "town", "village", "polis"}, entities.LocationPoint, "settlement"},
	// Landmarks
	{[]string{"temple", "sanctuary", "shrine", "church"}, entities.LocationPoint, "religious"},
	{[]string{"fort", "fortress", "military", "camp", "castrum"}, entities.LocationPoint, "military"},
	{[]string{"port", "harbor", "harbour"}, entities.LocationPoint, "port"},
	{[]string{"mine", "quarry"}, entities.LocationPoint, "resource"},
	{[]string{"bath", "theater", "theatre", "stadium", "arena", "amphitheater"}, entities.LocationPoint, "civic"},
	{[]string{"cemetery", "tomb", "necropolis", "tumulus"}, entities.LocationPoint, "funerary"},
	// Natural features
	{[]string{"mountain", "peak", "hill", "volcano", "mons"}, entities.LocationPoint, "mountain"},
	{[]string{"lake", "spring", "well", "fountain"}, entities.LocationPoint, "water"},
	{[]string{"cape", "promontory"}, entities.LocationPoint, "landform"},
}

// MapPlaceTypes maps a gazetteer feature-type list to a location kind and
// subtype. Unmatched types default to a point carrying the first raw type
// string as subtype; an empty list defaults to a bare point.
func MapPlaceTypes(placeTypes []string) (entities.LocationType, string) {
	if len(placeTypes) == 0 {
		return entities.LocationPoint, ""
	}

	lowered := make([]string, len(placeTypes))
	for i, t := range placeTypes {
		lowered[i] = strings.ToLower(t)
	}
	joined := strings.Join(lowered, " ")

	for _, rule := range placeTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(joined, kw) {
				subtype := rule.subtype
				if subtype == "" {
					subtype = placeTypes[0]
				}
				return rule.kind, subtype
			}
		}
	}

	return entities.LocationPoint, placeTypes[0]
}
