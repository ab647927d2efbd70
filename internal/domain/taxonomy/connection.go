package taxonomy

import "strings"

// Connection-type vocabularies, grouped into five disjoint namespaces.
var (
	spatialTypes = keywordSet(
		"at", "on", "near", "in", "bounds", "abuts", "crosses", "intersects",
		"part_of_physical", "part_of_regional", "part_of_admin", "part_of_analytical",
		"north_of", "south_of", "east_of", "west_of",
		"northeast_of", "northwest_of", "southeast_of", "southwest_of",
		"in_territory_of", "port_of",
	)
	temporalTypes       = keywordSet("succeeds", "founded", "relocated_to", "phase")
	routeTypes          = keywordSet("route_next", "communicates", "flows_into", "flows_through")
	identityTypes       = keywordSet("same_as", "member", "sympoliteia", "isopoliteia", "dependent", "ally")
	administrativeTypes = keywordSet("capital", "material_source")
)

func keywordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// MapConnectionType maps a gazetteer connection-type word to a namespaced
// canonical type. Unrecognized types pass through under the source's own
// namespace so no information is silently dropped.
func MapConnectionType(raw string) string {
	t := strings.ToLower(raw)

	switch {
	case contains(spatialTypes, t):
		return "spatial:" + t
	case contains(temporalTypes, t):
		return "temporal:" + t
	case contains(routeTypes, t):
		return "route:" + t
	case contains(identityTypes, t):
		return "identity:" + t
	case contains(administrativeTypes, t):
		return "admin:" + t
	}

	return "pleiades:" + t
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
