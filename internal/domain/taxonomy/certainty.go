package taxonomy

import "strings"

// DefaultConfidence is used for certainty labels the lookup does not know.
const DefaultConfidence = 0.75

// certaintyConfidence maps the gazetteer's association-certainty tiers to
// confidence scores.
var certaintyConfidence = map[string]float64{
	"certain":      0.95,
	"confident":    0.85,
	"less-certain": 0.65,
	"uncertain":    0.45,
}

// CertaintyConfidence maps a certainty label to a confidence score in
// [0, 1], defaulting for unrecognized labels.
func CertaintyConfidence(label string) float64 {
	if c, ok := certaintyConfidence[strings.ToLower(label)]; ok {
		return c
	}
	return DefaultConfidence
}

// precisionRadiusKM maps location-precision labels to an uncertainty radius
// in kilometers. "unlocated" deliberately has no entry: no radius is a
// different statement than a radius of zero.
var precisionRadiusKM = map[string]float64{
	"precise":  0.1,
	"accurate": 1,
	"rough":    10,
	"related":  25,
}

// PrecisionRadiusKM maps a precision label to an uncertainty radius in
// kilometers. The second return is false when the label implies no radius
// at all ("unlocated", or anything unrecognized).
func PrecisionRadiusKM(label string) (float64, bool) {
	r, ok := precisionRadiusKM[strings.ToLower(label)]
	return r, ok
}
