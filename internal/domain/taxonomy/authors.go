package taxonomy

import "github.com/ersonp/historia/internal/domain/entities"

// AuthorInfo is registry metadata for a classical author: display name,
// floruit dates as the scholarship quotes them, actor kind, and any
// well-known bias worth recording on the actor.
type AuthorInfo struct {
	Name   string
	Dates  string
	Kind   entities.ActorType
	Biases string
}

// classicalAuthors maps canonical author codes from the text-library
// catalog to registry metadata. Used only as a fallback when the catalog's
// own metadata yields no name.
var classicalAuthors = map[string]AuthorInfo{
	"tlg0001": {Name: "Apollonius Rhodius", Dates: "3rd century BCE", Kind: entities.ActorPerson},
	"tlg0003": {Name: "Thucydides", Dates: "c. 460 - c. 400 BCE", Kind: entities.ActorPerson},
	"tlg0004": {Name: "Aristophanes", Dates: "c. 446 - c. 386 BCE", Kind: entities.ActorPerson},
	"tlg0005": {Name: "Moschus", Dates: "2nd century BCE", Kind: entities.ActorPerson},
	"tlg0006": {Name: "Euripides", Dates: "c. 480 - c. 406 BCE", Kind: entities.ActorPerson},
	"tlg0007": {Name: "Plutarch", Dates: "c. 46 - c. 119 CE", Kind: entities.ActorPerson, Biases: "Pro-Greek, moralistic framing"},
	"tlg0008": {Name: "Athenaeus", Dates: "c. 170 - c. 230 CE", Kind: entities.ActorPerson},
	"tlg0010": {Name: "Isocrates", Dates: "436 - 338 BCE", Kind: entities.ActorPerson},
	"tlg0011": {Name: "Sophocles", Dates: "c. 496 - c. 406 BCE", Kind: entities.ActorPerson},
	"tlg0012": {Name: "Homer", Dates: "c. 8th century BCE", Kind: entities.ActorPerson},
	"tlg0013": {Name: "Homeric Hymns", Dates: "7th-6th century BCE", Kind: entities.ActorGroup},
	"tlg0014": {Name: "Demosthenes", Dates: "384 - 322 BCE", Kind: entities.ActorPerson},
	"tlg0016": {Name: "Herodotus", Dates: "c. 484 - c. 425 BCE", Kind: entities.ActorPerson, Biases: "Pro-Athenian, includes hearsay"},
	"tlg0017": {Name: "Isaeus", Dates: "c. 420 - c. 350 BCE", Kind: entities.ActorPerson},
	"tlg0019": {Name: "Aristides, Aelius", Dates: "117 - c. 181 CE", Kind: entities.ActorPerson},
	"tlg0020": {Name: "Hesiod", Dates: "c. 700 BCE", Kind: entities.ActorPerson},
	"tlg0059": {Name: "Plato", Dates: "c. 428 - c. 348 BCE", Kind: entities.ActorPerson},
	"tlg0060": {Name: "Diodorus Siculus", Dates: "c. 90 - c. 30 BCE", Kind: entities.ActorPerson},
	"tlg0062": {Name: "Lucian", Dates: "c. 125 - after 180 CE", Kind: entities.ActorPerson},
	"tlg0081": {Name: "Aristotle", Dates: "384 - 322 BCE", Kind: entities.ActorPerson},
	"tlg0085": {Name: "Aeschylus", Dates: "c. 525 - c. 456 BCE", Kind: entities.ActorPerson},
	"tlg0086": {Name: "Aeschines", Dates: "c. 389 - c. 314 BCE", Kind: entities.ActorPerson},
	"tlg0093": {Name: "Theophrastus", Dates: "c. 371 - c. 287 BCE", Kind: entities.ActorPerson},
	"tlg0099": {Name: "Xenophon", Dates: "c. 430 - 354 BCE", Kind: entities.ActorPerson, Biases: "Pro-Spartan"},
	"tlg0284": {Name: "Aelius Aristides", Dates: "117 - c. 181 CE", Kind: entities.ActorPerson},
	"tlg0525": {Name: "Josephus", Dates: "c. 37 - c. 100 CE", Kind: entities.ActorPerson, Biases: "Pro-Roman after defection"},
	"tlg0527": {Name: "Septuagint", Dates: "3rd-2nd century BCE", Kind: entities.ActorGroup},
	"tlg0540": {Name: "Lysias", Dates: "c. 445 - c. 380 BCE", Kind: entities.ActorPerson},
	"tlg0551": {Name: "Appian", Dates: "c. 95 - c. 165 CE", Kind: entities.ActorPerson},
	"tlg0561": {Name: "Polybius", Dates: "c. 200 - c. 118 BCE", Kind: entities.ActorPerson},
	"tlg1799": {Name: "Pausanias", Dates: "c. 110 - c. 180 CE", Kind: entities.ActorPerson},
}

// LookupAuthor returns registry metadata for a canonical author code.
func LookupAuthor(code string) (AuthorInfo, bool) {
	info, ok := classicalAuthors[code]
	return info, ok
}

// AuthorName returns the registry display name for a code, or the code
// itself when the registry has no entry, so callers always get a usable
// primary name.
func AuthorName(code string) string {
	if info, ok := classicalAuthors[code]; ok {
		return info.Name
	}
	return code
}
