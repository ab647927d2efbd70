package taxonomy

import "strings"

// genreByTitleKeyword maps a keyword found in a work title to a genre.
// Ordered so that titles matching several keywords resolve deterministically.
var genreByTitleKeyword = []struct {
	keyword string
	genre   string
}{
	{"histories", "historiography"},
	{"history", "historiography"},
	{"iliad", "epic_poetry"},
	{"odyssey", "epic_poetry"},
	{"hymns", "religious_poetry"},
	{"lives", "biography"},
	{"moralia", "philosophy"},
	{"republic", "philosophy"},
	{"laws", "philosophy"},
	{"politics", "philosophy"},
	{"orations", "oratory"},
	{"speeches", "oratory"},
	{"antiquities", "historiography"},
	{"war", "historiography"},
	{"geography", "geography"},
	{"description", "geography"},
}

// genreByAuthorKeyword is the fallback when the title gives nothing away.
var genreByAuthorKeyword = []struct {
	keywords []string
	genre    string
}{
	{[]string{"homer"}, "epic_poetry"},
	{[]string{"herodotus", "thucydides", "polybius", "diodorus"}, "historiography"},
	{[]string{"plato", "aristotle"}, "philosophy"},
	{[]string{"demosthenes", "isocrates", "lysias"}, "oratory"},
	{[]string{"sophocles", "euripides", "aeschylus"}, "tragedy"},
	{[]string{"aristophanes"}, "comedy"},
	{[]string{"plutarch"}, "biography"},
}

// MapGenre determines a work's genre from its title, falling back to the
// author name. Returns "" when neither heuristic matches.
func MapGenre(title, author string) string {
	titleLower := strings.ToLower(title)
	for _, rule := range genreByTitleKeyword {
		if strings.Contains(titleLower, rule.keyword) {
			return rule.genre
		}
	}

	authorLower := strings.ToLower(author)
	for _, rule := range genreByAuthorKeyword {
		for _, kw := range rule.keywords {
			if strings.Contains(authorLower, kw) {
				return rule.genre
			}
		}
	}

	return ""
}
