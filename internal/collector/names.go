package collector

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	titleCaser   = cases.Title(language.English)
)

func foldAccents(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return out
}

// CleanName canonicalizes a scraped player name: accents folded, title
// cased, and "Last, First" swapped to "First Last".
func CleanName(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if idx := strings.Index(s, ", "); idx >= 0 {
		s = strings.TrimSpace(s[idx+2:]) + " " + strings.TrimSpace(s[:idx])
	}
	return titleCaser.String(strings.TrimSpace(foldAccents(s)))
}

// NormalizeName is the loose matching key used to join play-by-play names
// onto boxscore rosters. Sources disagree on casing, accents, and name
// order, so both orderings normalize to the same key.
func NormalizeName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(foldAccents(raw)))
	if idx := strings.Index(s, ", "); idx >= 0 {
		s = strings.TrimSpace(s[idx+2:]) + " " + strings.TrimSpace(s[:idx])
	}
	return strings.Join(strings.Fields(s), " ")
}
