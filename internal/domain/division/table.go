package division

import (
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// Fallback is assigned when a conference is missing or unmapped and no
// earlier reconciliation step produced a division. Schools outside the NCAA
// feed are overwhelmingly NAIA programs.
const Fallback = "naia"

// Table maps a normalized conference name to its division label. The table
// is hand-maintained and drifts between seasons, so it is a constructed
// value that deployments can replace from a file instead of baked-in logic.
type Table struct {
	byConference map[string]string
}

func NewTable(entries map[string]string) *Table {
	byConference := make(map[string]string, len(entries))
	for conference, div := range entries {
		key := Normalize(conference)
		if key == "" {
			continue
		}
		byConference[key] = strings.ToLower(strings.TrimSpace(div))
	}
	return &Table{byConference: byConference}
}

// LoadTable reads a {"conference": "division"} JSON document.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "read division table %q", path)
	}
	entries := make(map[string]string)
	if err := sonic.Unmarshal(raw, &entries); err != nil {
		return nil, crerr.Wrapf(err, "parse division table %q", path)
	}
	return NewTable(entries), nil
}

// Lookup resolves a conference as scraped (any casing, padded) to its
// division.
func (t *Table) Lookup(conference string) (string, bool) {
	if t == nil {
		return "", false
	}
	div, ok := t.byConference[Normalize(conference)]
	if !ok || div == "" {
		return "", false
	}
	return div, true
}

// Normalize lower-cases and trims a conference name for table keys.
func Normalize(conference string) string {
	return strings.ToLower(strings.TrimSpace(conference))
}

// Overrides corrects known-bad team divisions in the source data by exact
// team name. Applied before conference mapping; a conference-derived
// division still wins when one resolves.
type Overrides map[string]string

func (o Overrides) Lookup(team string) (string, bool) {
	div, ok := o[team]
	if !ok {
		return "", false
	}
	return strings.ToLower(div), true
}

// DefaultOverrides covers teams the feed habitually mislabels, mostly
// recent reclassifications.
func DefaultOverrides() Overrides {
	return Overrides{
		"Westmont":      "d2",
		"Jessup":        "d2",
		"St. Thomas":    "d1",
		"Queens (NC)":   "d1",
		"Lindenwood":    "d1",
		"Southern Ind.": "d1",
	}
}

// DefaultTable is the authoritative conference-to-division lookup for the
// current season.
func DefaultTable() *Table {
	return NewTable(map[string]string{
		// Division I
		"acc":               "d1",
		"america east":      "d1",
		"american":          "d1",
		"asun":              "d1",
		"atlantic 10":       "d1",
		"big 12":            "d1",
		"big east":          "d1",
		"big south":         "d1",
		"big ten":           "d1",
		"big west":          "d1",
		"caa":               "d1",
		"conference usa":    "d1",
		"horizon":           "d1",
		"ivy league":        "d1",
		"maac":              "d1",
		"mac":               "d1",
		"missouri valley":   "d1",
		"mountain west":     "d1",
		"nec":               "d1",
		"ohio valley":       "d1",
		"patriot league":    "d1",
		"sec":               "d1",
		"socon":             "d1",
		"southland":         "d1",
		"summit league":     "d1",
		"sun belt":          "d1",
		"wac":               "d1",
		"west coast":        "d1",
		// Division II
		"cacc":                  "d2",
		"ccaa":                  "d2",
		"conference carolinas":  "d2",
		"east coast":            "d2",
		"g-mac":                 "d2",
		"gliac":                 "d2",
		"glvc":                  "d2",
		"great american":        "d2",
		"gulf south":            "d2",
		"lone star":             "d2",
		"mountain east":         "d2",
		"northeast-10":          "d2",
		"pacwest":               "d2",
		"peach belt":            "d2",
		"psac":                  "d2",
		"rmac":                  "d2",
		"south atlantic":        "d2",
		"sunshine state":        "d2",
		// Division III
		"american rivers":     "d3",
		"centennial":          "d3",
		"empire 8":            "d3",
		"heartland":           "d3",
		"landmark":            "d3",
		"liberty league":      "d3",
		"little east":         "d3",
		"mac commonwealth":    "d3",
		"miac":                "d3",
		"nescac":              "d3",
		"njac":                "d3",
		"north coast":         "d3",
		"northwest":           "d3",
		"oac":                 "d3",
		"odac":                "d3",
		"saa":                 "d3",
		"sciac":               "d3",
		"skyline":             "d3",
		"sunyac":              "d3",
		"uaa":                 "d3",
		"usa south":           "d3",
		"wiac":                "d3",
		// NAIA
		"cascade":       "naia",
		"crossroads":    "naia",
		"frontier":      "naia",
		"golden state":  "naia",
		"heart of america": "naia",
		"kcac":          "naia",
		"mid-south":     "naia",
		"river states":  "naia",
		"sooner":        "naia",
		"the sun":       "naia",
	})
}
