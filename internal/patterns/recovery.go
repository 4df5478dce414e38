package patterns

import (
	"regexp"
	"strings"
)

// CityState is one "City, ST" pair extracted from recovery location text.
// City may be empty when only a state could be determined.
type CityState struct {
	City  string
	State string
}

// recoveryRe extracts "City, ST" pairs, optionally prefixed by a list
// numeral ("1. ") and optionally followed by a parenthetical aside. City
// names may contain hyphens, apostrophes, and periods ("Winston-Salem, NC",
// "St. Louis, MO"). The state code must be followed by whitespace, a
// semicolon, a closing paren, or end of text so that codes embedded in
// longer words are not picked up.
var recoveryRe = regexp.MustCompile(`(?:\d+\.\s*)?([A-Za-z][A-Za-z\s.\-']+?),\s*([A-Z]{2})(?:[\s;)]|$)`)

// ValidStates is the set of recognized 2-letter state and territory codes.
var ValidStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true,
	"CO": true, "CT": true, "DE": true, "FL": true, "GA": true,
	"HI": true, "ID": true, "IL": true, "IN": true, "IA": true,
	"KS": true, "KY": true, "LA": true, "ME": true, "MD": true,
	"MA": true, "MI": true, "MN": true, "MS": true, "MO": true,
	"MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true,
	"OK": true, "OR": true, "PA": true, "RI": true, "SC": true,
	"SD": true, "TN": true, "TX": true, "UT": true, "VT": true,
	"VA": true, "WA": true, "WV": true, "WI": true, "WY": true,
	"DC": true, "PR": true, "VI": true, "GU": true,
}

// stateNames maps full state names to codes, in declared order so scans are
// deterministic. Used as a fallback when recovery text names a state with
// no city ("California").
var stateNames = []struct {
	Name string
	Code string
}{
	{"Alabama", "AL"}, {"Alaska", "AK"}, {"Arizona", "AZ"}, {"Arkansas", "AR"},
	{"California", "CA"}, {"Colorado", "CO"}, {"Connecticut", "CT"},
	{"Delaware", "DE"}, {"Florida", "FL"}, {"Georgia", "GA"}, {"Hawaii", "HI"},
	{"Idaho", "ID"}, {"Illinois", "IL"}, {"Indiana", "IN"}, {"Iowa", "IA"},
	{"Kansas", "KS"}, {"Kentucky", "KY"}, {"Louisiana", "LA"}, {"Maine", "ME"},
	{"Maryland", "MD"}, {"Massachusetts", "MA"}, {"Michigan", "MI"},
	{"Minnesota", "MN"}, {"Mississippi", "MS"}, {"Missouri", "MO"},
	{"Montana", "MT"}, {"Nebraska", "NE"}, {"Nevada", "NV"},
	{"New Hampshire", "NH"}, {"New Jersey", "NJ"}, {"New Mexico", "NM"},
	{"New York", "NY"}, {"North Carolina", "NC"}, {"North Dakota", "ND"},
	{"Ohio", "OH"}, {"Oklahoma", "OK"}, {"Oregon", "OR"},
	{"Pennsylvania", "PA"}, {"Rhode Island", "RI"}, {"South Carolina", "SC"},
	{"South Dakota", "SD"}, {"Tennessee", "TN"}, {"Texas", "TX"},
	{"Utah", "UT"}, {"Vermont", "VT"}, {"Virginia", "VA"},
	{"Washington", "WA"}, {"West Virginia", "WV"}, {"Wisconsin", "WI"},
	{"Wyoming", "WY"},
}

// ParseRecoveryLocations extracts (city, state) pairs from recovery location
// text in document order. Handles single pairs ("Sacramento, CA"), numbered
// lists, semicolon-separated lists, and parenthetical asides. When the text
// names a full state with no city pair ("California"), a state-only entry
// is returned. Returns nil when nothing matches.
func ParseRecoveryLocations(text string) []CityState {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []CityState
	for _, m := range recoveryRe.FindAllStringSubmatch(text, -1) {
		if !ValidStates[m[2]] {
			continue
		}
		out = append(out, CityState{City: strings.TrimSpace(m[1]), State: m[2]})
	}
	if out != nil {
		return out
	}

	// Fallback: a bare state name with no city pair.
	for _, sn := range stateNames {
		if strings.Contains(strings.ToLower(text), strings.ToLower(sn.Name)) {
			return []CityState{{State: sn.Code}}
		}
	}
	return nil
}
