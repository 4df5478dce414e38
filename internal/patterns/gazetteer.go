package patterns

import (
	"regexp"
	"strings"
)

// DelawareCities and PennsylvaniaCities are the gazetteer lists scanned for
// narrative city mentions, in scan order. A Delaware hit wins over a
// Pennsylvania hit regardless of position in the text.
var (
	DelawareCities = []string{
		"Wilmington", "Dover", "Newark", "New Castle", "Middletown",
		"Smyrna", "Milford", "Seaford", "Georgetown",
	}
	PennsylvaniaCities = []string{
		"Philadelphia", "Pittsburgh", "Harrisburg", "Allentown",
		"Erie", "Reading", "Scranton", "Bethlehem",
	}
)

// CityMatch is a gazetteer hit: the canonical city name and its state.
type CityMatch struct {
	City  string
	State string
}

// MatchCity scans narrative text for a known Delaware or Pennsylvania city.
// Matching is case-insensitive substring containment; Delaware cities are
// checked before Pennsylvania cities.
func MatchCity(text string) *CityMatch {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	for _, c := range DelawareCities {
		if strings.Contains(lower, strings.ToLower(c)) {
			return &CityMatch{City: c, State: "DE"}
		}
	}
	for _, c := range PennsylvaniaCities {
		if strings.Contains(lower, strings.ToLower(c)) {
			return &CityMatch{City: c, State: "PA"}
		}
	}
	return nil
}

// pdRe captures up to two words preceding a police department token so the
// agency's city can be inferred from its name.
var pdRe = regexp.MustCompile(`(?i)(\w+(?:\s+\w+)?)\s+(?:Police Department|Police|PD)`)

// pdStopWords are leading captures that are not city names.
var pdStopWords = map[string]bool{"the": true, "city": true, "local": true}

// PDMatch is a police department mention: the full matched agency text and
// the inferred city, when the leading words look like a city name.
type PDMatch struct {
	Department string
	City       string
}

// MatchPoliceDept finds the first police department mention in narrative
// text. The City field is empty when the words before the department token
// are generic ("the Police", "local PD").
func MatchPoliceDept(text string) *PDMatch {
	m := pdRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	match := &PDMatch{Department: m[0]}
	city := strings.TrimSpace(m[1])
	if !pdStopWords[strings.ToLower(city)] {
		match.City = city
	}
	return match
}

// streetRe matches intersection-style street addresses ("4th and Market
// Street", "700 N. 5th and W. Pine Ave"). In Delaware narratives this format
// is characteristic of Wilmington incident reports.
var streetRe = regexp.MustCompile(`(?i)(\d+\s+)?([NSEW]\.?\s+)?\d+(?:st|nd|rd|th)?\s+(?:and|&)\s+[NSEW]?\.?\s*\w+\s+(?:Street|St|Avenue|Ave)`)

// MatchStreetAddress reports whether narrative text contains an
// intersection-style street address.
func MatchStreetAddress(text string) bool {
	return text != "" && streetRe.MatchString(text)
}

// DefaultWilmingtonZIP is used when no street or neighborhood rule matches.
const DefaultWilmingtonZIP = "19801"

type zipRule struct {
	zip      string
	streets  []string
	patterns []*regexp.Regexp
}

// wilmingtonZIPRules maps Wilmington street names and neighborhood phrases
// to ZIP codes. Rules are checked in declared order and the first hit wins.
// Street entries are lower-case substrings; patterns are lower-case regexes.
var wilmingtonZIPRules = []zipRule{
	{
		// Downtown, West Side, Center City.
		zip: "19801",
		streets: []string{
			"market st", "king st", "walnut st", "french st", "shipley st",
			"orange st", "tatnall st", "west st", "adams st",
			"w. 2nd", "w. 3rd", "w. 4th", "w. 5th", "w. 6th", "w. 7th",
			"w. 8th", "w. 9th", "w 2nd", "w 3rd", "w 4th", "w 5th", "w 6th",
			"w 7th", "w 8th", "w 9th", "west 2nd", "west 3rd", "west 4th",
			"west 5th", "west 6th", "west 7th", "west 8th", "west 9th",
			"s. walnut", "s walnut", "south walnut",
			"s. market", "s market", "south market",
			"rodney square", "wilmington train", "amtrak",
		},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b[1-9]00\s+block\s+of\s+(market|king|walnut|french)`),
			regexp.MustCompile(`\bdowntown\b`),
		},
	},
	{
		// East Side, Northeast, Riverside.
		zip: "19802",
		streets: []string{
			"e. 2nd", "e. 3rd", "e. 4th", "e. 5th", "e. 6th", "e. 7th",
			"e. 8th", "e. 9th", "e. 10th", "e. 11th", "e. 12th", "e. 13th",
			"e. 14th", "e. 15th", "e. 16th", "e. 17th", "e. 18th",
			"e 2nd", "e 3rd", "e 4th", "e 5th", "e 6th", "e 7th",
			"e 8th", "e 9th", "e 10th", "e 11th", "e 12th", "e 13th",
			"east 2nd", "east 3rd", "east 4th", "east 5th", "east 6th",
			"east 7th", "east 8th", "east 9th", "east 10th", "east 11th",
			"east 12th", "east 13th", "east 14th", "east 15th", "east 16th",
			"n. pine", "n pine", "north pine", "pine st",
			"n. van buren", "n van buren", "van buren",
			"n. madison", "n madison", "madison st",
			"n. jackson", "n jackson", "jackson st",
			"n. monroe", "n monroe", "monroe st",
			"n. jefferson", "n jefferson",
			"n. washington", "n washington",
			"n. dupont", "n dupont", "north dupont",
			"north park", "northeast blvd", "governor printz",
			"edgemoor", "claymont",
			"riverside", "brandywine",
			"s. van buren", "s van buren", "south van buren",
			"sycamore",
		},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\beast\s+side\b`),
			regexp.MustCompile(`\bnortheast\b`),
			regexp.MustCompile(`\briverside\b`),
		},
	},
	{
		// Prices Corner, Southwest.
		zip: "19805",
		streets: []string{
			"kirkwood hwy", "kirkwood highway", "prices corner",
			"greenbank", "elsmere",
		},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bprices\s+corner\b`),
			regexp.MustCompile(`\bsouthwest\b`),
		},
	},
	{
		// Trolley Square, Northwest, Highlands.
		zip: "19806",
		streets: []string{
			"w. 18th", "w. 19th", "w. 20th", "w. 21st", "w. 22nd",
			"w. 23rd", "w. 24th", "w. 25th", "w. 26th", "w. 27th",
			"w. 28th", "w. 29th", "w. 30th", "w. 31st", "w. 32nd",
			"w. 33rd", "w. 34th", "w. 35th", "w. 36th", "w. 37th",
			"w 18th", "w 19th", "w 20th", "w 21st", "w 22nd",
			"w 23rd", "w 24th", "w 25th", "w 26th", "w 27th",
			"w 28th", "w 29th", "w 30th", "w 31st", "w 32nd",
			"w 33rd", "w 34th", "w 35th", "w 36th", "w 37th",
			"west 18th", "west 19th", "west 20th", "west 21st",
			"delaware ave", "lovering ave", "pennsylvania ave",
			"baynard blvd", "trolley square", "wawaset",
			"highlands", "rockford park",
		},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\btrolley\s+square\b`),
			regexp.MustCompile(`\bhighlands\b`),
			regexp.MustCompile(`\bnorthwest\b`),
		},
	},
}

// InferWilmingtonZIP maps a Wilmington incident narrative to a ZIP code
// using the street and neighborhood rules. Returns the ZIP and a method
// description for the audit trail. Falls back to DefaultWilmingtonZIP when
// the narrative is empty, the city is not Wilmington, or nothing matches.
func InferWilmingtonZIP(narrative, city string) (zip, method string) {
	if narrative == "" || !strings.EqualFold(city, "Wilmington") {
		return DefaultWilmingtonZIP, "Default (no narrative or non-Wilmington)"
	}
	lower := strings.ToLower(narrative)
	for _, rule := range wilmingtonZIPRules {
		for _, street := range rule.streets {
			if strings.Contains(lower, street) {
				return rule.zip, "Street match: " + street
			}
		}
		for _, re := range rule.patterns {
			if re.MatchString(lower) {
				return rule.zip, "Pattern match: " + re.String()
			}
		}
	}
	return DefaultWilmingtonZIP, "Default (no street match)"
}
