// Package patterns holds the stateless text matchers and lookup tables used
// by the jurisdiction extractors: federal court citations, Delaware case
// number prefixes, trafficking flow notation, recovery location lists, city
// and police department gazetteers, and scalar token parsing. All matchers
// are pure functions over a single text fragment; nil or empty input is a
// non-match, never an error.
package patterns

import (
	"regexp"
	"strings"
)

// CourtMatch is the result of a federal court citation match.
type CourtMatch struct {
	State string // 2-letter state code
	Court string // full court name
}

type courtPattern struct {
	re    *regexp.Regexp
	state string
	court string
}

// federalCourtPatterns maps citation abbreviations to (state, court name).
// Order matters: multi-token district abbreviations are declared before
// shorter ones so prefix collisions resolve to the more specific pattern.
// Matching is a first-match scan in declared order.
var federalCourtPatterns = []courtPattern{
	{regexp.MustCompile(`(?i)D\.\s*Del\.?`), "DE", "District of Delaware"},
	{regexp.MustCompile(`(?i)E\.D\.\s*Pa\.?`), "PA", "Eastern District of Pennsylvania"},
	{regexp.MustCompile(`(?i)W\.D\.\s*Pa\.?`), "PA", "Western District of Pennsylvania"},
	{regexp.MustCompile(`(?i)M\.D\.\s*Pa\.?`), "PA", "Middle District of Pennsylvania"},
	{regexp.MustCompile(`(?i)S\.D\.N\.Y\.?`), "NY", "Southern District of New York"},
	{regexp.MustCompile(`(?i)E\.D\.N\.Y\.?`), "NY", "Eastern District of New York"},
	{regexp.MustCompile(`(?i)N\.D\.N\.Y\.?`), "NY", "Northern District of New York"},
	{regexp.MustCompile(`(?i)W\.D\.N\.Y\.?`), "NY", "Western District of New York"},
	{regexp.MustCompile(`(?i)D\.N\.J\.?`), "NJ", "District of New Jersey"},
	{regexp.MustCompile(`(?i)D\.\s*Alaska`), "AK", "District of Alaska"},
	{regexp.MustCompile(`(?i)N\.D\.\s*Ill\.?`), "IL", "Northern District of Illinois"},
	{regexp.MustCompile(`(?i)C\.D\.\s*Ill\.?`), "IL", "Central District of Illinois"},
	{regexp.MustCompile(`(?i)S\.D\.\s*Ill\.?`), "IL", "Southern District of Illinois"},
	{regexp.MustCompile(`(?i)C\.D\.\s*Cal\.?`), "CA", "Central District of California"},
	{regexp.MustCompile(`(?i)N\.D\.\s*Cal\.?`), "CA", "Northern District of California"},
	{regexp.MustCompile(`(?i)S\.D\.\s*Cal\.?`), "CA", "Southern District of California"},
	{regexp.MustCompile(`(?i)E\.D\.\s*Cal\.?`), "CA", "Eastern District of California"},
	{regexp.MustCompile(`(?i)D\.D\.C\.?`), "DC", "District Court for the District of Columbia"},
	{regexp.MustCompile(`(?i)D\.\s*Ariz\.?`), "AZ", "District of Arizona"},
	{regexp.MustCompile(`(?i)D\.\s*Nev\.?`), "NV", "District of Nevada"},
	{regexp.MustCompile(`(?i)D\.\s*Md\.?`), "MD", "District of Maryland"},
	{regexp.MustCompile(`(?i)D\.\s*Mass\.?`), "MA", "District of Massachusetts"},
}

// MatchFederalCourt scans a case reference for a federal district court
// citation. Returns the first matching pattern in declared order, or nil.
func MatchFederalCourt(text string) *CourtMatch {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for _, p := range federalCourtPatterns {
		if p.re.MatchString(text) {
			return &CourtMatch{State: p.state, Court: p.court}
		}
	}
	return nil
}

// courtPrefixes maps Delaware case number prefixes (the XX in XX-YY-NNNNNN)
// to court names.
var courtPrefixes = map[string]string{
	"10": "Delaware Supreme Court",
	"19": "Delaware Family Court",
	"30": "Delaware Superior Court",
	"31": "Court of Common Pleas",
}

var (
	casePrefixRe = regexp.MustCompile(`^(\d{2})-`)
	caseNumberRe = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d+)$`)
	caseYearRe   = regexp.MustCompile(`^\d{2}-(\d{2})-\d+$`)
)

// LookupCourtPrefix returns the court for a case number like "30-23-063056"
// based on its 2-digit prefix, along with the prefix itself. Returns
// ("", "") when the text has no recognized prefix.
func LookupCourtPrefix(caseNumber string) (court, prefix string) {
	caseNumber = strings.TrimSpace(caseNumber)
	if caseNumber == "" {
		return "", ""
	}
	m := casePrefixRe.FindStringSubmatch(caseNumber)
	if m == nil {
		return "", ""
	}
	return courtPrefixes[m[1]], m[1]
}

// NormalizeCaseNumber normalizes a Delaware case number to XX-YY-NNNNNN,
// stripping whitespace and zero-padding the sequence to 6 digits.
// Returns "" when the input does not fit the expected shape.
func NormalizeCaseNumber(caseNumber string) string {
	caseNumber = strings.TrimSpace(caseNumber)
	if caseNumber == "" {
		return ""
	}
	m := caseNumberRe.FindStringSubmatch(caseNumber)
	if m == nil {
		// Retry with embedded whitespace removed ("30 -23- 063056").
		compact := strings.Join(strings.Fields(caseNumber), "")
		m = caseNumberRe.FindStringSubmatch(compact)
		if m == nil {
			return ""
		}
	}
	seq := m[3]
	for len(seq) < 6 {
		seq = "0" + seq
	}
	return m[1] + "-" + m[2] + "-" + seq
}

// CaseYear extracts the filing year from a case number's middle segment.
// Returns 0 when the case number is not in the expected format.
// TODO: bump the century cutoff when 2027+ case numbers start appearing.
func CaseYear(caseNumber string) int {
	m := caseYearRe.FindStringSubmatch(strings.TrimSpace(caseNumber))
	if m == nil {
		return 0
	}
	suffix := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	if suffix <= 26 {
		return 2000 + suffix
	}
	return 1900 + suffix
}
