package patterns

import (
	"regexp"
	"strings"
)

// SWBDestination is the sentinel destination for trafficking flows that
// terminate at the southwest border (Mexico) rather than a US state.
const SWBDestination = "SWB"

// Flow is a parsed trafficking flow: guns purchased in Source, recovered
// in Dest. SWB flags a southwest-border destination; DV flags a domestic
// violence indicator in the same field.
type Flow struct {
	Source  string
	Dest    string
	SWB     bool
	DV      bool
	Matched string // the text fragment that matched the arrow notation
}

// flowRe extracts "XX-->YY" style notation. Accepts ->, -->, =>, ==> and
// the literal token TO as arrows, and SWB as destination. The source group
// admits a comma-separated list ("PA, NJ --> NY") so multi-source flows keep
// the full origin list.
var flowRe = regexp.MustCompile(`([A-Z]{2}(?:,\s*[A-Z]{2})*)\s*(?:-{1,2}>|={1,2}>|\bTO\b)\s*(SWB|[A-Z]{2})`)

// dvRe detects the domestic-violence indicator ("DV*" or a bare DV token).
var dvRe = regexp.MustCompile(`\bDV\*?`)

// ParseTraffickingFlow extracts a (source, destination) state pair from
// trafficking flow notation in a case subject line.
//
// Matching runs over the upper-cased text, which deliberately reproduces the
// source data convention: coded fields only ever contain literal "XX-->YY"
// notation, but when applied to narrative prose the upper-casing lets the
// matcher pick up 2-letter substrings inside ordinary words ("Alaska to
// California" yields source "KA"). That behavior is exercised by the test
// suite and kept as-is; callers that cannot tolerate it should not feed
// narrative text to this matcher.
func ParseTraffickingFlow(text string) *Flow {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	upper := strings.ToUpper(text)
	dv := dvRe.MatchString(upper)

	m := flowRe.FindStringSubmatch(upper)
	if m == nil {
		if dv {
			return &Flow{DV: true}
		}
		return nil
	}
	f := &Flow{Source: m[1], Dest: m[2], DV: dv, Matched: m[0]}
	if f.Dest == SWBDestination {
		f.SWB = true
	}
	return f
}
