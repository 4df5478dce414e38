package classify

import (
	"strings"

	"github.com/brady-data/crimegun-cli/internal/model"
	"github.com/brady-data/crimegun-cli/internal/patterns"
)

// NarrativeExtractor mines the long narrative field: known city mentions,
// police department names (whose leading words can imply a city), and
// street-address shapes that imply Wilmington for Delaware records. This is
// pattern matching over prose, so it is the lowest-trust extractor in the
// chain: LOW unless an actual city match was found.
type NarrativeExtractor struct{}

func (NarrativeExtractor) Name() string { return "narrative" }

func (NarrativeExtractor) Extract(rec model.Record, cur model.LocationResult) *model.PartialLocation {
	text := rec.Text("case_summary", "facts_narrative", "narrative")
	if text == "" {
		return nil
	}

	p := &model.PartialLocation{Confidence: model.ConfidenceLow}
	var methods []string

	if cm := patterns.MatchCity(text); cm != nil {
		p.City = cm.City
		p.State = cm.State
		p.Confidence = model.ConfidenceMedium
		methods = append(methods, "City '"+cm.City+"' found in narrative")
	}

	if pdm := patterns.MatchPoliceDept(text); pdm != nil {
		p.PoliceDept = pdm.Department
		methods = append(methods, "Police dept found: "+pdm.Department)
		if p.City == "" && pdm.City != "" {
			p.City = pdm.City
			methods = append(methods, "City inferred from PD: "+pdm.City)
		}
	}

	if patterns.MatchStreetAddress(text) {
		state := p.State
		if state == "" {
			state = cur.State
		}
		if state == "DE" && p.City == "" && cur.City == "" {
			p.City = "Wilmington"
			methods = append(methods, "Street address format typical of Wilmington")
		}
	}

	if len(methods) == 0 {
		return nil
	}
	p.Method = strings.Join(methods, "; ")
	return p
}
