package classify

import (
	"github.com/brady-data/crimegun-cli/internal/model"
	"github.com/brady-data/crimegun-cli/internal/patterns"
)

// CaseRefExtractor resolves state and court from a case reference: federal
// district court citations first, then state court-code prefixes.
type CaseRefExtractor struct{}

func (CaseRefExtractor) Name() string { return "case-reference" }

func (CaseRefExtractor) Extract(rec model.Record, _ model.LocationResult) *model.PartialLocation {
	text := rec.Text("case_number", "case_reference", "case_name")
	if text == "" {
		return nil
	}

	if m := patterns.MatchFederalCourt(text); m != nil {
		return &model.PartialLocation{
			State:      m.State,
			Court:      m.Court,
			Confidence: model.ConfidenceMedium,
			Method:     "Parsed court from case reference: " + m.Court,
		}
	}

	if court, prefix := patterns.LookupCourtPrefix(text); court != "" {
		return &model.PartialLocation{
			Court:      court,
			Confidence: model.ConfidenceMedium,
			Method:     "Case prefix " + prefix + " maps to " + court,
		}
	}
	return nil
}
