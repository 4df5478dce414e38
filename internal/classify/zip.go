package classify

import (
	"strings"

	"github.com/brady-data/crimegun-cli/internal/model"
	"github.com/brady-data/crimegun-cli/internal/patterns"
)

// ZIPExtractor runs last in the chain: once the city has resolved to
// Wilmington, it maps narrative street mentions to a ZIP code, falling back
// to the city's default ZIP.
type ZIPExtractor struct{}

func (ZIPExtractor) Name() string { return "zip-inference" }

func (ZIPExtractor) Extract(rec model.Record, cur model.LocationResult) *model.PartialLocation {
	if !strings.EqualFold(cur.City, "Wilmington") {
		return nil
	}
	narrative := rec.Text("case_summary", "facts_narrative", "narrative")
	zip, method := patterns.InferWilmingtonZIP(narrative, cur.City)
	return &model.PartialLocation{
		ZIP:        zip,
		Confidence: model.ConfidenceLow,
		Method:     "ZIP inference: " + method,
	}
}
