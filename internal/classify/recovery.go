package classify

import (
	"github.com/brady-data/crimegun-cli/internal/model"
	"github.com/brady-data/crimegun-cli/internal/patterns"
)

// RecoveryExtractor resolves city and state from the explicit recovery
// location field. When multiple pairs are listed the first is authoritative.
// Highest confidence of the text-derived extractors: this is a structured
// mention, not an inference.
type RecoveryExtractor struct{}

func (RecoveryExtractor) Name() string { return "recovery-location" }

func (RecoveryExtractor) Extract(rec model.Record, _ model.LocationResult) *model.PartialLocation {
	pairs := patterns.ParseRecoveryLocations(rec.Text("recovery_locations", "recovery_location"))
	if len(pairs) == 0 {
		return nil
	}

	first := pairs[0]
	method := "Explicit recovery location: " + first.State
	if first.City != "" {
		method = "Explicit recovery location: " + first.City + ", " + first.State
	}
	return &model.PartialLocation{
		State:      first.State,
		City:       first.City,
		Confidence: model.ConfidenceHigh,
		Method:     method,
	}
}
