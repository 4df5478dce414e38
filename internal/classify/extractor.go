// Package classify infers the jurisdiction of a crime-gun record from its
// text fields. A fixed priority chain of extractors each contributes partial
// location fields; the Resolver merges them with non-overwrite semantics
// into a single LocationResult.
package classify

import (
	"github.com/brady-data/crimegun-cli/internal/model"
)

// Extractor derives partial location fields from one record. cur is the
// result merged so far from higher-priority extractors, for extractors whose
// applicability depends on already-resolved fields. Returns nil when the
// record carries no signal for this extractor; that is normal control flow,
// never an error.
type Extractor interface {
	Name() string
	Extract(rec model.Record, cur model.LocationResult) *model.PartialLocation
}

// DefaultChain returns the extractors in resolver priority order, highest
// first. Dataset-level defaults outrank all text-derived signals; explicit
// recovery mentions outrank narrative inference; ZIP inference runs last
// since it needs a resolved city.
func DefaultChain() []Extractor {
	return []Extractor{
		DatasetExtractor{},
		CaseRefExtractor{},
		FlowExtractor{},
		RecoveryExtractor{},
		NarrativeExtractor{},
		ZIPExtractor{},
	}
}
