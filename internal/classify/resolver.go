package classify

import (
	"strings"

	"go.uber.org/zap"

	"github.com/brady-data/crimegun-cli/internal/model"
)

// Resolver merges extractor outputs into one LocationResult per record.
// Merge semantics are strict priority with non-overwrite: the first
// extractor to set a field owns it, later extractors only fill gaps.
// The final confidence label is the one attached to the state assignment;
// when no extractor sets a state, the first extractor to contribute
// anything determines it. Boolean flags are OR-merged.
type Resolver struct {
	chain []Extractor
}

// NewResolver builds a Resolver over the default extractor chain.
func NewResolver() *Resolver {
	return &Resolver{chain: DefaultChain()}
}

// NewResolverWithChain builds a Resolver over a custom extractor order.
func NewResolverWithChain(chain []Extractor) *Resolver {
	return &Resolver{chain: chain}
}

// Classify runs the extractor chain over one record. Missing or empty
// fields are no-signal, never errors; a record with no indicators at all
// yields the sentinel reasoning at LOW confidence. Output is deterministic
// for a given record and chain.
func (r *Resolver) Classify(rec model.Record) model.LocationResult {
	res := model.LocationResult{RecordID: rec.ID(), Confidence: model.ConfidenceNone}

	var reasons []string
	var stateConf, firstConf model.Confidence

	for _, ex := range r.chain {
		p := ex.Extract(rec, res)
		if p == nil || p.Empty() {
			continue
		}
		if res.State == "" && p.State != "" {
			res.State = p.State
			stateConf = p.Confidence
		}
		if res.City == "" && p.City != "" {
			res.City = p.City
		}
		if res.ZIP == "" && p.ZIP != "" {
			res.ZIP = p.ZIP
		}
		if res.Court == "" && p.Court != "" {
			res.Court = p.Court
		}
		if res.PoliceDept == "" && p.PoliceDept != "" {
			res.PoliceDept = p.PoliceDept
		}
		if p.SouthwestBorder {
			res.SouthwestBorder = true
		}
		if p.DomesticViolence {
			res.DomesticViolence = true
		}
		if firstConf == "" && p.Confidence != "" {
			firstConf = p.Confidence
		}
		if p.Method != "" {
			reasons = append(reasons, p.Method)
		}
		zap.L().Debug("extractor fired",
			zap.String("extractor", ex.Name()),
			zap.Int64("record_id", res.RecordID),
			zap.String("method", p.Method))
	}

	switch {
	case stateConf != "":
		res.Confidence = stateConf
	case firstConf != "":
		res.Confidence = firstConf
	}

	if len(reasons) == 0 {
		res.Reasoning = model.NoIndicatorsReasoning
		res.Confidence = model.ConfidenceLow
	} else {
		res.Reasoning = strings.Join(reasons, " | ")
	}
	return res
}
