package classify

import (
	"github.com/brady-data/crimegun-cli/internal/model"
	"github.com/brady-data/crimegun-cli/internal/patterns"
)

// FlowExtractor resolves state from trafficking flow notation in the case
// subject. The destination is treated as the crime-occurred state: guns flow
// from a source-of-sale state to the state where the crime happens. An SWB
// destination sets the southwest-border flag instead of a state.
type FlowExtractor struct{}

func (FlowExtractor) Name() string { return "trafficking-flow" }

func (FlowExtractor) Extract(rec model.Record, _ model.LocationResult) *model.PartialLocation {
	f := patterns.ParseTraffickingFlow(rec.Text("case_subject"))
	if f == nil {
		return nil
	}

	p := &model.PartialLocation{DomesticViolence: f.DV}
	switch {
	case f.SWB:
		p.SouthwestBorder = true
		p.Confidence = model.ConfidenceMedium
		p.Method = "Trafficking flow terminates at southwest border: " + f.Matched
	case f.Dest != "":
		p.State = f.Dest
		p.Confidence = model.ConfidenceMedium
		p.Method = "Trafficking flow destination: " + f.Matched
	default:
		// DV indicator with no flow notation.
		p.Confidence = model.ConfidenceLow
		p.Method = "Domestic violence indicator in case subject"
	}
	return p
}
