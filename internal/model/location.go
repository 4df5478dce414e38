package model

// Confidence is the coarse trust tier attached to an inferred location,
// reflecting how direct vs. inferential the supporting evidence was.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
	ConfidenceNone   Confidence = "NONE"
)

// NoIndicatorsReasoning is the sentinel reasoning string used when no
// extractor produced any field for a record.
const NoIndicatorsReasoning = "No location indicators found in record"

// PartialLocation is one extractor's contribution for a single record:
// whichever location fields it could determine, the confidence of its
// evidence, and a human-readable method description for the audit trail.
type PartialLocation struct {
	State            string
	City             string
	ZIP              string
	Court            string
	PoliceDept       string
	SouthwestBorder  bool
	DomesticViolence bool
	Confidence       Confidence
	Method           string
}

// Empty reports whether the partial carries no location fields at all.
func (p *PartialLocation) Empty() bool {
	return p.State == "" && p.City == "" && p.ZIP == "" &&
		p.Court == "" && p.PoliceDept == "" &&
		!p.SouthwestBorder && !p.DomesticViolence
}

// LocationResult is the final classification for one record: the merged
// output of the extractor priority chain.
type LocationResult struct {
	RecordID         int64      `json:"record_id"`
	State            string     `json:"crime_location_state,omitempty"`
	City             string     `json:"crime_location_city,omitempty"`
	ZIP              string     `json:"crime_location_zip,omitempty"`
	Court            string     `json:"crime_location_court,omitempty"`
	PoliceDept       string     `json:"crime_location_pd,omitempty"`
	Reasoning        string     `json:"crime_location_reasoning"`
	Confidence       Confidence `json:"confidence"`
	SouthwestBorder  bool       `json:"is_southwest_border,omitempty"`
	DomesticViolence bool       `json:"is_domestic_violence,omitempty"`
}
