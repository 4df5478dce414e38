package model

// Event is one row of the unified crime-gun event schema, as produced by
// the ingestion pipeline before classification.
type Event struct {
	SourceDataset string `json:"source_dataset"`
	SourceSheet   string `json:"source_sheet,omitempty"`
	SourceRow     int    `json:"source_row,omitempty"`

	// Jurisdiction determined at ingest time by the resolver chain.
	JurisdictionState      string     `json:"jurisdiction_state,omitempty"`
	JurisdictionCity       string     `json:"jurisdiction_city,omitempty"`
	JurisdictionMethod     string     `json:"jurisdiction_method,omitempty"`
	JurisdictionConfidence Confidence `json:"jurisdiction_confidence,omitempty"`

	// Dealer (FFL) identity.
	DealerName  string `json:"dealer_name,omitempty"`
	DealerCity  string `json:"dealer_city,omitempty"`
	DealerState string `json:"dealer_state,omitempty"`
	DealerFFL   string `json:"dealer_ffl,omitempty"`

	// Case fields.
	CaseName    string `json:"case_name,omitempty"`
	CaseNumber  string `json:"case_number,omitempty"`
	CaseSubject string `json:"case_subject,omitempty"`
	CaseSummary string `json:"case_summary,omitempty"`

	// Raw recovery and narrative text, kept for re-classification.
	RecoveryLocations string `json:"recovery_locations,omitempty"`
	FactsNarrative    string `json:"facts_narrative,omitempty"`

	// Trafficking flow.
	TraffickingOrigin string `json:"trafficking_origin,omitempty"`
	TraffickingDest   string `json:"trafficking_destination,omitempty"`
	SouthwestBorder   bool   `json:"is_southwest_border,omitempty"`
	DomesticViolence  bool   `json:"is_domestic_violence,omitempty"`

	// FFL risk indicators. Nil means the source cell was blank or unknown.
	InDL2Program  *bool `json:"in_dl2_program,omitempty"`
	IsTopTraceFFL *bool `json:"is_top_trace_ffl,omitempty"`
	IsRevoked     *bool `json:"is_revoked,omitempty"`
	IsChargedSued *bool `json:"is_charged_or_sued,omitempty"`

	// Elapsed days between purchase and recovery, when parseable.
	TimeToCrime *int `json:"time_to_crime,omitempty"`
}
