package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/brady-data/crimegun-cli/internal/model"
	"github.com/brady-data/crimegun-cli/internal/patterns"
)

// ReadEventsCSV reads a unified-schema CSV export into events. Unknown
// columns are ignored so exports with extra analysis columns still load.
func ReadEventsCSV(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read header of %s", path)
	}

	var events []model.Event
	for i := 2; ; i++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: read row %d of %s", i, path)
		}

		ev := model.Event{}
		for j, col := range header {
			if j >= len(row) {
				break
			}
			setEventField(&ev, col, strings.TrimSpace(row[j]))
		}
		if ev.SourceDataset == "" {
			return nil, eris.Errorf("ingest: row %d of %s has no source_dataset", i, path)
		}
		if ev.SourceRow == 0 {
			ev.SourceRow = i
		}
		events = append(events, ev)
	}
	return events, nil
}

func setEventField(ev *model.Event, col, val string) {
	if val == "" {
		return
	}
	switch col {
	case "source_dataset":
		ev.SourceDataset = val
	case "source_sheet", "sheet_name":
		ev.SourceSheet = val
	case "source_row":
		if n, err := strconv.Atoi(val); err == nil {
			ev.SourceRow = n
		}
	case "jurisdiction_state":
		ev.JurisdictionState = val
	case "jurisdiction_city":
		ev.JurisdictionCity = val
	case "jurisdiction_method":
		ev.JurisdictionMethod = val
	case "jurisdiction_confidence":
		ev.JurisdictionConfidence = model.Confidence(val)
	case "dealer_name":
		ev.DealerName = val
	case "dealer_city":
		ev.DealerCity = val
	case "dealer_state":
		ev.DealerState = val
	case "dealer_ffl":
		ev.DealerFFL = val
	case "case_name":
		ev.CaseName = val
	case "case_number":
		ev.CaseNumber = val
	case "case_subject":
		ev.CaseSubject = val
	case "case_summary":
		ev.CaseSummary = val
	case "recovery_locations", "recovery_location":
		ev.RecoveryLocations = val
	case "facts_narrative":
		ev.FactsNarrative = val
	case "trafficking_origin":
		ev.TraffickingOrigin = val
	case "trafficking_destination":
		ev.TraffickingDest = val
	case "is_southwest_border":
		if b := patterns.ParseBool(val); b != nil {
			ev.SouthwestBorder = *b
		}
	case "is_domestic_violence":
		if b := patterns.ParseBool(val); b != nil {
			ev.DomesticViolence = *b
		}
	case "in_dl2_program":
		ev.InDL2Program = patterns.ParseBool(val)
	case "is_top_trace_ffl":
		ev.IsTopTraceFFL = patterns.ParseBool(val)
	case "is_revoked":
		ev.IsRevoked = patterns.ParseBool(val)
	case "is_charged_or_sued":
		ev.IsChargedSued = patterns.ParseBool(val)
	case "time_to_crime":
		ev.TimeToCrime = patterns.ParseTimeToCrime(val)
	}
}
