package ingest

import (
	"strings"

	"go.uber.org/zap"

	"github.com/brady-data/crimegun-cli/internal/model"
	"github.com/brady-data/crimegun-cli/internal/patterns"
)

// DealerDBDataset is the source_dataset value for dealer database imports.
const DealerDBDataset = "CRIME_GUN_DB"

// skipSheets are workbook tabs that carry no event rows.
var skipSheets = map[string]bool{
	"Sheet7":    true,
	"Backdated": true,
}

// SheetStat counts the events kept from one sheet.
type SheetStat struct {
	Sheet  string `json:"sheet" yaml:"sheet"`
	Events int    `json:"events" yaml:"events"`
}

// DealerDBResult reports a dealer database load.
type DealerDBResult struct {
	Events      []model.Event `json:"-" yaml:"-"`
	Sheets      []SheetStat   `json:"sheets" yaml:"sheets"`
	SkippedRows int           `json:"skipped_rows" yaml:"skipped_rows"`
}

// LoadDealerDB reads a crime-gun dealer database workbook and transforms
// every data row into the unified event schema. Rows without a usable FFL
// name (blank or the "?" placeholder) are dropped.
func LoadDealerDB(path string) (*DealerDBResult, error) {
	wb, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}

	res := &DealerDBResult{}
	for _, name := range wb.SheetNames() {
		if skipSheets[name] {
			zap.L().Debug("skipping sheet", zap.String("sheet", name))
			continue
		}

		rows, err := wb.SheetRows(name)
		if err != nil {
			return nil, err
		}
		if len(rows) < 2 {
			continue
		}

		header := newHeaderMap(rows[0])
		kept := 0
		for i, row := range rows[1:] {
			// First data row is source row 2, matching spreadsheet numbering.
			ev := transformDealerRow(header, row, name, i+2)
			if ev == nil {
				res.SkippedRows++
				continue
			}
			res.Events = append(res.Events, *ev)
			kept++
		}
		res.Sheets = append(res.Sheets, SheetStat{Sheet: name, Events: kept})
		zap.L().Info("sheet processed", zap.String("sheet", name), zap.Int("events", kept))
	}
	return res, nil
}

// headerMap resolves cells by exact column name or by a name fragment, so
// the verbose multi-line headers in the source workbook still match.
type headerMap struct {
	cols []string
}

func newHeaderMap(header []string) headerMap {
	return headerMap{cols: header}
}

func (h headerMap) cell(row []string, name string) string {
	for i, col := range h.cols {
		if col == name && i < len(row) {
			return strings.TrimSpace(row[i])
		}
	}
	return ""
}

func (h headerMap) cellByFragment(row []string, fragments ...string) string {
	for i, col := range h.cols {
		for _, frag := range fragments {
			if strings.Contains(strings.ToLower(col), strings.ToLower(frag)) && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
	}
	return ""
}

// CleanFFLName normalizes a dealer name cell. Multi-line cells list "aka"
// aliases under the primary name, so only the first non-empty line is kept.
func CleanFFLName(name string) string {
	for _, line := range strings.Split(name, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			return line
		}
	}
	return ""
}

func transformDealerRow(h headerMap, row []string, sheet string, sourceRow int) *model.Event {
	ffl := CleanFFLName(h.cell(row, "FFL"))
	if ffl == "" || ffl == "?" {
		return nil
	}

	caseSubject := h.cellByFragment(row, "case subject")
	recovery := h.cellByFragment(row, "location(s) of recovery")
	flow := patterns.ParseTraffickingFlow(caseSubject)

	ev := &model.Event{
		SourceDataset:     DealerDBDataset,
		SourceSheet:       sheet,
		SourceRow:         sourceRow,
		DealerName:        ffl,
		DealerCity:        h.cell(row, "City"),
		DealerState:       strings.ToUpper(h.cell(row, "State")),
		DealerFFL:         h.cell(row, "license number"),
		CaseName:          h.cell(row, "Case"),
		CaseSubject:       caseSubject,
		RecoveryLocations: recovery,
		FactsNarrative:    h.cell(row, "Facts"),
		InDL2Program:      patterns.ParseBool(h.cell(row, "2022/23/24 DL2 FFL?")),
		IsTopTraceFFL:     patterns.ParseBool(h.cell(row, "Top trace FFL?")),
		IsRevoked:         patterns.ParseBool(h.cell(row, "Revoked FFL?")),
		IsChargedSued:     patterns.ParseBool(h.cell(row, "FFL charged/sued?")),
		TimeToCrime:       patterns.ParseTimeToCrime(h.cellByFragment(row, "time-to-recovery", "time-to-crime")),
	}

	if flow != nil {
		ev.TraffickingOrigin = flow.Source
		ev.TraffickingDest = flow.Dest
		ev.SouthwestBorder = flow.SWB
		ev.DomesticViolence = flow.DV
	}

	ev.JurisdictionState, ev.JurisdictionCity, ev.JurisdictionMethod, ev.JurisdictionConfidence =
		resolveJurisdiction(h, row, sheet, recovery, flow)
	return ev
}

// resolveJurisdiction walks the ingest-time priority chain: explicit
// recovery location, federal court citation, trafficking destination,
// sheet default, then the dealer's own state as a weak fallback.
func resolveJurisdiction(h headerMap, row []string, sheet, recovery string, flow *patterns.Flow) (state, city, method string, conf model.Confidence) {
	if locs := patterns.ParseRecoveryLocations(recovery); len(locs) > 0 {
		return locs[0].State, locs[0].City, "RECOVERY", model.ConfidenceHigh
	}

	if m := patterns.MatchFederalCourt(h.cell(row, "Case")); m != nil {
		return m.State, "", "COURT", model.ConfidenceMedium
	}

	if flow != nil && !flow.SWB && flow.Dest != "" {
		return flow.Dest, "", "TRAFFICKING", model.ConfidenceMedium
	}

	if strings.Contains(sheet, "Philadelphia") {
		return "PA", "Philadelphia", "SHEET_DEFAULT", model.ConfidenceMedium
	}
	if strings.Contains(sheet, "Rochester") {
		return "NY", "Rochester", "SHEET_DEFAULT", model.ConfidenceMedium
	}

	if ds := strings.ToUpper(h.cell(row, "State")); ds != "" {
		return ds, "", "DEALER_STATE", model.ConfidenceLow
	}
	return "", "", "UNKNOWN", model.ConfidenceNone
}
