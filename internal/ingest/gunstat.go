package ingest

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/brady-data/crimegun-cli/internal/model"
	"github.com/brady-data/crimegun-cli/internal/patterns"
)

// GunstatDataset is the source_dataset value for DE Gunstat imports.
const GunstatDataset = "DE_GUNSTAT"

// gunstatSheet is the one tab of the Gunstat workbook that carries events.
const gunstatSheet = "all identified dealers"

var (
	// fflLicenseRe picks the license number out of a multi-line FFL cell
	// ("Cabela's\nNewark, DE\nFFL 8-51-01809").
	fflLicenseRe = regexp.MustCompile(`(?i)FFL\s*(\d+-\d+-\d+)`)

	// fflCityStateRe matches a "City, ST" line inside the FFL cell.
	fflCityStateRe = regexp.MustCompile(`^([^,]+),\s*([A-Z]{2})$`)

	// caseNumberCellRe picks the case number out of a case cell
	// ("Jason Miles\nCase #:30-23-063056").
	caseNumberCellRe = regexp.MustCompile(`(?i)Case\s*[#:]?\s*:?\s*(\d+-\d+-\d+)`)
)

// GunstatResult reports a Gunstat workbook load. CaseYears counts kept
// events by filing year, for rows whose case number carries one.
type GunstatResult struct {
	Events      []model.Event `json:"-" yaml:"-"`
	SkippedRows int           `json:"skipped_rows" yaml:"skipped_rows"`
	CaseYears   map[int]int   `json:"case_years" yaml:"case_years"`
}

// LoadGunstat reads the DE Gunstat workbook and transforms every data row of
// the "all identified dealers" sheet into the unified event schema. Every
// Gunstat row is a Delaware crime, so the ingest-time jurisdiction is fixed
// at DE / Wilmington rather than resolved per row.
func LoadGunstat(path string) (*GunstatResult, error) {
	wb, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}

	rows, err := wb.SheetRows(gunstatSheet)
	if err != nil {
		return nil, err
	}

	res := &GunstatResult{CaseYears: map[int]int{}}
	if len(rows) < 2 {
		return res, nil
	}

	header := newHeaderMap(rows[0])
	for i, row := range rows[1:] {
		// First data row is source row 2, matching spreadsheet numbering.
		ev := transformGunstatRow(header, row, i+2)
		if ev == nil {
			res.SkippedRows++
			continue
		}
		res.Events = append(res.Events, *ev)
		if year := patterns.CaseYear(ev.CaseNumber); year > 0 {
			res.CaseYears[year]++
		}
	}
	zap.L().Info("sheet processed",
		zap.String("sheet", gunstatSheet),
		zap.Int("events", len(res.Events)))
	return res, nil
}

// parseFFLCell splits a multi-line FFL cell into dealer identity fields.
// The first non-empty line is the dealer name; later lines may carry a
// "City, ST" pair and an FFL license number.
func parseFFLCell(text string) (name, city, state, license string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", "", "", ""
	}

	name = lines[0]
	for _, line := range lines[1:] {
		if m := fflLicenseRe.FindStringSubmatch(line); m != nil {
			license = m[1]
			continue
		}
		if m := fflCityStateRe.FindStringSubmatch(line); m != nil {
			city, state = m[1], m[2]
		}
	}
	return name, city, state, license
}

// parseCaseCell splits a case cell into the defendant name (first non-empty
// line) and the case number, wherever it appears.
func parseCaseCell(text string) (defendant, caseNumber string) {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" && defendant == "" {
			defendant = line
		}
	}
	if m := caseNumberCellRe.FindStringSubmatch(text); m != nil {
		caseNumber = m[1]
	}
	return defendant, caseNumber
}

func transformGunstatRow(h headerMap, row []string, sourceRow int) *model.Event {
	// The FFL cell is the unnamed first column.
	var fflCell string
	if len(row) > 0 {
		fflCell = row[0]
	}
	name, city, state, license := parseFFLCell(fflCell)
	defendant, rawCase := parseCaseCell(h.cell(row, "Case"))
	if name == "" && defendant == "" {
		return nil
	}

	caseNumber := patterns.NormalizeCaseNumber(rawCase)
	if caseNumber == "" {
		caseNumber = rawCase
	}

	return &model.Event{
		SourceDataset: GunstatDataset,
		SourceSheet:   gunstatSheet,
		SourceRow:     sourceRow,

		JurisdictionState:      "DE",
		JurisdictionCity:       "Wilmington",
		JurisdictionMethod:     "IMPLICIT",
		JurisdictionConfidence: model.ConfidenceHigh,

		DealerName:  name,
		DealerCity:  city,
		DealerState: strings.ToUpper(state),
		DealerFFL:   license,

		CaseName:    defendant,
		CaseNumber:  caseNumber,
		CaseSummary: h.cellByFragment(row, "gunstat case summary"),
		TimeToCrime: patterns.ParseTimeToCrime(h.cellByFragment(row, "ttr")),
	}
}
