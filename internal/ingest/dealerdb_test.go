package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/brady-data/crimegun-cli/internal/model"
	"github.com/brady-data/crimegun-cli/internal/patterns"
)

var dealerHeader = []string{
	"FFL", "City", "State", "license number",
	"2022/23/24 DL2 FFL?", "Top trace FFL?", "Revoked FFL?", "FFL charged/sued?",
	"Case", "Case subject (trafficking flow etc)", "Location(s) of recovery(ies)",
	"Time-to-recovery", "Facts",
}

func dealerRow(overrides map[string]string) []string {
	row := make([]string, len(dealerHeader))
	row[0] = "Acme Firearms"
	row[1] = "Dover"
	row[2] = "DE"
	for i, col := range dealerHeader {
		if v, ok := overrides[col]; ok {
			row[i] = v
		}
	}
	return row
}

func createWorkbook(t *testing.T, sheets map[string][][]string, order []string) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, name := range order {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range sheets[name] {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "dealers.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestCleanFFLName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Acme Firearms", "Acme Firearms"},
		{"extra whitespace", "  Acme   Firearms  ", "Acme Firearms"},
		{"aka alias dropped", "Acme Firearms\naka Acme Guns LLC", "Acme Firearms"},
		{"leading blank line", "\n Acme Firearms ", "Acme Firearms"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFFLName(tt.in))
		})
	}
}

func TestTransformDealerRow(t *testing.T) {
	h := newHeaderMap(dealerHeader)

	row := dealerRow(map[string]string{
		"license number":       "1-23-456-78-9A-01234",
		"2022/23/24 DL2 FFL?":  "Yes",
		"Top trace FFL?":       "No",
		"Case":                 "US v. Smith, No. 21-cr-100 (D. Del.)",
		"Case subject (trafficking flow etc)": "DE-->PA trafficking ring",
		"Location(s) of recovery(ies)":        "Philadelphia, PA",
		"Time-to-recovery":                    "3 months",
		"Facts":                               "Straw purchase ring.",
	})

	ev := transformDealerRow(h, row, "Philadelphia FFLs", 5)
	require.NotNil(t, ev)

	assert.Equal(t, DealerDBDataset, ev.SourceDataset)
	assert.Equal(t, "Philadelphia FFLs", ev.SourceSheet)
	assert.Equal(t, 5, ev.SourceRow)
	assert.Equal(t, "Acme Firearms", ev.DealerName)
	assert.Equal(t, "DE", ev.DealerState)
	assert.Equal(t, "1-23-456-78-9A-01234", ev.DealerFFL)

	require.NotNil(t, ev.InDL2Program)
	assert.True(t, *ev.InDL2Program)
	require.NotNil(t, ev.IsTopTraceFFL)
	assert.False(t, *ev.IsTopTraceFFL)
	assert.Nil(t, ev.IsRevoked)

	assert.Equal(t, "DE", ev.TraffickingOrigin)
	assert.Equal(t, "PA", ev.TraffickingDest)
	assert.False(t, ev.SouthwestBorder)

	require.NotNil(t, ev.TimeToCrime)
	assert.Equal(t, 90, *ev.TimeToCrime)

	// Explicit recovery outranks the court citation and the flow.
	assert.Equal(t, "PA", ev.JurisdictionState)
	assert.Equal(t, "Philadelphia", ev.JurisdictionCity)
	assert.Equal(t, "RECOVERY", ev.JurisdictionMethod)
	assert.Equal(t, model.ConfidenceHigh, ev.JurisdictionConfidence)
}

func TestTransformDealerRow_SkipsPlaceholders(t *testing.T) {
	h := newHeaderMap(dealerHeader)

	assert.Nil(t, transformDealerRow(h, dealerRow(map[string]string{"FFL": "?"}), "Sheet1", 2))
	assert.Nil(t, transformDealerRow(h, dealerRow(map[string]string{"FFL": "  "}), "Sheet1", 3))
}

func TestResolveJurisdiction_PriorityChain(t *testing.T) {
	h := newHeaderMap(dealerHeader)

	tests := []struct {
		name       string
		overrides  map[string]string
		sheet      string
		wantState  string
		wantCity   string
		wantMethod string
		wantConf   model.Confidence
	}{
		{
			name:       "court citation",
			overrides:  map[string]string{"Case": "US v. Jones (E.D. Pa. 2022)"},
			sheet:      "Sheet1",
			wantState:  "PA",
			wantMethod: "COURT",
			wantConf:   model.ConfidenceMedium,
		},
		{
			name:       "trafficking destination",
			overrides:  map[string]string{"Case subject (trafficking flow etc)": "AK-->CA"},
			sheet:      "Sheet1",
			wantState:  "CA",
			wantMethod: "TRAFFICKING",
			wantConf:   model.ConfidenceMedium,
		},
		{
			name:       "southwest border flow falls through to dealer state",
			overrides:  map[string]string{"Case subject (trafficking flow etc)": "TX-->SWB"},
			sheet:      "Sheet1",
			wantState:  "DE",
			wantMethod: "DEALER_STATE",
			wantConf:   model.ConfidenceLow,
		},
		{
			name:       "sheet default",
			overrides:  map[string]string{},
			sheet:      "Rochester Trace Data",
			wantState:  "NY",
			wantCity:   "Rochester",
			wantMethod: "SHEET_DEFAULT",
			wantConf:   model.ConfidenceMedium,
		},
		{
			name:       "dealer state fallback",
			overrides:  map[string]string{},
			sheet:      "Sheet1",
			wantState:  "DE",
			wantMethod: "DEALER_STATE",
			wantConf:   model.ConfidenceLow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := dealerRow(tt.overrides)
			recovery := h.cellByFragment(row, "location(s) of recovery")
			flow := patterns.ParseTraffickingFlow(h.cellByFragment(row, "case subject"))

			state, city, method, conf := resolveJurisdiction(h, row, tt.sheet, recovery, flow)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantCity, city)
			assert.Equal(t, tt.wantMethod, method)
			assert.Equal(t, tt.wantConf, conf)
		})
	}
}

func TestResolveJurisdiction_Unknown(t *testing.T) {
	h := newHeaderMap(dealerHeader)
	row := dealerRow(map[string]string{"State": ""})

	state, city, method, conf := resolveJurisdiction(h, row, "Sheet1", "", nil)
	assert.Empty(t, state)
	assert.Empty(t, city)
	assert.Equal(t, "UNKNOWN", method)
	assert.Equal(t, model.ConfidenceNone, conf)
}

func TestLoadDealerDB(t *testing.T) {
	sheets := map[string][][]string{
		"Philadelphia FFLs": {
			dealerHeader,
			dealerRow(map[string]string{"Case": "US v. Smith (E.D. Pa.)"}),
			dealerRow(map[string]string{"FFL": "?"}),
			dealerRow(nil),
		},
		"Sheet7":    {dealerHeader, dealerRow(nil)},
		"Backdated": {dealerHeader, dealerRow(nil)},
		"Empty":     {},
	}
	path := createWorkbook(t, sheets, []string{"Philadelphia FFLs", "Sheet7", "Backdated", "Empty"})

	res, err := LoadDealerDB(path)
	require.NoError(t, err)

	require.Len(t, res.Events, 2)
	assert.Equal(t, 1, res.SkippedRows)
	require.Len(t, res.Sheets, 1)
	assert.Equal(t, SheetStat{Sheet: "Philadelphia FFLs", Events: 2}, res.Sheets[0])

	// Source rows track spreadsheet numbering with the header as row 1.
	assert.Equal(t, 2, res.Events[0].SourceRow)
	assert.Equal(t, 4, res.Events[1].SourceRow)
	assert.Equal(t, "COURT", res.Events[0].JurisdictionMethod)
	assert.Equal(t, "SHEET_DEFAULT", res.Events[1].JurisdictionMethod)
}

func TestLoadDealerDB_MissingFile(t *testing.T) {
	_, err := LoadDealerDB(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
