package classify

import (
	"strings"

	"github.com/brady-data/crimegun-cli/internal/model"
)

type datasetDefault struct {
	State      string
	Confidence model.Confidence
}

// datasetDefaults maps source dataset identifiers to their implied state.
// These are the highest-trust signals in the chain: the dataset itself is
// scoped to one state's trace data.
var datasetDefaults = map[string]datasetDefault{
	"DE_GUNSTAT": {State: "DE", Confidence: model.ConfidenceHigh},
	"PA_TRACE":   {State: "PA", Confidence: model.ConfidenceHigh},
}

// sheetDefaults maps workbook sheet name fragments to an implied city and
// state, checked in declared order.
var sheetDefaults = []struct {
	Fragment string
	City     string
	State    string
}{
	{"Philadelphia", "Philadelphia", "PA"},
	{"Rochester", "Rochester", "NY"},
}

// DatasetExtractor resolves state from dataset-level defaults: a known
// source_dataset identifier, or a sheet name that names the covered city.
type DatasetExtractor struct{}

func (DatasetExtractor) Name() string { return "dataset-default" }

func (DatasetExtractor) Extract(rec model.Record, _ model.LocationResult) *model.PartialLocation {
	ds := rec.Text("source_dataset")
	if d, ok := datasetDefaults[ds]; ok {
		return &model.PartialLocation{
			State:      d.State,
			Confidence: d.Confidence,
			Method:     "Dataset default: " + ds + " implies " + d.State,
		}
	}

	sheet := rec.Text("sheet_name", "source_sheet")
	if sheet == "" {
		return nil
	}
	for _, sd := range sheetDefaults {
		if strings.Contains(sheet, sd.Fragment) {
			return &model.PartialLocation{
				State:      sd.State,
				City:       sd.City,
				Confidence: model.ConfidenceMedium,
				Method:     "Sheet default: " + sheet + " implies " + sd.City + ", " + sd.State,
			}
		}
	}
	return nil
}
