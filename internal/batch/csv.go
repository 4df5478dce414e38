package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/brady-data/crimegun-cli/internal/classify"
	"github.com/brady-data/crimegun-cli/internal/model"
)

// CSVOptions filters rows during load.
type CSVOptions struct {
	SkipExisting bool // drop rows that already carry jurisdiction data
	StartRow     int  // 1-based source row window, inclusive; 0 = no bound
	EndRow       int
}

// resultColumns are appended to the output CSV when absent from the input.
var resultColumns = []string{
	"crime_location_state",
	"crime_location_city",
	"crime_location_zip",
	"crime_location_court",
	"crime_location_pd",
	"crime_location_reasoning",
	"confidence",
}

// LoadCSV reads records needing classification from a CSV file. Each record
// is tagged with its 1-based source row (row 2 is the first data row) under
// the private source-row key. Returns the records, the input header order,
// and the count of rows skipped by the existing-data filter.
func LoadCSV(path string, opts CSVOptions) ([]model.Record, []string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, eris.Wrapf(err, "batch: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, 0, eris.Wrapf(err, "batch: read header of %s", path)
	}

	var records []model.Record
	skipped := 0
	for i := 2; ; i++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, 0, eris.Wrapf(err, "batch: read row %d of %s", i, path)
		}

		if opts.StartRow > 0 && i < opts.StartRow {
			continue
		}
		if opts.EndRow > 0 && i > opts.EndRow {
			continue
		}

		rec := model.Record{model.SourceRowKey: i}
		for j, col := range header {
			if j < len(row) && row[j] != "" {
				rec[col] = row[j]
			}
		}

		if opts.SkipExisting && hasExistingLocation(rec) {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	zap.L().Info("csv loaded",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped))
	return records, header, skipped, nil
}

func hasExistingLocation(rec model.Record) bool {
	return strings.TrimSpace(rec.Text("jurisdiction_state", "crime_location_state")) != ""
}

// SplitBatches partitions records into fixed-size batches, clamping the
// requested size to the hard cap.
func SplitBatches(records []model.Record, size int) [][]model.Record {
	size = ClampBatchSize(size)
	var batches [][]model.Record
	for i := 0; i < len(records); i += size {
		end := i + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[i:end])
	}
	return batches
}

// maxSummaryLen bounds the narrative field in prompts so one verbose case
// summary cannot blow up a dispatch payload.
const maxSummaryLen = 2000

// AgentPrompt is one record's classification prompt for external dispatch.
type AgentPrompt struct {
	SourceRow int    `json:"source_row"`
	Prompt    string `json:"prompt"`
}

// DispatchBatch is the payload for one batch of external classifications.
type DispatchBatch struct {
	BatchID int           `json:"batch_id"`
	Prompts []AgentPrompt `json:"prompts"`
}

// BuildPrompt renders the classification instructions for one record. The
// record is embedded as JSON with the private source-row key removed and
// the case summary truncated.
func BuildPrompt(rec model.Record) (string, error) {
	clean := make(map[string]any, len(rec))
	for k, v := range rec {
		if k == model.SourceRowKey {
			continue
		}
		clean[k] = v
	}
	if summary, ok := clean["case_summary"].(string); ok && len(summary) > maxSummaryLen {
		clean["case_summary"] = summary[:maxSummaryLen] + "... [truncated]"
	}

	data, err := json.MarshalIndent(clean, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "batch: marshal record for prompt")
	}

	return fmt.Sprintf(`Classify the crime location for this record.

**Record Data:**
%s

**Instructions:**
1. Determine WHERE THE CRIME OCCURRED (not the dealer location)
2. Use these strategies in priority order:
   - Dataset defaults: DE_GUNSTAT implies Delaware, PA_TRACE implies Pennsylvania
   - Case number parsing: court codes like "D. Del.", "E.D. Pa."
   - Trafficking flows: parse "XX-->YY" notation for the destination
   - Narrative extraction: city names, police departments, street addresses
3. Return JSON with fields: crime_location_state, crime_location_city,
   crime_location_zip, crime_location_court, crime_location_pd,
   crime_location_reasoning, confidence (HIGH, MEDIUM, or LOW)

**Source Row:** %d
`, string(data), rec.SourceRow()), nil
}

// BuildDispatch assembles the external-dispatch payload for one batch.
func BuildDispatch(batchID int, batch []model.Record) (*DispatchBatch, error) {
	d := &DispatchBatch{BatchID: batchID}
	for _, rec := range batch {
		prompt, err := BuildPrompt(rec)
		if err != nil {
			return nil, err
		}
		d.Prompts = append(d.Prompts, AgentPrompt{SourceRow: rec.SourceRow(), Prompt: prompt})
	}
	return d, nil
}

// ClassifyCSV runs the resolver in-process over loaded CSV records and
// returns results keyed by source row, with a run summary.
func ClassifyCSV(r *classify.Resolver, records []model.Record, skipped int) (map[int]*model.LocationResult, *Summary) {
	results := make(map[int]*model.LocationResult, len(records))
	summary := &Summary{Total: len(records) + skipped, Skipped: skipped}

	for _, rec := range records {
		res := r.Classify(rec)
		res.RecordID = int64(rec.SourceRow())
		results[rec.SourceRow()] = &res
		summary.Processed++
	}
	return results, summary
}

// WriteCSV writes the input rows back out with the classification columns
// filled in for every row that has a result. Column order is the input
// header followed by any missing result columns.
func WriteCSV(path string, header []string, records []model.Record, results map[int]*model.LocationResult) error {
	out := append([]string(nil), header...)
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, col := range resultColumns {
		if !present[col] {
			out = append(out, col)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "batch: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(out); err != nil {
		return eris.Wrap(err, "batch: write header")
	}

	for _, rec := range records {
		if res := results[rec.SourceRow()]; res != nil {
			rec["crime_location_state"] = res.State
			rec["crime_location_city"] = res.City
			rec["crime_location_zip"] = res.ZIP
			rec["crime_location_court"] = res.Court
			rec["crime_location_pd"] = res.PoliceDept
			rec["crime_location_reasoning"] = res.Reasoning
			rec["confidence"] = string(res.Confidence)
		}
		row := make([]string, len(out))
		for i, col := range out {
			row[i] = rec.Text(col)
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "batch: write row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "batch: flush")
}
