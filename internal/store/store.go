// Package store persists crime-gun events and their location
// classifications. Two backends implement the same contract: SQLite for
// local single-file databases and Postgres for shared deployments.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/brady-data/crimegun-cli/internal/model"
)

// ErrNotFound is returned when a requested record id is absent.
var ErrNotFound = eris.New("store: record not found")

// ZIPCount is one row of the ZIP code distribution, ordered by count.
type ZIPCount struct {
	ZIP   string `json:"zip" yaml:"zip"`
	Count int    `json:"count" yaml:"count"`
}

// Stats summarizes classification progress.
type Stats struct {
	Total           int        `json:"total" yaml:"total"`
	Classified      int        `json:"classified" yaml:"classified"`
	Remaining       int        `json:"remaining" yaml:"remaining"`
	ProgressPct     float64    `json:"progress_pct" yaml:"progress_pct"`
	ZIPDistribution []ZIPCount `json:"zip_distribution,omitempty" yaml:"zip_distribution,omitempty"`
}

// Store defines the persistence contract consumed by the classifier and
// the batch coordinator.
type Store interface {
	// FetchUnclassified returns records whose crime_location_state is
	// still null, capped at limit, in ascending id order.
	FetchUnclassified(ctx context.Context, limit int) ([]model.Record, error)

	// FetchByID returns one record or ErrNotFound.
	FetchByID(ctx context.Context, id int64) (model.Record, error)

	// Persist writes a classification onto the row with the given id.
	// Returns false when the id no longer exists. Idempotent: repeating
	// the same call leaves the stored data unchanged.
	Persist(ctx context.Context, id int64, res *model.LocationResult) (bool, error)

	// Progress counters.
	CountUnclassified(ctx context.Context) (int, error)
	CountTotal(ctx context.Context) (int, error)
	ZIPDistribution(ctx context.Context) ([]ZIPCount, error)

	// Ingest. InsertEvents appends; UpsertEvents merges on the source
	// identity (dataset, sheet, row); ReplaceDataset drops and reloads a
	// whole dataset.
	InsertEvents(ctx context.Context, events []model.Event) (int, error)
	UpsertEvents(ctx context.Context, events []model.Event) (int, error)
	ReplaceDataset(ctx context.Context, dataset string, events []model.Event) (int, error)

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}

// CollectStats assembles a progress summary from the store's counters.
func CollectStats(ctx context.Context, s Store) (*Stats, error) {
	total, err := s.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	remaining, err := s.CountUnclassified(ctx)
	if err != nil {
		return nil, err
	}
	dist, err := s.ZIPDistribution(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Total:           total,
		Classified:      total - remaining,
		Remaining:       remaining,
		ZIPDistribution: dist,
	}
	if total > 0 {
		st.ProgressPct = float64(st.Classified) / float64(total) * 100
	}
	return st, nil
}

// eventColumns is the shared column order for event inserts and COPY loads.
var eventColumns = []string{
	"source_dataset", "source_sheet", "source_row",
	"jurisdiction_state", "jurisdiction_city", "jurisdiction_method", "jurisdiction_confidence",
	"dealer_name", "dealer_city", "dealer_state", "dealer_ffl",
	"case_name", "case_number", "case_subject", "case_summary",
	"recovery_locations", "facts_narrative",
	"trafficking_origin", "trafficking_destination",
	"is_southwest_border", "is_domestic_violence",
	"in_dl2_program", "is_top_trace_ffl", "is_revoked", "is_charged_or_sued",
	"time_to_crime",
}

func eventValues(e model.Event) []any {
	return []any{
		e.SourceDataset, e.SourceSheet, e.SourceRow,
		nullIfEmpty(e.JurisdictionState), nullIfEmpty(e.JurisdictionCity),
		nullIfEmpty(e.JurisdictionMethod), nullIfEmpty(string(e.JurisdictionConfidence)),
		nullIfEmpty(e.DealerName), nullIfEmpty(e.DealerCity),
		nullIfEmpty(e.DealerState), nullIfEmpty(e.DealerFFL),
		nullIfEmpty(e.CaseName), nullIfEmpty(e.CaseNumber),
		nullIfEmpty(e.CaseSubject), nullIfEmpty(e.CaseSummary),
		nullIfEmpty(e.RecoveryLocations), nullIfEmpty(e.FactsNarrative),
		nullIfEmpty(e.TraffickingOrigin), nullIfEmpty(e.TraffickingDest),
		e.SouthwestBorder, e.DomesticViolence,
		e.InDL2Program, e.IsTopTraceFFL, e.IsRevoked, e.IsChargedSued,
		e.TimeToCrime,
	}
}

// nullIfEmpty stores empty strings as NULL so null-based predicates
// (unclassified filters, coverage counts) stay meaningful.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// placeholders returns "?, ?, ..." with n slots.
func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ", ")
}

// excludedSet builds the "col = excluded.col" clause list for an upsert,
// skipping the conflict key columns.
func excludedSet(cols []string, conflictKeys ...string) string {
	keys := make(map[string]bool, len(conflictKeys))
	for _, k := range conflictKeys {
		keys[k] = true
	}
	var clauses []string
	for _, c := range cols {
		if keys[c] {
			continue
		}
		clauses = append(clauses, c+" = excluded."+c)
	}
	return strings.Join(clauses, ", ")
}
