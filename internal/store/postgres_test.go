package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brady-data/crimegun-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

var recordColumns = []string{
	"id", "source_dataset", "source_sheet", "jurisdiction_city",
	"case_name", "case_number", "case_subject", "case_summary",
	"recovery_locations", "facts_narrative",
}

func TestPostgresStore_FetchByID_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, source_dataset`).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.FetchByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FetchByID(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	caseNumber := "30-23-063056"
	mock.ExpectQuery(`SELECT id, source_dataset`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(recordColumns).
			AddRow(int64(7), "DE_GUNSTAT", "", nil, nil, &caseNumber, nil, nil, nil, nil))

	rec, err := s.FetchByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID())
	assert.Equal(t, "30-23-063056", rec.Text("case_number"))
	_, hasSubject := rec["case_subject"]
	assert.False(t, hasSubject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FetchUnclassified(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	subject := "GA ==> DE"
	mock.ExpectQuery(`(?s)SELECT id, source_dataset .* WHERE crime_location_state IS NULL`).
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows(recordColumns).
			AddRow(int64(1), "DE_GUNSTAT", "", nil, nil, nil, &subject, nil, nil, nil).
			AddRow(int64(2), "PA_TRACE", "", nil, nil, nil, nil, nil, nil, nil))

	records, err := s.FetchUnclassified(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "GA ==> DE", records[0].Text("case_subject"))
	assert.Equal(t, "PA_TRACE", records[1].Text("source_dataset"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Persist(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE crime_gun_events`).
		WithArgs("DE", "Wilmington", nil, nil, nil,
			"Dataset default: DE_GUNSTAT implies DE", "HIGH", int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := s.Persist(context.Background(), 7, &model.LocationResult{
		RecordID:   7,
		State:      "DE",
		City:       "Wilmington",
		Reasoning:  "Dataset default: DE_GUNSTAT implies DE",
		Confidence: model.ConfidenceHigh,
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Persist_MissingRow(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE crime_gun_events`).
		WithArgs(nil, nil, nil, nil, nil, model.NoIndicatorsReasoning, "LOW", int64(999)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := s.Persist(context.Background(), 999, &model.LocationResult{
		RecordID:   999,
		Reasoning:  model.NoIndicatorsReasoning,
		Confidence: model.ConfidenceLow,
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Counts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM crime_gun_events WHERE crime_location_state IS NULL`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))

	n, err := s.CountUnclassified(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertEvents(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"crime_gun_events"}, eventColumns).
		WillReturnResult(2)

	n, err := s.InsertEvents(context.Background(), []model.Event{
		{SourceDataset: "DE_GUNSTAT", SourceRow: 2},
		{SourceDataset: "DE_GUNSTAT", SourceRow: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ReplaceDataset(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM crime_gun_events WHERE source_dataset = \$1`).
		WithArgs("DE_GUNSTAT").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCopyFrom(pgx.Identifier{"crime_gun_events"}, eventColumns).
		WillReturnResult(1)
	mock.ExpectCommit()

	n, err := s.ReplaceDataset(context.Background(), "DE_GUNSTAT", []model.Event{
		{SourceDataset: "DE_GUNSTAT", SourceRow: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ZIPDistribution(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT crime_location_zip, COUNT\(\*\)`).
		WillReturnRows(pgxmock.NewRows([]string{"crime_location_zip", "count"}).
			AddRow("19801", 12).
			AddRow("19802", 4))

	dist, err := s.ZIPDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, dist, 2)
	assert.Equal(t, ZIPCount{ZIP: "19801", Count: 12}, dist[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
