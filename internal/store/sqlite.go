package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/brady-data/crimegun-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS crime_gun_events (
	id                       INTEGER PRIMARY KEY AUTOINCREMENT,
	source_dataset           TEXT NOT NULL,
	source_sheet             TEXT NOT NULL DEFAULT '',
	source_row               INTEGER NOT NULL DEFAULT 0,
	jurisdiction_state       TEXT,
	jurisdiction_city        TEXT,
	jurisdiction_method      TEXT,
	jurisdiction_confidence  TEXT,
	dealer_name              TEXT,
	dealer_city              TEXT,
	dealer_state             TEXT,
	dealer_ffl               TEXT,
	case_name                TEXT,
	case_number              TEXT,
	case_subject             TEXT,
	case_summary             TEXT,
	recovery_locations       TEXT,
	facts_narrative          TEXT,
	trafficking_origin       TEXT,
	trafficking_destination  TEXT,
	is_southwest_border      INTEGER,
	is_domestic_violence     INTEGER,
	in_dl2_program           INTEGER,
	is_top_trace_ffl         INTEGER,
	is_revoked               INTEGER,
	is_charged_or_sued       INTEGER,
	time_to_crime            INTEGER,
	crime_location_state     TEXT,
	crime_location_city      TEXT,
	crime_location_zip       TEXT,
	crime_location_court     TEXT,
	crime_location_pd        TEXT,
	crime_location_reasoning TEXT,
	confidence               TEXT,
	created_at               DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at               DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (source_dataset, source_sheet, source_row)
);

CREATE INDEX IF NOT EXISTS idx_events_dataset ON crime_gun_events(source_dataset);
CREATE INDEX IF NOT EXISTS idx_events_unclassified ON crime_gun_events(crime_location_state);
CREATE INDEX IF NOT EXISTS idx_events_time_to_crime ON crime_gun_events(time_to_crime);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// fetchColumns are the fields the classifier chain reads.
const fetchColumns = `id, source_dataset, source_sheet, jurisdiction_city,
	case_name, case_number, case_subject, case_summary,
	recovery_locations, facts_narrative`

func (s *SQLiteStore) FetchUnclassified(ctx context.Context, limit int) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fetchColumns+` FROM crime_gun_events
		 WHERE crime_location_state IS NULL
		 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: fetch unclassified")
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: fetch unclassified iterate")
}

func (s *SQLiteStore) FetchByID(ctx context.Context, id int64) (model.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fetchColumns+` FROM crime_gun_events WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: fetch record %d", id)
	}
	return rec, nil
}

func (s *SQLiteStore) Persist(ctx context.Context, id int64, res *model.LocationResult) (bool, error) {
	r, err := s.db.ExecContext(ctx,
		`UPDATE crime_gun_events
		 SET crime_location_state = ?,
		     crime_location_city = ?,
		     crime_location_zip = ?,
		     crime_location_court = ?,
		     crime_location_pd = ?,
		     crime_location_reasoning = ?,
		     confidence = ?,
		     updated_at = datetime('now')
		 WHERE id = ?`,
		nullIfEmpty(res.State), nullIfEmpty(res.City), nullIfEmpty(res.ZIP),
		nullIfEmpty(res.Court), nullIfEmpty(res.PoliceDept),
		res.Reasoning, string(res.Confidence), id)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: persist record %d", id)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: rows affected")
	}
	return n > 0, nil
}

func (s *SQLiteStore) CountUnclassified(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM crime_gun_events WHERE crime_location_state IS NULL`)
}

func (s *SQLiteStore) CountTotal(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM crime_gun_events`)
}

func (s *SQLiteStore) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "sqlite: count")
	}
	return n, nil
}

func (s *SQLiteStore) ZIPDistribution(ctx context.Context) ([]ZIPCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT crime_location_zip, COUNT(*) FROM crime_gun_events
		 WHERE crime_location_zip IS NOT NULL
		 GROUP BY crime_location_zip
		 ORDER BY COUNT(*) DESC, crime_location_zip`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: zip distribution")
	}
	defer rows.Close()

	var dist []ZIPCount
	for rows.Next() {
		var zc ZIPCount
		if err := rows.Scan(&zc.ZIP, &zc.Count); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan zip count")
		}
		dist = append(dist, zc)
	}
	return dist, eris.Wrap(rows.Err(), "sqlite: zip distribution iterate")
}

func (s *SQLiteStore) InsertEvents(ctx context.Context, events []model.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin insert events")
	}
	defer tx.Rollback()

	n, err := insertEventsTx(ctx, tx, events)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit insert events")
	}
	return n, nil
}

func (s *SQLiteStore) ReplaceDataset(ctx context.Context, dataset string, events []model.Event) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin replace dataset")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM crime_gun_events WHERE source_dataset = ?`, dataset); err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete dataset %s", dataset)
	}
	n, err := insertEventsTx(ctx, tx, events)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit replace dataset")
	}
	return n, nil
}

func (s *SQLiteStore) UpsertEvents(ctx context.Context, events []model.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert events")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsertEvent)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert event")
	}
	defer stmt.Close()

	for i, e := range events {
		if _, err := stmt.ExecContext(ctx, eventValues(e)...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert event %d (%s row %d)", i, e.SourceDataset, e.SourceRow)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert events")
	}
	return len(events), nil
}

var (
	sqliteInsertEvent = `INSERT INTO crime_gun_events (` +
		joinColumns(eventColumns) + `) VALUES (` + placeholders(len(eventColumns)) + `)`
	sqliteUpsertEvent = sqliteInsertEvent +
		` ON CONFLICT (source_dataset, source_sheet, source_row) DO UPDATE SET ` +
		excludedSet(eventColumns, "source_dataset", "source_sheet", "source_row")
)

func insertEventsTx(ctx context.Context, tx *sql.Tx, events []model.Event) (int, error) {
	stmt, err := tx.PrepareContext(ctx, sqliteInsertEvent)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert event")
	}
	defer stmt.Close()

	for i, e := range events {
		if _, err := stmt.ExecContext(ctx, eventValues(e)...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert event %d (%s row %d)", i, e.SourceDataset, e.SourceRow)
		}
	}
	return len(events), nil
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

// scanRecord builds a classifier input record, omitting null columns so the
// extractors see absence, not empty strings masquerading as data.
func scanRecord(row scannable) (model.Record, error) {
	var id int64
	var dataset string
	var sheet, jCity, caseName, caseNumber, caseSubject, caseSummary,
		recovery, narrative sql.NullString

	err := row.Scan(&id, &dataset, &sheet, &jCity,
		&caseName, &caseNumber, &caseSubject, &caseSummary,
		&recovery, &narrative)
	if err != nil {
		return nil, err
	}

	rec := model.Record{"id": id, "source_dataset": dataset}
	setIfValid(rec, "source_sheet", sheet)
	setIfValid(rec, "jurisdiction_city", jCity)
	setIfValid(rec, "case_name", caseName)
	setIfValid(rec, "case_number", caseNumber)
	setIfValid(rec, "case_subject", caseSubject)
	setIfValid(rec, "case_summary", caseSummary)
	setIfValid(rec, "recovery_locations", recovery)
	setIfValid(rec, "facts_narrative", narrative)
	return rec, nil
}

func setIfValid(rec model.Record, key string, v sql.NullString) {
	if v.Valid && v.String != "" {
		rec[key] = v.String
	}
}
