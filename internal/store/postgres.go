package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/brady-data/crimegun-cli/internal/db"
	"github.com/brady-data/crimegun-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot-path store operations.
var preparedStatements = map[string]string{
	"fetch_unclassified": pgFetchUnclassified,
	"fetch_by_id":        pgFetchByID,
	"persist":            pgPersist,
	"count_unclassified": pgCountUnclassified,
	"count_total":        pgCountTotal,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS crime_gun_events (
	id                       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
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
	is_southwest_border      BOOLEAN,
	is_domestic_violence     BOOLEAN,
	in_dl2_program           BOOLEAN,
	is_top_trace_ffl         BOOLEAN,
	is_revoked               BOOLEAN,
	is_charged_or_sued       BOOLEAN,
	time_to_crime            INTEGER,
	crime_location_state     TEXT,
	crime_location_city      TEXT,
	crime_location_zip       TEXT,
	crime_location_court     TEXT,
	crime_location_pd        TEXT,
	crime_location_reasoning TEXT,
	confidence               TEXT,
	created_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (source_dataset, source_sheet, source_row)
);

CREATE INDEX IF NOT EXISTS idx_events_dataset ON crime_gun_events(source_dataset);
CREATE INDEX IF NOT EXISTS idx_events_unclassified ON crime_gun_events(crime_location_state) WHERE crime_location_state IS NULL;
CREATE INDEX IF NOT EXISTS idx_events_time_to_crime ON crime_gun_events(time_to_crime);
`

const (
	pgFetchUnclassified = `SELECT id, source_dataset, source_sheet, jurisdiction_city,
	case_name, case_number, case_subject, case_summary,
	recovery_locations, facts_narrative
	FROM crime_gun_events WHERE crime_location_state IS NULL ORDER BY id LIMIT $1`

	pgFetchByID = `SELECT id, source_dataset, source_sheet, jurisdiction_city,
	case_name, case_number, case_subject, case_summary,
	recovery_locations, facts_narrative
	FROM crime_gun_events WHERE id = $1`

	pgPersist = `UPDATE crime_gun_events
	SET crime_location_state = $1,
	    crime_location_city = $2,
	    crime_location_zip = $3,
	    crime_location_court = $4,
	    crime_location_pd = $5,
	    crime_location_reasoning = $6,
	    confidence = $7,
	    updated_at = now()
	WHERE id = $8`

	pgCountUnclassified = `SELECT COUNT(*) FROM crime_gun_events WHERE crime_location_state IS NULL`
	pgCountTotal        = `SELECT COUNT(*) FROM crime_gun_events`

	pgZIPDistribution = `SELECT crime_location_zip, COUNT(*) FROM crime_gun_events
	WHERE crime_location_zip IS NOT NULL
	GROUP BY crime_location_zip
	ORDER BY COUNT(*) DESC, crime_location_zip`
)

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) FetchUnclassified(ctx context.Context, limit int) ([]model.Record, error) {
	rows, err := s.pool.Query(ctx, pgFetchUnclassified, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: fetch unclassified")
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		rec, err := scanPgRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: fetch unclassified iterate")
}

func (s *PostgresStore) FetchByID(ctx context.Context, id int64) (model.Record, error) {
	rec, err := scanPgRecord(s.pool.QueryRow(ctx, pgFetchByID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: fetch record %d", id)
	}
	return rec, nil
}

func (s *PostgresStore) Persist(ctx context.Context, id int64, res *model.LocationResult) (bool, error) {
	tag, err := s.pool.Exec(ctx, pgPersist,
		nullIfEmpty(res.State), nullIfEmpty(res.City), nullIfEmpty(res.ZIP),
		nullIfEmpty(res.Court), nullIfEmpty(res.PoliceDept),
		res.Reasoning, string(res.Confidence), id)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: persist record %d", id)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) CountUnclassified(ctx context.Context) (int, error) {
	return s.count(ctx, pgCountUnclassified)
}

func (s *PostgresStore) CountTotal(ctx context.Context) (int, error) {
	return s.count(ctx, pgCountTotal)
}

func (s *PostgresStore) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "postgres: count")
	}
	return n, nil
}

func (s *PostgresStore) ZIPDistribution(ctx context.Context) ([]ZIPCount, error) {
	rows, err := s.pool.Query(ctx, pgZIPDistribution)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: zip distribution")
	}
	defer rows.Close()

	var dist []ZIPCount
	for rows.Next() {
		var zc ZIPCount
		if err := rows.Scan(&zc.ZIP, &zc.Count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan zip count")
		}
		dist = append(dist, zc)
	}
	return dist, eris.Wrap(rows.Err(), "postgres: zip distribution iterate")
}

func (s *PostgresStore) InsertEvents(ctx context.Context, events []model.Event) (int, error) {
	rows := make([][]any, len(events))
	for i, e := range events {
		rows[i] = eventValues(e)
	}
	n, err := db.CopyFrom(ctx, s.pool, "crime_gun_events", eventColumns, rows)
	return int(n), err
}

func (s *PostgresStore) UpsertEvents(ctx context.Context, events []model.Event) (int, error) {
	rows := make([][]any, len(events))
	for i, e := range events {
		rows[i] = eventValues(e)
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "crime_gun_events",
		Columns:      eventColumns,
		ConflictKeys: []string{"source_dataset", "source_sheet", "source_row"},
	}, rows)
	return int(n), err
}

func (s *PostgresStore) ReplaceDataset(ctx context.Context, dataset string, events []model.Event) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin replace dataset")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM crime_gun_events WHERE source_dataset = $1`, dataset); err != nil {
		return 0, eris.Wrapf(err, "postgres: delete dataset %s", dataset)
	}

	rows := make([][]any, len(events))
	for i, e := range events {
		rows[i] = eventValues(e)
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"crime_gun_events"}, eventColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: COPY dataset %s", dataset)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit replace dataset")
	}
	return int(n), nil
}

// scanPgRecord builds a classifier input record from a pgx row, omitting
// null columns.
func scanPgRecord(row pgx.Row) (model.Record, error) {
	var id int64
	var dataset, sheet string
	var jCity, caseName, caseNumber, caseSubject, caseSummary,
		recovery, narrative *string

	err := row.Scan(&id, &dataset, &sheet, &jCity,
		&caseName, &caseNumber, &caseSubject, &caseSummary,
		&recovery, &narrative)
	if err != nil {
		return nil, err
	}

	rec := model.Record{"id": id, "source_dataset": dataset}
	if sheet != "" {
		rec["source_sheet"] = sheet
	}
	setIfPresent(rec, "jurisdiction_city", jCity)
	setIfPresent(rec, "case_name", caseName)
	setIfPresent(rec, "case_number", caseNumber)
	setIfPresent(rec, "case_subject", caseSubject)
	setIfPresent(rec, "case_summary", caseSummary)
	setIfPresent(rec, "recovery_locations", recovery)
	setIfPresent(rec, "facts_narrative", narrative)
	return rec, nil
}

func setIfPresent(rec model.Record, key string, v *string) {
	if v != nil && *v != "" {
		rec[key] = *v
	}
}
