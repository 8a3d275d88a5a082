// Package storage caches fetched source records in a local SQLite
// database so repeated screenings do not hit the court portal for
// documents already downloaded. A record's cache identity is its docket
// number plus record type.
package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/coolbeans/recordscreen/pkg/sourcerecord"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS source_records (
  id            TEXT PRIMARY KEY,
  caption       TEXT NOT NULL DEFAULT '',
  docket_number TEXT NOT NULL,
  court         TEXT NOT NULL DEFAULT '',
  url           TEXT NOT NULL DEFAULT '',
  record_type   TEXT NOT NULL,
  fetch_status  TEXT NOT NULL DEFAULT '',
  parse_status  TEXT NOT NULL DEFAULT '',
  raw_text      TEXT NOT NULL DEFAULT '',
  saved_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(docket_number, record_type)
);
CREATE INDEX IF NOT EXISTS idx_source_records_docket ON source_records(docket_number);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Save upserts one source record. A later save of the same docket number
// and record type replaces the earlier row.
func (d *DB) Save(ctx context.Context, sr *sourcerecord.SourceRecord) error {
	id := sr.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO source_records (id, caption, docket_number, court, url, record_type, fetch_status, parse_status, raw_text)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(docket_number, record_type) DO UPDATE SET
  caption = excluded.caption,
  court = excluded.court,
  url = excluded.url,
  fetch_status = excluded.fetch_status,
  parse_status = excluded.parse_status,
  raw_text = excluded.raw_text,
  saved_at = CURRENT_TIMESTAMP
	`, id.String(), sr.Caption, sr.DocketNumber, string(sr.Court), sr.URL,
		string(sr.RecordType), string(sr.FetchStatus), string(sr.ParseStatus), sr.RawText)
	return err
}

// Get returns the cached record for a docket number and record type, or
// nil when the cache has none.
func (d *DB) Get(ctx context.Context, docketNumber string, recordType sourcerecord.RecType) (*sourcerecord.SourceRecord, error) {
	row := d.sql.QueryRowContext(ctx, `
SELECT id, caption, docket_number, court, url, record_type, fetch_status, parse_status, raw_text
FROM source_records WHERE docket_number = ? AND record_type = ?
	`, docketNumber, string(recordType))
	sr, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return sr, err
}

// ByDocket returns every cached record for a docket number.
func (d *DB) ByDocket(ctx context.Context, docketNumber string) ([]*sourcerecord.SourceRecord, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT id, caption, docket_number, court, url, record_type, fetch_status, parse_status, raw_text
FROM source_records WHERE docket_number = ? ORDER BY record_type
	`, docketNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*sourcerecord.SourceRecord
	for rows.Next() {
		sr, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, sr)
	}
	return records, rows.Err()
}

// DocketNumbers returns every docket number in the cache.
func (d *DB) DocketNumbers(ctx context.Context) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT DISTINCT docket_number FROM source_records ORDER BY docket_number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*sourcerecord.SourceRecord, error) {
	var (
		sr                                             sourcerecord.SourceRecord
		id, court, recordType, fetchStatus, parseState string
	)
	if err := row.Scan(&id, &sr.Caption, &sr.DocketNumber, &court, &sr.URL,
		&recordType, &fetchStatus, &parseState, &sr.RawText); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	sr.ID = parsed
	sr.Court = sourcerecord.Court(court)
	sr.RecordType = sourcerecord.RecType(recordType)
	sr.FetchStatus = sourcerecord.FetchStatus(fetchStatus)
	sr.ParseStatus = sourcerecord.ParseStatus(parseState)
	return &sr, nil
}
