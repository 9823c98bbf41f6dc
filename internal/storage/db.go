package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"lookbook/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS scans (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  scanId INTEGER,
  collection TEXT,
  pages INTEGER NOT NULL DEFAULT 0,
  items INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  detail TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(scanId) REFERENCES scans(id)
);

CREATE TABLE IF NOT EXISTS merges (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  collection TEXT NOT NULL,
  canonical TEXT NOT NULL,
  mergedJson TEXT NOT NULL,
  pagesJson TEXT NOT NULL,
  source TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_merges_collection ON merges(collection);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertScan(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.ScanRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO scans (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.ScanRow{}, err
	}

	row, err := d.GetScanByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.ScanRow{}, err
	}
	if row == nil {
		return internal.ScanRow{}, errors.New("failed to upsert scan")
	}
	return *row, nil
}

func (d *DB) GetScanByProviderMessageID(provider, messageID string) (*internal.ScanRow, error) {
	var row internal.ScanRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM scans WHERE provider = ? AND messageId = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) GetScanByID(id int) (*internal.ScanRow, error) {
	var row internal.ScanRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM scans WHERE id = ?
`, id).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListScansByStatus(status string, limit int) ([]internal.ScanRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM scans WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ScanRow
	for rows.Next() {
		var row internal.ScanRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateScanStatus(scanID int, status string) error {
	_, err := d.conn.Exec(`UPDATE scans SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, scanID)
	return err
}

func (d *DB) InsertRun(traceID string, scanID int, collection string, pages, items int, status, detail string) error {
	_, err := d.conn.Exec(`
INSERT INTO runs (traceId, scanId, collection, pages, items, status, detail)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, traceID, scanID, collection, pages, items, status, detail)
	return err
}

func (d *DB) InsertMerge(rec internal.MergeRecord) error {
	mergedJSON, _ := json.Marshal(rec.Merged)
	pagesJSON, _ := json.Marshal(rec.Pages)
	_, err := d.conn.Exec(`
INSERT INTO merges (collection, canonical, mergedJson, pagesJson, source)
VALUES (?, ?, ?, ?, ?)
`, rec.Collection, rec.Canonical, string(mergedJSON), string(pagesJSON), rec.Source)
	return err
}

func (d *DB) ListMerges(collection string, limit int) ([]internal.MergeRecord, error) {
	rows, err := d.conn.Query(`
SELECT collection, canonical, mergedJson, pagesJson, source
FROM merges WHERE collection = ? ORDER BY id DESC LIMIT ?
`, collection, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.MergeRecord
	for rows.Next() {
		var rec internal.MergeRecord
		var mergedJSON, pagesJSON string
		if err := rows.Scan(&rec.Collection, &rec.Canonical, &mergedJSON, &pagesJSON, &rec.Source); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(mergedJSON), &rec.Merged)
		_ = json.Unmarshal([]byte(pagesJSON), &rec.Pages)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (d *DB) MustScanByProviderMessageID(provider, messageID string) (internal.ScanRow, error) {
	row, err := d.GetScanByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.ScanRow{}, err
	}
	if row == nil {
		return internal.ScanRow{}, fmt.Errorf("scan not found: provider=%s messageId=%s", provider, messageID)
	}
	return *row, nil
}
