package kv

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS assessment_store (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
)`

// sqlite-backed store, one row per client key. the driver is
// pure go so the binary stays cgo-free.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create store table")
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM assessment_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "read store value")
	}
	return value, true, nil
}

func (s *SQLite) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO assessment_store (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return errors.Wrap(err, "write store value")
}

func (s *SQLite) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM assessment_store WHERE key = ?`, key)
	return errors.Wrap(err, "delete store value")
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
