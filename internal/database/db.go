package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens a Tally sqlite export read-only. The engine never writes, and
// statement builders may run concurrently, so a small connection pool is
// kept instead of a single shared handle.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_query_only=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(0)
	return db, nil
}

// OpenWritable opens sqlite read-write. Used for provisioning fixtures and
// local reference copies of the store layout, never by the engine itself.
func OpenWritable(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite serializes writes
	db.SetConnMaxLifetime(0)
	return db, nil
}
