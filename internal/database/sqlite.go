package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDB adapts *sql.DB to the Pool interface used by readiness checks
type SQLiteDB struct {
	*sql.DB
}

// Ping checks the database file is reachable
func (s SQLiteDB) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close closes the database, logging instead of returning the error
func (s SQLiteDB) Close() {
	if err := s.DB.Close(); err != nil {
		slog.Default().Error(LogMsgCloseFailed, "error", err)
	}
}

// OpenSQLite opens (creating if needed) the SQLite file at path
// with WAL journaling and a single writer connection.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToOpenSQLite, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range sqlitePragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	slog.Default().Info(LogMsgSuccessfullyConnectedToDatabase, "dialect", DialectSQLite, "path", path)
	return db, nil
}

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}
