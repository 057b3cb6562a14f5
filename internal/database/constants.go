package database

import "time"

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections = 1
	DefaultMaxConnections = 10
	DefaultMaxConnIdle    = 5 * time.Minute
	DefaultMaxConnLife    = time.Hour
	ConnectTimeout        = 10 * time.Second
)

// DriverSQLite is the database/sql driver name registered by go-sqlite3
const DriverSQLite = "sqlite3"

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToOpenSQLite      = "failed to open sqlite database"
	ErrMsgFailedToMigrate         = "failed to run migrations"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationApplied                = "Applied migration"
	LogMsgCloseFailed                     = "Failed to close database"
)
