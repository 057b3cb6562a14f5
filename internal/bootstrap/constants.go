package bootstrap

import "time"

// =============================================================================
// Logger
// =============================================================================

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingServer      = "Starting posrelay"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
)

// =============================================================================
// Persistence
// =============================================================================

const (
	// DatabaseMigrateTimeout bounds the startup migration run
	DatabaseMigrateTimeout = 2 * time.Minute

	LogMsgUsingPostgres = "Using postgres backend"
	LogMsgUsingSQLite   = "Using sqlite backend"

	ErrMsgFailedOpenDatabase = "failed to open database"
	ErrMsgFailedMigrate      = "failed to migrate database"
)

// =============================================================================
// Event System
// =============================================================================

const (
	// DirPermission is the permission for directories created for dead-letter files
	DirPermission = 0755

	LogMsgEventSystemInitialized    = "Event system initialized"
	ErrMsgFailedCreateDeadLetterDir = "failed to create dead-letter directory"
	ErrMsgFailedOpenDeadLetter      = "failed to open dead-letter file"
)

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgRelaySubscribed            = "Relay hub subscribed to catalog and sales events"
	LogMsgSSESubscribed              = "SSE hub subscribed to catalog and sales events"
)

// =============================================================================
// Seeding
// =============================================================================

const (
	LogMsgDefaultCatalogSeeded  = "Default catalog seeded"
	LogMsgDefaultCatalogPresent = "Global catalog already present, seed skipped"

	ErrMsgFailedSeedCatalog = "failed to seed default catalog"
	ErrMsgFailedSeedStore   = "failed to create default store"
)

// =============================================================================
// Run / Shutdown
// =============================================================================

const (
	// ShutdownTimeout bounds graceful shutdown after a stop signal
	ShutdownTimeout = 15 * time.Second

	LogMsgServerListening       = "Server listening"
	LogMsgShutdownSignal        = "Shutdown signal received"
	LogMsgShuttingDownServer    = "Shutting down server..."
	LogMsgShuttingDownRelay     = "Closing relay channels..."
	LogMsgServerStopped         = "Server stopped"
	LogMsgServerForcedShutdown  = "Server forced to shutdown"
	LogMsgDeadLetterCloseFailed = "Dead-letter file close failed"
	LogMsgServerFailed          = "Server failed"
)
