package syncagent

import "time"

// Default timing
const (
	// DefaultLoadTimeout is the single delayed re-check after Start
	DefaultLoadTimeout = 8 * time.Second

	// DefaultReconnectDelay is the fixed pause between relay reconnect attempts
	DefaultReconnectDelay = 2 * time.Second

	// DefaultSyncInterval is how often pending tickets are pushed while Ready
	DefaultSyncInterval = 30 * time.Second

	// OutboundQueueSize bounds ticket posts waiting to be sent
	OutboundQueueSize = 256

	// MaxSyncAttempts is how many bulk syncs may reject a ticket before the
	// register stops resending it. The ticket stays in the cache.
	MaxSyncAttempts = 5

	// HTTPTimeout bounds every REST call
	HTTPTimeout = 10 * time.Second

	// WriteTimeout is the timeout for writing relay frames
	WriteTimeout = 10 * time.Second

	// ReadBufferSize is the WebSocket read buffer size
	ReadBufferSize = 4096

	// WriteBufferSize is the WebSocket write buffer size
	WriteBufferSize = 4096
)

// REST and relay paths on the server
const (
	PathConfig = "/api/config"
	PathSales  = "/api/sales"
	PathSync   = "/api/sync"
	PathLogin  = "/api/login"
	PathRelay  = "/ws"
)

// Cache buckets and keys
const (
	BucketSession = "session"
	BucketTickets = "tickets"

	KeyCatalog = "catalog"
	KeyRole    = "role"
	KeyToken   = "token"
)

// Log messages
const (
	LogMsgFetchFailed       = "Catalog fetch failed"
	LogMsgCatalogAdopted    = "Catalog adopted"
	LogMsgCatalogStale      = "Discarding stale catalog"
	LogMsgOtherStore        = "Ignoring catalog update for another store"
	LogMsgStateChanged      = "Sync state changed"
	LogMsgConnecting        = "Connecting to relay"
	LogMsgConnected         = "Connected to relay"
	LogMsgReconnecting      = "Relay connection lost, reconnecting"
	LogMsgReadError         = "Error reading from relay"
	LogMsgUploadRejected    = "Catalog upload rejected by relay"
	LogMsgAnsweringMaster   = "Answering master request with local catalog"
	LogMsgRequestMasterFail = "Failed to ask relay for a master"
	LogMsgSendFailed        = "Failed to send frame to relay"
	LogMsgTicketsAbandoned  = "Giving up on tickets the server keeps rejecting"
	LogMsgCacheWriteFailed  = "Failed to write local cache"
	LogMsgSalePostFailed    = "Failed to send closed ticket, kept locally"
	LogMsgPendingSynced     = "Pending tickets synced"
	LogMsgClientStopped     = "Sync agent stopped"
	LogMsgMalformedResponse = "Server response was not JSON"
)
