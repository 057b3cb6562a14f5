package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second
)

// Event types for SSE. Catalog and sales events reuse the relay frame names
// so dashboards and registers see the same vocabulary.
const (
	EventTypeConnected     = "connected"
	EventTypeConfigUpdated = "config_updated"
	EventTypeNewData       = "new_data"
	EventTypeKeepalive     = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgBroadcastDropped   = "SSE broadcast buffer full, dropping event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgDecodeFailed       = "Failed to decode event payload for SSE"
	LogMsgSubscriberReady    = "SSE subscriber registered for event types"
)
