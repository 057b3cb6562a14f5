package relay

import "time"

// Frame event names
const (
	EventConnected      = "connected"
	EventRequestMaster  = "sync:request_master"
	EventAskMaster      = "sync:ask_master"
	EventMasterUpload   = "sync:master_upload"
	EventUploadRejected = "sync:upload_rejected"
	EventConfigUpdated  = "config_updated"
	EventNewData        = "new_data"
)

// Upload rejection reasons
const (
	ReasonUnauthorized    = "unauthorized"
	ReasonTokenExpired    = "token_expired"
	ReasonForbidden       = "forbidden"
	ReasonVersionConflict = "version_conflict"
	ReasonInvalidCatalog  = "invalid_catalog"
	ReasonInvalidPayload  = "invalid_payload"
)

// Buffer sizes
const (
	// ChannelSendBuffer is the number of frames queued per channel before it is dropped
	ChannelSendBuffer = 64

	// BroadcastBufferSize is the buffer size for the hub's broadcast queue
	BroadcastBufferSize = 256
)

// Connection settings
const (
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 4 << 20
	UploadTimeout  = 15 * time.Second
)

// Log messages
const (
	LogMsgChannelConnected    = "Relay channel connected"
	LogMsgChannelDisconnected = "Relay channel disconnected"
	LogMsgSlowConsumer        = "Dropping slow relay channel"
	LogMsgUpgradeFailed       = "WebSocket upgrade failed"
	LogMsgReadFailed          = "Relay read failed"
	LogMsgMalformedFrame      = "Ignoring malformed relay frame"
	LogMsgUnknownEvent        = "Ignoring unknown relay event"
	LogMsgUploadRejected      = "Master upload rejected"
	LogMsgUploadFailed        = "Master upload could not be persisted"
	LogMsgUploadAccepted      = "Master upload persisted"
	LogMsgEncodeFailed        = "Failed to encode relay frame"
	LogMsgDecodeFailed        = "Failed to decode event payload for relay"
	LogMsgSubscriberReady     = "Relay subscriber registered for event types"
)
