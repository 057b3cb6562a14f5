package relay

import (
	"encoding/json"

	"github.com/osse101/posrelay/internal/domain"
)

// Frame is the JSON envelope of every WebSocket message in both directions
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ConnectedPayload announces the transport-assigned channel id
type ConnectedPayload struct {
	ID string `json:"id"`
}

// AskMasterPayload is relayed to every other channel on sync:request_master
type AskMasterPayload struct {
	RequesterID string `json:"requesterId"`
}

// MasterUploadPayload is sent by a master in answer to sync:ask_master.
// BaseVersion is the catalog version the master last observed.
type MasterUploadPayload struct {
	Categories  domain.Catalog `json:"categories"`
	BaseVersion *int64         `json:"baseVersion,omitempty"`
}

// UploadRejectedPayload tells the uploader why nothing was written
type UploadRejectedPayload struct {
	Reason         string `json:"reason"`
	CurrentVersion int64  `json:"currentVersion"`
}

// ConfigUpdatedPayload is broadcast after a catalog write commits
type ConfigUpdatedPayload struct {
	Categories domain.Catalog `json:"categories"`
	StoreID    string         `json:"storeId,omitempty"`
	Version    int64          `json:"version"`
}

// EncodeFrame marshals an event and its payload into a wire frame.
// A nil payload produces a frame without data.
func EncodeFrame(event string, payload interface{}) ([]byte, error) {
	f := Frame{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		f.Data = data
	}
	return json.Marshal(f)
}
