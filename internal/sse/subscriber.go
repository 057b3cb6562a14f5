package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/event"
)

// ConfigUpdatedPayload mirrors the relay's config_updated frame
type ConfigUpdatedPayload struct {
	Categories domain.Catalog `json:"categories"`
	StoreID    string         `json:"storeId,omitempty"`
	Version    int64          `json:"version"`
}

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers handlers for catalog and sales events
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.CatalogUpdated, s.handleCatalogUpdated)
	s.bus.Subscribe(event.SalesIngested, s.handleSalesIngested)

	slog.Info(LogMsgSubscriberReady,
		"types", []string{string(event.CatalogUpdated), string(event.SalesIngested)})
}

func (s *Subscriber) handleCatalogUpdated(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.CatalogUpdatedPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}
	s.hub.Broadcast(EventTypeConfigUpdated, ConfigUpdatedPayload{
		Categories: payload.Categories,
		StoreID:    payload.StoreID,
		Version:    payload.Version,
	})
	return nil
}

func (s *Subscriber) handleSalesIngested(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.SalesIngestedPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}
	if len(payload.Tickets) == 0 {
		return nil
	}
	s.hub.Broadcast(EventTypeNewData, payload.Tickets)
	return nil
}
