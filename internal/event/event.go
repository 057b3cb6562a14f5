package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/posrelay/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Event types
const (
	CatalogUpdated Type = "catalog.updated"
	SalesIngested  Type = "sales.ingested"
)

// CatalogUpdatedPayloadV1 is published after a catalog write commits
type CatalogUpdatedPayloadV1 struct {
	StoreID    string         `json:"storeId,omitempty"`
	Categories domain.Catalog `json:"categories"`
	Version    int64          `json:"version"`
}

// SalesIngestedPayloadV1 carries tickets received by the sales endpoints
type SalesIngestedPayloadV1 struct {
	Tickets []domain.ClosedTicket `json:"tickets"`
}

// NewCatalogUpdatedEvent builds a catalog.updated event from a committed record.
// source names the write path ("rest" or "relay").
func NewCatalogUpdatedEvent(rec *domain.CatalogRecord, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CatalogUpdated,
		Payload: CatalogUpdatedPayloadV1{
			StoreID:    rec.StoreID,
			Categories: rec.Categories,
			Version:    rec.Version,
		},
		Metadata: Metadata{MetadataKeySource: source},
	}
}

// NewSalesIngestedEvent builds a sales.ingested event
func NewSalesIngestedEvent(tickets []domain.ClosedTicket) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SalesIngested,
		Payload: SalesIngestedPayloadV1{Tickets: tickets},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously in subscription order
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
