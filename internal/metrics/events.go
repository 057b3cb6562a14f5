package metrics

import (
	"context"

	"github.com/osse101/posrelay/internal/event"
	"github.com/osse101/posrelay/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	bus.Subscribe(event.CatalogUpdated, e.HandleEvent)
	bus.Subscribe(event.SalesIngested, e.HandleEvent)
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.CatalogUpdated:
		source, _ := evt.GetMetadataValue(event.MetadataKeySource).(string)
		CatalogWrites.WithLabelValues(source).Inc()
	case event.SalesIngested:
		if _, err := event.DecodePayload[event.SalesIngestedPayloadV1](evt.Payload); err != nil {
			logger.FromContext(ctx).Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		}
	}
	return nil
}
