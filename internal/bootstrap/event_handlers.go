package bootstrap

import (
	"log/slog"

	"github.com/osse101/posrelay/internal/event"
	"github.com/osse101/posrelay/internal/metrics"
	"github.com/osse101/posrelay/internal/relay"
	"github.com/osse101/posrelay/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Relay    *relay.Hub
	Events   *sse.Hub
}

// RegisterEventHandlers sets up all event subscribers:
// - Metrics collector (catalog writes, sales stored)
// - Relay hub (config_updated and new_data to registers)
// - SSE hub (read-only mirror for dashboards)
func RegisterEventHandlers(deps EventHandlerDependencies) {
	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	relay.NewSubscriber(deps.Relay, deps.EventBus).Subscribe()
	slog.Info(LogMsgRelaySubscribed)

	if deps.Events != nil {
		sse.NewSubscriber(deps.Events, deps.EventBus).Subscribe()
		slog.Info(LogMsgSSESubscribed)
	}
}
