package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Relay Metrics
var (
	RelayConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameRelayConnections,
			Help: HelpTextRelayConnections,
		},
	)

	RelayFramesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRelayFramesReceived,
			Help: HelpTextRelayFramesReceived,
		},
		[]string{LabelEvent},
	)

	RelayFramesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRelayFramesSent,
			Help: HelpTextRelayFramesSent,
		},
		[]string{LabelEvent},
	)

	RelaySlowConsumersDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRelaySlowConsumers,
			Help: HelpTextRelaySlowConsumers,
		},
	)

	RelayUploadsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRelayUploadsRejected,
			Help: HelpTextRelayUploadsRejected,
		},
		[]string{LabelReason},
	)

	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSSEClients,
			Help: HelpTextSSEClients,
		},
	)
)

// Business Metrics
var (
	CatalogWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatalogWrites,
			Help: HelpTextCatalogWrites,
		},
		[]string{LabelSource},
	)

	CatalogConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCatalogConflicts,
			Help: HelpTextCatalogConflicts,
		},
	)

	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatalogCacheLookups,
			Help: HelpTextCatalogCacheLookups,
		},
		[]string{LabelResult},
	)

	SalesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSalesStored,
			Help: HelpTextSalesStored,
		},
		[]string{LabelResult},
	)

	SalesRevenue = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSalesRevenue,
			Help: HelpTextSalesRevenue,
		},
		[]string{LabelTicketType},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLoginAttempts,
			Help: HelpTextLoginAttempts,
		},
		[]string{LabelResult},
	)
)
