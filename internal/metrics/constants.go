package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Relay metric names
const (
	MetricNameRelayConnections     = "relay_connections"
	MetricNameRelayFramesReceived  = "relay_frames_received_total"
	MetricNameRelayFramesSent      = "relay_frames_sent_total"
	MetricNameRelaySlowConsumers   = "relay_slow_consumers_dropped_total"
	MetricNameRelayUploadsRejected = "relay_uploads_rejected_total"
	MetricNameSSEClients           = "sse_clients"
)

// Business metric names
const (
	MetricNameCatalogWrites       = "catalog_writes_total"
	MetricNameCatalogConflicts    = "catalog_version_conflicts_total"
	MetricNameCatalogCacheLookups = "catalog_cache_lookups_total"
	MetricNameSalesStored         = "sales_stored_total"
	MetricNameSalesRevenue        = "sales_revenue_total"
	MetricNameLoginAttempts       = "login_attempts_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Relay metric help text
const (
	HelpTextRelayConnections     = "Current number of open relay channels"
	HelpTextRelayFramesReceived  = "Relay frames received from clients by event name"
	HelpTextRelayFramesSent      = "Relay frames queued to clients by event name"
	HelpTextRelaySlowConsumers   = "Relay channels closed because their send queue was full"
	HelpTextRelayUploadsRejected = "Master uploads rejected by reason"
	HelpTextSSEClients           = "Current number of SSE subscribers"
)

// Business metric help text
const (
	HelpTextCatalogWrites       = "Committed catalog writes by write path"
	HelpTextCatalogConflicts    = "Catalog writes rejected by the optimistic version check"
	HelpTextCatalogCacheLookups = "Catalog read cache lookups by result"
	HelpTextSalesStored         = "Closed tickets received by persistence result"
	HelpTextSalesRevenue        = "Sum of stored ticket totals by ticket type"
	HelpTextLoginAttempts       = "Login attempts by result"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelType       = "type"
	LabelEvent      = "event"
	LabelReason     = "reason"
	LabelSource     = "source"
	LabelResult     = "result"
	LabelTicketType = "ticket_type"
)

// Label values
const (
	ResultHit       = "hit"
	ResultMiss      = "miss"
	ResultStored    = "stored"
	ResultDuplicate = "duplicate"
	ResultFailed    = "failed"
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	PathUnmatched   = "unmatched"
)

// HTTPLatencyBuckets are histogram buckets for HTTP latency in seconds
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Log messages
const (
	LogMsgEventPayloadDecodeFailed = "Failed to decode event payload for metrics"
)
