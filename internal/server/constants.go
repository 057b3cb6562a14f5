package server

// HTTP error messages for middleware responses
const (
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "⚠️ SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "⚠️ SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
)

// HTTP header names
const (
	HeaderAuthorization  = "Authorization"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
	HeaderOrigin         = "Origin"
	HeaderVary           = "Vary"
	HeaderAllowOrigin    = "Access-Control-Allow-Origin"
	HeaderAllowMethods   = "Access-Control-Allow-Methods"
	HeaderAllowHeaders   = "Access-Control-Allow-Headers"
	HeaderMaxAge         = "Access-Control-Max-Age"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
	HeaderValueCORSMethods          = "GET, POST, DELETE, OPTIONS"
	HeaderValueCORSHeaders          = "Authorization, Content-Type"
	HeaderValueCORSMaxAge           = "600"
)

// Abuse detection thresholds, counted per client IP within DetectorWindow
const (
	FailedAuthAlertThreshold = 5
	RequestRateLimit         = 1000
	HighRateLogEvery         = 100
)

// Request limits. Catalog uploads carry product lists, so the body limit
// matches the relay frame limit.
const (
	MaxRequestBodyBytes = 4 << 20
)

// Paths that skip request logging
var QuietPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)
