package auth

// Token transport
const (
	HeaderAuthorization = "Authorization"
	BearerPrefix        = "bearer "
	QueryParamToken     = "token"
	TokenIssuerName     = "posrelay"
)

// Log messages
const (
	LogMsgLoginSucceeded = "Login succeeded"
	LogMsgLoginFailed    = "Login failed"
	LogMsgTokenRejected  = "Capability token rejected"
	LogMsgRoleForbidden  = "Capability token role not allowed"
)
