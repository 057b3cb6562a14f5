package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgCategoriesRequired    = "Categories data required"
	ErrMsgInvalidSale           = "Invalid sale data"
	ErrMsgPasswordRequired      = "Password required"
	ErrMsgWrongPassword         = "Incorrect password"
)

// Success messages for API responses
const (
	MsgConfigSaved  = "Configuration saved successfully"
	MsgSaleSaved    = "Sale saved successfully"
	MsgSaleExisted  = "Sale already recorded"
	MsgStoreSaved   = "Store saved successfully"
	MsgStoreDeleted = "Store deleted successfully"
)

// Log messages
const (
	LogMsgDecodeFailed     = "Failed to decode request"
	LogMsgRequestDecoded   = "Request decoded"
	LogMsgServiceError     = "Service call failed"
	LogMsgReadinessFailed  = "Readiness check failed"
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response buffer"
	LogMsgLocalIPUndefined = "No external IPv4 interface found, advertising localhost"
)
