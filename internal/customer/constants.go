package customer

// Result limits
const (
	SearchLimit = 50
	ListLimit   = 500
)

// Log messages
const (
	LogMsgCustomerSaved = "Customer saved"
)
