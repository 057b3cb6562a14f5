package stores

// Log messages
const (
	LogMsgStoreSaved          = "Store saved"
	LogMsgStoreDeleted        = "Store deleted"
	LogMsgVerifyFailed        = "Store password verification failed"
	LogMsgDefaultStoreCreated = "Created default store"
)
