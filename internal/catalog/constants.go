package catalog

// Log messages
const (
	LogMsgCatalogSaved    = "Catalog saved"
	LogMsgSaveFailed      = "Failed to save catalog"
	LogMsgVersionConflict = "Catalog write rejected by version check"
	LogMsgPublishFailed   = "Failed to publish catalog update"
)
