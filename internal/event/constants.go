package event

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"
)

// Metadata keys and values
const (
	MetadataKeySource = "source"
	SourceREST        = "rest"
	SourceRelay       = "relay"
	SourceSeed        = "seed"
)

// Log message constants
const (
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)
