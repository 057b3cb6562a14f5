package sales

// ListLimit caps the number of tickets returned by List
const ListLimit = 1000

// DeadLetterFilePermissions is the file mode of the dead-letter file
const DeadLetterFilePermissions = 0644

// Log messages
const (
	LogMsgTicketStored          = "Ticket stored"
	LogMsgDuplicateTicket       = "Ticket already stored, ignoring"
	LogMsgInsertFailed          = "Failed to store ticket"
	LogMsgSyncCompleted         = "Bulk sync completed"
	LogMsgSyncTicketFailed      = "Bulk sync ticket not stored"
	LogMsgTicketDeadLettered    = "Ticket written to dead letter"
	LogMsgDeadLetterWriteFailed = "Failed to write dead letter"
	LogMsgPublishFailed         = "Failed to publish sales event"
)
