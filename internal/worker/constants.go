package worker

// Log messages
const (
	LogMsgWorkerJobFailed = "Background job failed"
)
