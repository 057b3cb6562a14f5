package sales

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/logger"
)

// DeadLetterSchemaVersion is the current version of the dead-letter line format
const DeadLetterSchemaVersion = "1.0"

// DeadLetterEntry is one JSON line of the dead-letter file
type DeadLetterEntry struct {
	SchemaVersion string              `json:"schema_version"`
	Timestamp     time.Time           `json:"timestamp"`
	Ticket        domain.ClosedTicket `json:"ticket"`
	Error         string              `json:"error,omitempty"`
}

// FileDeadLetter appends failed tickets to a JSONL file so they can be replayed
type FileDeadLetter struct {
	file *os.File
	mu   sync.Mutex
}

// NewFileDeadLetter opens (or creates) the dead-letter file for appending
func NewFileDeadLetter(path string) (*FileDeadLetter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, err
	}
	return &FileDeadLetter{file: f}, nil
}

// Write appends one ticket
func (d *FileDeadLetter) Write(t domain.ClosedTicket, cause error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now().UTC(),
		Ticket:        t,
	}
	if cause != nil {
		entry.Error = cause.Error()
	}

	logger.Warn(LogMsgTicketDeadLettered, "ticket_id", t.ID, "error", entry.Error)

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = d.file.Write(append(data, '\n'))
	return err
}

// Close closes the dead-letter file
func (d *FileDeadLetter) Close() error {
	return d.file.Close()
}
