package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/posrelay/internal/config"
	"github.com/osse101/posrelay/internal/event"
	"github.com/osse101/posrelay/internal/sales"
)

// InitializeEventSystem creates the in-process event bus and, when
// DEAD_LETTER_PATH is set, the file receiving tickets a bulk sync failed to store.
// The dead letter is nil when disabled.
func InitializeEventSystem(cfg *config.Config) (*event.MemoryBus, *sales.FileDeadLetter, error) {
	bus := event.NewMemoryBus()

	if cfg.DeadLetterPath == "" {
		slog.Info(LogMsgEventSystemInitialized, "deadletter_path", "")
		return bus, nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DeadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateDeadLetterDir, err)
	}

	deadLetter, err := sales.NewFileDeadLetter(cfg.DeadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenDeadLetter, err)
	}

	slog.Info(LogMsgEventSystemInitialized, "deadletter_path", cfg.DeadLetterPath)
	return bus, deadLetter, nil
}
