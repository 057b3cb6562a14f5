package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/posrelay/internal/database"
	"github.com/osse101/posrelay/internal/relay"
	"github.com/osse101/posrelay/internal/server"
	"github.com/osse101/posrelay/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server     *server.Server
	Relay      *relay.Hub
	Events     *sse.Hub
	DeadLetter io.Closer
	DB         database.Pool
}

// GracefulShutdown stops components in dependency order:
// 1. SSE hub, so streaming requests return and do not hold up the server
// 2. HTTP server (stop accepting requests and upgrades)
// 3. Relay hub (close channels to registers)
// 4. Dead-letter file, then the database
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	if c.Events != nil {
		c.Events.Stop()
	}

	slog.Info(LogMsgShuttingDownServer)
	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(LogMsgShuttingDownRelay)
	if c.Relay != nil {
		c.Relay.Stop()
	}

	if c.DeadLetter != nil {
		if err := c.DeadLetter.Close(); err != nil {
			slog.Error(LogMsgDeadLetterCloseFailed, "error", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}

	slog.Info(LogMsgServerStopped)
}
