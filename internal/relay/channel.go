package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/osse101/posrelay/internal/logger"
	"github.com/osse101/posrelay/internal/metrics"
)

// Channel is one live client connection
type Channel struct {
	id    string
	hub   *Hub
	conn  *websocket.Conn
	send  chan outbound
	token string
}

// ID returns the transport-assigned channel id
func (c *Channel) ID() string {
	return c.id
}

// readPump reads frames until the connection fails, then unregisters the channel
func (c *Channel) readPump(ctx context.Context) {
	defer func() {
		c.hub.disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.FromContext(ctx).Debug(LogMsgReadFailed, "channel_id", c.id, "error", err)
			}
			return
		}

		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil || f.Event == "" {
			logger.FromContext(ctx).Debug(LogMsgMalformedFrame, "channel_id", c.id)
			continue
		}
		c.hub.handleFrame(ctx, c, f)
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
// It exits when the hub closes the queue.
func (c *Channel) writePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
				slog.Debug(LogMsgReadFailed, "channel_id", c.id, "error", err)
				return
			}
			metrics.RelayFramesSent.WithLabelValues(msg.event).Inc()

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func decodeData(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(data, v)
}
