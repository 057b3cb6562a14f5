package syncagent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/relay"
)

// connectLoop keeps one relay channel open, redialling after a fixed delay
func (a *Agent) connectLoop(ctx context.Context) {
	defer a.wg.Done()

	for {
		select {
		case <-a.shutdown:
			return
		case <-ctx.Done():
			return
		default:
		}

		if err := a.connect(ctx); err != nil && !a.isClosed() {
			slog.Warn(LogMsgReconnecting, "error", err, "delay", a.cfg.ReconnectDelay)
		}

		select {
		case <-time.After(a.cfg.ReconnectDelay):
		case <-a.redial:
		case <-a.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (a *Agent) relayURL() (string, error) {
	u, err := url.Parse(a.api.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + PathRelay

	a.mu.RLock()
	token := a.token
	a.mu.RUnlock()
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (a *Agent) connect(ctx context.Context) error {
	target, err := a.relayURL()
	if err != nil {
		return err
	}
	slog.Debug(LogMsgConnecting, "server", a.api.baseURL)

	dialer := websocket.Dialer{
		ReadBufferSize:   ReadBufferSize,
		WriteBufferSize:  WriteBufferSize,
		HandshakeTimeout: HTTPTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect: %w (status: %s)", err, resp.Status)
		}
		return fmt.Errorf("failed to connect: %w", err)
	}

	a.connMu.Lock()
	if a.isClosed() {
		a.connMu.Unlock()
		_ = conn.Close()
		return nil
	}
	a.conn = conn
	a.connMu.Unlock()
	defer a.dropConn()

	slog.Info(LogMsgConnected, "server", a.api.baseURL)
	return a.readLoop(conn)
}

// dropConn closes the current channel, which ends its read loop
func (a *Agent) dropConn() {
	a.connMu.Lock()
	defer a.connMu.Unlock()
	if a.conn != nil {
		_ = a.conn.Close()
		a.conn = nil
	}
	a.connID = ""
}

// reconnect drops the channel and skips the reconnect delay once
func (a *Agent) reconnect() {
	a.dropConn()
	select {
	case a.redial <- struct{}{}:
	default:
	}
}

func (a *Agent) readLoop(conn *websocket.Conn) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || a.isClosed() {
				return nil
			}
			slog.Warn(LogMsgReadError, "error", err)
			return err
		}

		var f relay.Frame
		if err := json.Unmarshal(msg, &f); err != nil {
			continue
		}
		a.handleFrame(f)
	}
}

func (a *Agent) handleFrame(f relay.Frame) {
	if a.isClosed() {
		return
	}

	switch f.Event {
	case relay.EventConnected:
		var p relay.ConnectedPayload
		if json.Unmarshal(f.Data, &p) == nil {
			a.connMu.Lock()
			a.connID = p.ID
			a.connMu.Unlock()
		}
		// A register joining the relay asks whether a master is online so
		// it picks up the master's catalog. The master itself has nothing to ask.
		if !a.answersMaster() {
			if err := a.RequestMaster(); err != nil {
				slog.Warn(LogMsgRequestMasterFail, "error", err)
			}
		}

	case relay.EventConfigUpdated:
		var p relay.ConfigUpdatedPayload
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return
		}
		if p.StoreID != a.cfg.StoreID {
			slog.Debug(LogMsgOtherStore, "store_id", p.StoreID)
			return
		}
		a.Adopt(p.Categories, p.Version)
		a.transition(StateReady, StateLoading, StateOffline)

	case relay.EventNewData:
		var tickets []domain.ClosedTicket
		if err := json.Unmarshal(f.Data, &tickets); err != nil {
			return
		}
		if cb := a.cfg.OnNewData; cb != nil {
			cb(tickets)
		}

	case relay.EventAskMaster:
		a.answerMaster()

	case relay.EventUploadRejected:
		var p relay.UploadRejectedPayload
		if json.Unmarshal(f.Data, &p) == nil {
			slog.Warn(LogMsgUploadRejected, "reason", p.Reason, "current_version", p.CurrentVersion)
		}
	}
}

// answersMaster reports whether this register uploads its catalog on
// sync:ask_master. Uploads always land on the global catalog, so only a
// master register following the global catalog answers.
func (a *Agent) answersMaster() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.role == domain.RoleMaster && a.token != "" && a.cfg.StoreID == ""
}

// answerMaster uploads the held catalog when this register is the master
func (a *Agent) answerMaster() {
	if !a.answersMaster() {
		return
	}
	a.mu.RLock()
	has := a.has
	categories, version := a.catalog, a.version
	a.mu.RUnlock()

	if !has {
		return
	}
	slog.Info(LogMsgAnsweringMaster, "version", version)
	if err := a.send(relay.EventMasterUpload, relay.MasterUploadPayload{Categories: categories, BaseVersion: &version}); err != nil {
		slog.Warn(LogMsgSendFailed, "error", err)
	}
}

// RequestMaster asks every other register to have its master upload
func (a *Agent) RequestMaster() error {
	return a.send(relay.EventRequestMaster, nil)
}

// ChannelID returns the id the relay assigned to the current channel
func (a *Agent) ChannelID() string {
	a.connMu.Lock()
	defer a.connMu.Unlock()
	return a.connID
}

// Connected reports whether a relay channel is open
func (a *Agent) Connected() bool {
	a.connMu.Lock()
	defer a.connMu.Unlock()
	return a.conn != nil
}

func (a *Agent) send(event string, payload interface{}) error {
	data, err := relay.EncodeFrame(event, payload)
	if err != nil {
		return err
	}

	a.connMu.Lock()
	conn := a.conn
	a.connMu.Unlock()
	if conn == nil {
		return fmt.Errorf("not connected to relay")
	}

	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}
