package relay

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/osse101/posrelay/internal/auth"
	"github.com/osse101/posrelay/internal/catalog"
	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/event"
	"github.com/osse101/posrelay/internal/logger"
	"github.com/osse101/posrelay/internal/metrics"
)

// CatalogWriter persists uploaded catalogs
type CatalogWriter interface {
	Save(ctx context.Context, storeID string, categories domain.Catalog, baseVersion *int64, source string) (*domain.CatalogRecord, error)
	CurrentVersion(ctx context.Context, storeID string) int64
}

// TokenVerifier validates capability tokens presented at connect time
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// Options configures the hub
type Options struct {
	// AllowedOrigins restricts browser origins; empty or "*" accepts any
	AllowedOrigins []string
}

type outbound struct {
	event   string
	data    []byte
	exclude string
	target  string
}

// Hub holds the live WebSocket channels and fans frames out to them.
// Every channel has its own writer goroutine fed by a bounded queue, so frames
// reach each client in the order the hub emitted them.
type Hub struct {
	catalog  CatalogWriter
	tokens   TokenVerifier
	upgrader websocket.Upgrader

	channels  map[string]*Channel
	stopped   bool
	broadcast chan outbound
	mu        sync.RWMutex
	shutdown  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewHub creates a relay hub. Call Start before serving connections.
func NewHub(writer CatalogWriter, tokens TokenVerifier, opts Options) *Hub {
	h := &Hub{
		catalog:   writer,
		tokens:    tokens,
		channels:  make(map[string]*Channel),
		broadcast: make(chan outbound, BroadcastBufferSize),
		shutdown:  make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}
	return h
}

// Start starts the hub's dispatch loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop shuts the hub down and closes every channel
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		h.stopped = true
		for _, ch := range h.channels {
			h.remove(ch)
		}
		h.mu.Unlock()
	})
}

// ClientCount returns the number of connected channels
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case msg := <-h.broadcast:
			h.deliver(msg)

		case <-h.shutdown:
			return
		}
	}
}

// deliver queues msg on each addressed channel. A channel whose queue is
// full is closed instead of blocking the others.
func (h *Hub) deliver(msg outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.channels {
		if id == msg.exclude || (msg.target != "" && id != msg.target) {
			continue
		}
		select {
		case ch.send <- msg:
		default:
			slog.Warn(LogMsgSlowConsumer, "channel_id", id, "event", msg.event)
			metrics.RelaySlowConsumersDropped.Inc()
			h.remove(ch)
		}
	}
}

// remove must be called with h.mu held
func (h *Hub) remove(ch *Channel) {
	if current, ok := h.channels[ch.id]; ok && current == ch {
		delete(h.channels, ch.id)
		close(ch.send)
		metrics.RelayConnections.Dec()
	}
}

// Broadcast sends event to every connected channel
func (h *Hub) Broadcast(event string, payload interface{}) {
	h.enqueue(event, payload, "", "")
}

func (h *Hub) broadcastExcept(exclude, event string, payload interface{}) {
	h.enqueue(event, payload, exclude, "")
}

func (h *Hub) sendTo(target, event string, payload interface{}) {
	h.enqueue(event, payload, "", target)
}

func (h *Hub) enqueue(evt string, payload interface{}, exclude, target string) {
	data, err := EncodeFrame(evt, payload)
	if err != nil {
		slog.Error(LogMsgEncodeFailed, "event", evt, "error", err)
		return
	}
	select {
	case h.broadcast <- outbound{event: evt, data: data, exclude: exclude, target: target}:
	case <-h.shutdown:
	}
}

// ServeWS upgrades the request and serves the channel until it disconnects.
// A capability token may be supplied as ?token= or an Authorization header;
// it is checked on each upload, not at connect time.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn(LogMsgUpgradeFailed, "error", err)
		return
	}

	ch := &Channel{
		id:    uuid.New().String(),
		hub:   h,
		conn:  conn,
		send:  make(chan outbound, ChannelSendBuffer),
		token: auth.TokenFromRequest(r),
	}

	hello, err := EncodeFrame(EventConnected, ConnectedPayload{ID: ch.id})
	if err != nil {
		conn.Close()
		return
	}
	ch.send <- outbound{event: EventConnected, data: hello}

	if !h.add(ch) {
		conn.Close()
		return
	}

	ctx := logger.WithRequestID(context.Background(), ch.id)
	slog.Info(LogMsgChannelConnected, "channel_id", ch.id, "remote_addr", r.RemoteAddr, "authenticated", ch.token != "")

	go ch.writePump()
	ch.readPump(ctx)

	slog.Info(LogMsgChannelDisconnected, "channel_id", ch.id)
}

// add registers ch before its writer starts, so any frame emitted after
// the client sees "connected" reaches it
func (h *Hub) add(ch *Channel) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return false
	}
	h.channels[ch.id] = ch
	metrics.RelayConnections.Inc()
	return true
}

func (h *Hub) disconnect(ch *Channel) {
	h.mu.Lock()
	h.remove(ch)
	h.mu.Unlock()
}

func (h *Hub) handleFrame(ctx context.Context, ch *Channel, f Frame) {
	metrics.RelayFramesReceived.WithLabelValues(f.Event).Inc()

	switch f.Event {
	case EventRequestMaster:
		h.broadcastExcept(ch.id, EventAskMaster, AskMasterPayload{RequesterID: ch.id})
	case EventMasterUpload:
		h.handleUpload(ctx, ch, f)
	default:
		logger.FromContext(ctx).Debug(LogMsgUnknownEvent, "event", f.Event)
	}
}

// handleUpload persists a master's catalog. The catalog service publishes
// catalog.updated only after the write commits, and the bus subscriber turns
// that into config_updated for every channel including this one.
func (h *Hub) handleUpload(ctx context.Context, ch *Channel, f Frame) {
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	var payload MasterUploadPayload
	if err := decodeData(f.Data, &payload); err != nil || payload.Categories == nil {
		h.reject(ctx, ch, ReasonInvalidPayload, 0)
		return
	}

	if reason := h.authorizeUpload(ch.token); reason != "" {
		h.reject(ctx, ch, reason, 0)
		return
	}

	rec, err := h.catalog.Save(ctx, "", payload.Categories, payload.BaseVersion, event.SourceRelay)
	var conflict *catalog.VersionConflictError
	switch {
	case err == nil:
		log.Info(LogMsgUploadAccepted, "channel_id", ch.id, "version", rec.Version)
	case errors.As(err, &conflict):
		h.reject(ctx, ch, ReasonVersionConflict, conflict.Current)
	case errors.Is(err, domain.ErrVersionConflict):
		h.reject(ctx, ch, ReasonVersionConflict, 0)
	case errors.Is(err, domain.ErrInvalidCatalog):
		h.reject(ctx, ch, ReasonInvalidCatalog, 0)
	default:
		log.Error(LogMsgUploadFailed, "channel_id", ch.id, "error", err)
	}
}

func (h *Hub) authorizeUpload(token string) string {
	if token == "" {
		return ReasonUnauthorized
	}
	claims, err := h.tokens.Verify(token)
	if errors.Is(err, domain.ErrTokenExpired) {
		return ReasonTokenExpired
	}
	if err != nil {
		return ReasonUnauthorized
	}
	if claims.Role != domain.RoleMaster {
		return ReasonForbidden
	}
	return ""
}

// reject answers only the uploader. A zero current version is looked up.
func (h *Hub) reject(ctx context.Context, ch *Channel, reason string, current int64) {
	if current == 0 {
		current = h.catalog.CurrentVersion(ctx, "")
	}
	metrics.RelayUploadsRejected.WithLabelValues(reason).Inc()
	logger.FromContext(ctx).Warn(LogMsgUploadRejected, "channel_id", ch.id, "reason", reason, "current_version", current)
	h.sendTo(ch.id, EventUploadRejected, UploadRejectedPayload{Reason: reason, CurrentVersion: current})
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
