// Package syncagent is the register side of the relay: it keeps a locally
// cached catalog, reconciles it with the server, answers master requests
// and forwards closed tickets.
package syncagent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/scheduler"
	"github.com/osse101/posrelay/internal/ticket"
	"github.com/osse101/posrelay/internal/worker"
)

// State is the agent's view of catalog freshness
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
	StateOffline State = "offline"
)

// ErrClosed is returned by operations on a closed agent
var ErrClosed = errors.New("sync agent closed")

// ErrNotOffline is returned by ContinueOffline outside the Offline state
var ErrNotOffline = errors.New("agent is not offline")

// ErrNoCatalog is returned when a ticket or upload needs a catalog the agent does not have
var ErrNoCatalog = errors.New("no catalog loaded")

// Config configures an Agent
type Config struct {
	// ServerURL is the relay's HTTP base URL, e.g. http://192.168.1.20:3001
	ServerURL string
	// StoreID scopes the catalog; empty selects the global catalog
	StoreID string
	// CachePath is the bbolt file holding the local cache
	CachePath string

	LoadTimeout    time.Duration
	ReconnectDelay time.Duration
	// SyncInterval is how often pending tickets are pushed while Ready
	SyncInterval time.Duration
	HTTPClient   *http.Client

	// OnStateChange and OnNewData are called outside the agent's lock
	OnStateChange func(State)
	OnNewData     func([]domain.ClosedTicket)
}

// Agent keeps one register's catalog in sync with the relay
type Agent struct {
	cfg   Config
	api   *apiClient
	cache *Cache

	mu      sync.RWMutex
	state   State
	catalog domain.Catalog
	version int64
	has     bool // a catalog is held, cached or live
	live    bool // the held catalog came from the server in this session
	role    domain.Role
	token   string
	open    *ticket.Ticket
	closed  bool

	connMu  sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex
	connID  string

	// outbound runs ticket posts and bulk syncs one at a time
	outbound *worker.Pool
	sched    *scheduler.Scheduler

	shutdown chan struct{}
	redial   chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	timer    *time.Timer
}

// New opens the local cache and restores the last catalog and session
func New(cfg Config) (*Agent, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server url required")
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = DefaultSyncInterval
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: HTTPTimeout}
	}

	cache, err := OpenCache(cfg.CachePath)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		cfg:      cfg,
		api:      &apiClient{baseURL: strings.TrimRight(cfg.ServerURL, "/"), client: cfg.HTTPClient},
		cache:    cache,
		state:    StateLoading,
		open:     ticket.New(),
		outbound: worker.NewPool(1, OutboundQueueSize),
		shutdown: make(chan struct{}),
		redial:   make(chan struct{}, 1),
	}
	a.sched = scheduler.New(a.outbound)
	a.outbound.Start()

	if cc, ok, err := cache.LoadCatalog(); err != nil {
		slog.Warn(LogMsgCacheWriteFailed, "error", err)
	} else if ok && cc.StoreID == cfg.StoreID {
		a.catalog, a.version, a.has = cc.Categories, cc.Version, true
	}
	if role, token, err := cache.LoadSession(); err == nil {
		a.role, a.token = role, token
	}
	return a, nil
}

// Start fetches the catalog and opens the relay channel in parallel.
// After LoadTimeout a still-loading agent falls back to its cache.
func (a *Agent) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	a.mu.Lock()
	a.cancel = cancel
	a.timer = time.AfterFunc(a.cfg.LoadTimeout, a.recheck)
	a.mu.Unlock()

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.fetch(ctx)
	}()
	go a.connectLoop(ctx)

	a.sched.Schedule(a.cfg.SyncInterval, worker.JobFunc(a.syncPendingJob))
}

// Close stops the relay channel and releases the cache. Results that
// arrive afterwards are ignored.
func (a *Agent) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.mu.Unlock()

	close(a.shutdown)
	a.dropConn()
	a.sched.Stop()
	a.outbound.Stop()
	a.wg.Wait()

	slog.Info(LogMsgClientStopped)
	return a.cache.Close()
}

// State returns the current state
func (a *Agent) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Catalog returns the held catalog and its version
func (a *Agent) Catalog() (domain.Catalog, int64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.catalog, a.version
}

// Role returns the role of the stored login
func (a *Agent) Role() domain.Role {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.role
}

// Adopt keeps categories when version is not older than the live catalog
// already held. A catalog restored from the cache never blocks a live one.
// It reports whether the catalog was taken.
func (a *Agent) Adopt(categories domain.Catalog, version int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return false
	}
	if a.live && version < a.version {
		slog.Debug(LogMsgCatalogStale, "version", version, "held", a.version)
		return false
	}
	if categories == nil {
		categories = domain.Catalog{}
	}
	a.catalog, a.version, a.has, a.live = categories, version, true, true

	// Written under the lock so the cache never ends on an older version
	// than memory when fetch and relay adopt concurrently.
	if err := a.cache.SaveCatalog(CachedCatalog{StoreID: a.cfg.StoreID, Categories: categories, Version: version}); err != nil {
		slog.Warn(LogMsgCacheWriteFailed, "error", err)
	}
	slog.Info(LogMsgCatalogAdopted, "store_id", a.cfg.StoreID, "version", version)
	return true
}

// ContinueOffline accepts the cached catalog while the server is unreachable
func (a *Agent) ContinueOffline() error {
	a.mu.Lock()
	if a.state != StateOffline {
		a.mu.Unlock()
		return ErrNotOffline
	}
	a.mu.Unlock()
	a.transition(StateReady, StateOffline)
	return nil
}

// Retry fetches again after Error or Offline
func (a *Agent) Retry(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.mu.Unlock()

	if !a.transition(StateLoading, StateError, StateOffline) {
		return nil
	}
	a.fetch(ctx)
	return nil
}

func (a *Agent) fetch(ctx context.Context) {
	resp, err := a.api.getConfig(ctx, a.cfg.StoreID)
	if err != nil {
		if errors.Is(err, ErrMalformedResponse) {
			slog.Error(LogMsgMalformedResponse, "error", err)
		} else {
			slog.Warn(LogMsgFetchFailed, "error", err)
		}
		a.fallback()
		return
	}
	a.Adopt(resp.Categories, resp.Version)
	a.transition(StateReady, StateLoading, StateOffline)
}

// recheck is the single delayed check after Start
func (a *Agent) recheck() {
	if a.State() == StateLoading {
		a.fallback()
	}
}

func (a *Agent) fallback() {
	a.mu.RLock()
	has := a.has
	a.mu.RUnlock()

	if has {
		a.transition(StateOffline, StateLoading)
	} else {
		a.transition(StateError, StateLoading)
	}
}

// transition moves to next when the current state is one of from
func (a *Agent) transition(next State, from ...State) bool {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return false
	}
	allowed := false
	for _, s := range from {
		if a.state == s {
			allowed = true
			break
		}
	}
	if !allowed || a.state == next {
		a.mu.Unlock()
		return false
	}
	prev := a.state
	a.state = next
	cb := a.cfg.OnStateChange
	a.mu.Unlock()

	slog.Info(LogMsgStateChanged, "from", prev, "to", next)
	if cb != nil {
		cb(next)
	}
	return true
}

func (a *Agent) isClosed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.closed
}
