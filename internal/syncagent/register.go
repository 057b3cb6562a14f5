package syncagent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/handler"
	"github.com/osse101/posrelay/internal/sales"
	"github.com/osse101/posrelay/internal/ticket"
	"github.com/osse101/posrelay/internal/worker"
)

// Login exchanges a password for a role and token, stores both locally
// and reopens the relay channel so uploads carry the new token
func (a *Agent) Login(ctx context.Context, password string) (domain.Role, error) {
	resp, err := a.api.login(ctx, password)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	a.role, a.token = resp.Role, resp.Token
	a.mu.Unlock()

	if err := a.cache.SaveSession(resp.Role, resp.Token); err != nil {
		slog.Warn(LogMsgCacheWriteFailed, "error", err)
	}
	a.reconnect()
	return resp.Role, nil
}

// Logout forgets the stored role and token
func (a *Agent) Logout() error {
	a.mu.Lock()
	a.role, a.token = "", ""
	a.mu.Unlock()

	a.reconnect()
	return a.cache.ClearSession()
}

// SaveCatalog writes categories through the REST API, conditioned on the
// version this register holds. A stale copy fails with domain.ErrVersionConflict.
func (a *Agent) SaveCatalog(ctx context.Context, categories domain.Catalog) (int64, error) {
	a.mu.RLock()
	token, base, has := a.token, a.version, a.has
	a.mu.RUnlock()

	req := handler.SaveConfigRequest{Categories: &categories, StoreID: a.cfg.StoreID}
	if has {
		req.BaseVersion = &base
	}
	resp, err := a.api.saveConfig(ctx, token, req)
	if err != nil {
		return 0, err
	}
	a.Adopt(categories, resp.Version)
	return resp.Version, nil
}

// Ticket returns the lines of the open ticket
func (a *Agent) Ticket() []domain.TicketItem {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.open.Items()
}

// TicketTotal returns the open ticket's total
func (a *Agent) TicketTotal() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.open.Total()
}

// AddItem adds one unit of a unit product, or weight of a weighed product
func (a *Agent) AddItem(productID string, weight float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.has {
		return ErrNoCatalog
	}
	p, ok := a.catalog.FindProduct(productID)
	if !ok {
		return fmt.Errorf("%w: %s", ticket.ErrUnknownProduct, productID)
	}
	if p.UnitType == domain.UnitTypeWeight {
		return a.open.AddWeight(p, weight)
	}
	a.open.AddProduct(p)
	return nil
}

// SetQuantity sets a line's quantity, rounded for its unit type
func (a *Agent) SetQuantity(productID string, q float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.open.SetQuantity(productID, q)
}

// RemoveItem decrements a unit line or drops the line
func (a *Agent) RemoveItem(productID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.open.Remove(productID)
}

// SetSurcharge toggles the card surcharge line
func (a *Agent) SetSurcharge(on bool, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if on {
		a.open.EnableSurcharge(name)
	} else {
		a.open.DisableSurcharge()
	}
}

// CloseTicket freezes the open ticket, keeps it in the local cache and
// sends it to the server without waiting. A failed send leaves the ticket
// pending for SyncPending.
func (a *Agent) CloseTicket(typ domain.TicketType, client *domain.Customer) (domain.ClosedTicket, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return domain.ClosedTicket{}, ErrClosed
	}
	closed, err := a.open.Close(uuid.NewString(), time.Now().UnixMilli(), typ, client)
	if err != nil {
		a.mu.Unlock()
		return domain.ClosedTicket{}, err
	}
	a.open.Clear()
	// Close waits for the ticket to reach the cache and the queue
	a.wg.Add(1)
	a.mu.Unlock()
	defer a.wg.Done()

	if err := a.cache.AddTicket(closed); err != nil {
		slog.Warn(LogMsgCacheWriteFailed, "error", err)
	}

	queued := a.outbound.Enqueue(worker.JobFunc(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, HTTPTimeout)
		defer cancel()

		if err := a.api.postSale(ctx, closed); err != nil {
			slog.Warn(LogMsgSalePostFailed, "ticket_id", closed.ID, "error", err)
			return nil
		}
		if a.isClosed() {
			return nil
		}
		return a.cache.MarkSynced(closed.ID)
	}))
	if !queued {
		slog.Warn(LogMsgSalePostFailed, "ticket_id", closed.ID, "error", "outbound queue full")
	}
	return closed, nil
}

// PendingTickets returns closed tickets the server has not acknowledged
func (a *Agent) PendingTickets() ([]domain.ClosedTicket, error) {
	return a.cache.PendingTickets()
}

// SyncPending pushes unacknowledged tickets through the bulk endpoint
func (a *Agent) SyncPending(ctx context.Context) (*sales.SyncResult, error) {
	pending, err := a.cache.PendingTickets()
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return &sales.SyncResult{}, nil
	}

	res, err := a.api.syncSales(ctx, pending)
	if err != nil {
		return nil, err
	}

	failed := make(map[string]struct{}, len(res.FailedIDs))
	for _, id := range res.FailedIDs {
		failed[id] = struct{}{}
	}
	// A failure count without ids gives nothing to single out: the whole
	// batch counts as failed. Replays are ignored server side.
	unitemised := res.Failed > 0 && len(res.FailedIDs) == 0

	var done, retry []string
	for _, t := range pending {
		if _, ok := failed[t.ID]; ok || unitemised {
			retry = append(retry, t.ID)
		} else {
			done = append(done, t.ID)
		}
	}

	if err := a.cache.MarkSynced(done...); err != nil {
		return res, errors.Join(ErrCacheWrite, err)
	}
	abandoned, err := a.cache.RecordFailure(MaxSyncAttempts, retry...)
	if err != nil {
		return res, errors.Join(ErrCacheWrite, err)
	}
	if len(abandoned) > 0 {
		slog.Warn(LogMsgTicketsAbandoned, "ticket_ids", abandoned, "attempts", MaxSyncAttempts)
	}
	return res, nil
}

// syncPendingJob is the scheduled flush of pending tickets; it only runs
// while the server is known to be reachable
func (a *Agent) syncPendingJob(ctx context.Context) error {
	if a.isClosed() || a.State() != StateReady {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, HTTPTimeout)
	defer cancel()

	res, err := a.SyncPending(ctx)
	if err != nil {
		return err
	}
	if res.Received > 0 {
		slog.Info(LogMsgPendingSynced, "received", res.Received, "stored", res.Stored, "failed", res.Failed)
	}
	return nil
}

// ErrCacheWrite wraps failures to persist local state
var ErrCacheWrite = errors.New("local cache write failed")
