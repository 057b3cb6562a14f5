package sales

import (
	"context"
	"fmt"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/event"
	"github.com/osse101/posrelay/internal/logger"
	"github.com/osse101/posrelay/internal/metrics"
)

// SyncResult summarises a bulk ingest. FailedIDs lists the tickets that
// were neither stored nor already present, so the sender can retry only those.
type SyncResult struct {
	Received  int      `json:"received"`
	Stored    int      `json:"stored"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failedIds,omitempty"`
}

// Service records closed tickets and announces them on the bus
type Service struct {
	repo       Repository
	bus        event.Bus
	deadLetter DeadLetter
}

// NewService creates a sales service. deadLetter may be nil.
func NewService(repo Repository, bus event.Bus, deadLetter DeadLetter) *Service {
	return &Service{repo: repo, bus: bus, deadLetter: deadLetter}
}

// Record stores a single ticket. A ticket whose id already exists is left
// untouched and reported as not stored. Newly stored tickets are published.
func (s *Service) Record(ctx context.Context, t domain.ClosedTicket) (bool, error) {
	log := logger.FromContext(ctx)

	if err := t.Validate(); err != nil {
		return false, err
	}
	normalize(&t)

	stored, err := s.repo.Insert(ctx, t)
	if err != nil {
		metrics.SalesStored.WithLabelValues(metrics.ResultFailed).Inc()
		log.Error(LogMsgInsertFailed, "ticket_id", t.ID, "error", err)
		return false, fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}
	if !stored {
		metrics.SalesStored.WithLabelValues(metrics.ResultDuplicate).Inc()
		log.Info(LogMsgDuplicateTicket, "ticket_id", t.ID)
		return false, nil
	}

	countStored(t)
	log.Info(LogMsgTicketStored, "ticket_id", t.ID, "total", t.Total, "type", t.Type)
	s.publish(ctx, []domain.ClosedTicket{t})
	return true, nil
}

// List returns the most recent tickets, newest first
func (s *Service) List(ctx context.Context) ([]domain.ClosedTicket, error) {
	tickets, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}
	if tickets == nil {
		tickets = []domain.ClosedTicket{}
	}
	return tickets, nil
}

// Sync ingests a batch on a best-effort basis. Each ticket is stored
// independently; failures go to the dead letter. The whole batch is
// published regardless of persistence outcome so connected registers
// see every ticket that was sent.
func (s *Service) Sync(ctx context.Context, tickets []domain.ClosedTicket) SyncResult {
	log := logger.FromContext(ctx)
	res := SyncResult{Received: len(tickets)}

	for i := range tickets {
		t := tickets[i]
		if err := t.Validate(); err != nil {
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, t.ID)
			s.deadLetterTicket(ctx, t, err)
			continue
		}
		normalize(&t)

		stored, err := s.repo.Insert(ctx, t)
		switch {
		case err != nil:
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, t.ID)
			metrics.SalesStored.WithLabelValues(metrics.ResultFailed).Inc()
			s.deadLetterTicket(ctx, t, err)
		case stored:
			res.Stored++
			countStored(t)
		default:
			metrics.SalesStored.WithLabelValues(metrics.ResultDuplicate).Inc()
		}
	}

	log.Info(LogMsgSyncCompleted, "received", res.Received, "stored", res.Stored, "failed", res.Failed)

	if len(tickets) > 0 {
		s.publish(ctx, tickets)
	}
	return res
}

func (s *Service) deadLetterTicket(ctx context.Context, t domain.ClosedTicket, cause error) {
	log := logger.FromContext(ctx)
	log.Warn(LogMsgSyncTicketFailed, "ticket_id", t.ID, "error", cause)
	if s.deadLetter == nil {
		return
	}
	if err := s.deadLetter.Write(t, cause); err != nil {
		log.Error(LogMsgDeadLetterWriteFailed, "ticket_id", t.ID, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, tickets []domain.ClosedTicket) {
	if err := s.bus.Publish(ctx, event.NewSalesIngestedEvent(tickets)); err != nil {
		logger.FromContext(ctx).Error(LogMsgPublishFailed, "count", len(tickets), "error", err)
	}
}

func normalize(t *domain.ClosedTicket) {
	if t.Type == "" {
		t.Type = domain.TicketTypeNormal
	}
}

func countStored(t domain.ClosedTicket) {
	metrics.SalesStored.WithLabelValues(metrics.ResultStored).Inc()
	if t.Total > 0 {
		metrics.SalesRevenue.WithLabelValues(string(t.Type)).Add(t.Total)
	}
}
