package sales

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/event"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, t domain.ClosedTicket) (bool, error) {
	args := m.Called(ctx, t)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, limit int) ([]domain.ClosedTicket, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClosedTicket), args.Error(1)
}

type recordingDeadLetter struct {
	ids []string
}

func (r *recordingDeadLetter) Write(t domain.ClosedTicket, cause error) error {
	r.ids = append(r.ids, t.ID)
	return nil
}

func ticket(id string) domain.ClosedTicket {
	return domain.ClosedTicket{
		ID:        id,
		Timestamp: 1700000000000,
		Items:     []domain.TicketItem{{ProductID: "p1", Name: "Soda", Quantity: 2, PricePerUnit: 100, UnitType: domain.UnitTypeUnit}},
		Total:     200,
		Type:      domain.TicketTypeNormal,
	}
}

func collectSales(bus event.Bus) *[][]domain.ClosedTicket {
	var got [][]domain.ClosedTicket
	bus.Subscribe(event.SalesIngested, func(ctx context.Context, e event.Event) error {
		p, err := event.DecodePayload[event.SalesIngestedPayloadV1](e.Payload)
		if err != nil {
			return err
		}
		got = append(got, p.Tickets)
		return nil
	})
	return &got
}

func TestService_Record(t *testing.T) {
	repo := new(MockRepository)
	bus := event.NewMemoryBus()
	got := collectSales(bus)
	svc := NewService(repo, bus, nil)
	ctx := context.Background()

	t1 := ticket("t1")
	repo.On("Insert", ctx, t1).Return(true, nil).Once()

	stored, err := svc.Record(ctx, t1)
	require.NoError(t, err)
	assert.True(t, stored)
	require.Len(t, *got, 1)
	assert.Equal(t, []domain.ClosedTicket{t1}, (*got)[0])

	repo.On("Insert", ctx, t1).Return(false, nil).Once()
	stored, err = svc.Record(ctx, t1)
	require.NoError(t, err)
	assert.False(t, stored, "existing id is a no-op")
	assert.Len(t, *got, 1, "duplicates are not re-broadcast")
}

func TestService_Record_DefaultsType(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, event.NewMemoryBus(), nil)

	in := ticket("t2")
	in.Type = ""
	want := in
	want.Type = domain.TicketTypeNormal
	repo.On("Insert", mock.Anything, want).Return(true, nil)

	_, err := svc.Record(context.Background(), in)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_Record_Errors(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, event.NewMemoryBus(), nil)
	ctx := context.Background()

	_, err := svc.Record(ctx, domain.ClosedTicket{})
	assert.ErrorIs(t, err, domain.ErrInvalidTicket)

	repo.On("Insert", ctx, ticket("t3")).Return(false, errors.New("connection reset"))
	_, err = svc.Record(ctx, ticket("t3"))
	assert.ErrorIs(t, err, domain.ErrDatabaseError)
}

func TestService_List(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, event.NewMemoryBus(), nil)
	ctx := context.Background()

	repo.On("List", ctx, ListLimit).Return(nil, nil)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestService_Sync_AlwaysBroadcasts(t *testing.T) {
	repo := new(MockRepository)
	bus := event.NewMemoryBus()
	got := collectSales(bus)
	dl := &recordingDeadLetter{}
	svc := NewService(repo, bus, dl)
	ctx := context.Background()

	ok, dup, broken := ticket("a"), ticket("b"), ticket("c")
	invalid := domain.ClosedTicket{ID: "d"}

	repo.On("Insert", ctx, ok).Return(true, nil)
	repo.On("Insert", ctx, dup).Return(false, nil)
	repo.On("Insert", ctx, broken).Return(false, errors.New("db down"))

	batch := []domain.ClosedTicket{ok, dup, broken, invalid}
	res := svc.Sync(ctx, batch)

	assert.Equal(t, SyncResult{Received: 4, Stored: 1, Failed: 2, FailedIDs: []string{"c", "d"}}, res)
	assert.Equal(t, []string{"c", "d"}, dl.ids)
	require.Len(t, *got, 1)
	assert.Len(t, (*got)[0], 4, "every received ticket is broadcast")
}

func TestService_Sync_Empty(t *testing.T) {
	bus := event.NewMemoryBus()
	got := collectSales(bus)
	svc := NewService(new(MockRepository), bus, nil)

	res := svc.Sync(context.Background(), nil)
	assert.Equal(t, SyncResult{}, res)
	assert.Empty(t, *got)
}

func TestFileDeadLetter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dead.jsonl")
	dl, err := NewFileDeadLetter(path)
	require.NoError(t, err)

	require.NoError(t, dl.Write(ticket("x1"), errors.New("boom")))
	require.NoError(t, dl.Write(ticket("x2"), nil))
	require.NoError(t, dl.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []DeadLetterEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e DeadLetterEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, "x1", entries[0].Ticket.ID)
	assert.Equal(t, "boom", entries[0].Error)
	assert.Equal(t, DeadLetterSchemaVersion, entries[1].SchemaVersion)
	assert.Empty(t, entries[1].Error)
}
