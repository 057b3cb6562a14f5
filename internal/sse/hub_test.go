package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/event"
)

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "1", Type: EventTypeNewData, Timestamp: 7, Payload: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t,
		"id: 1\nevent: new_data\ndata: {\"id\":\"1\",\"type\":\"new_data\",\"timestamp\":7,\"payload\":[\"a\"]}\n\n",
		string(msg))
}

func TestHub_FiltersByType(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	all := hub.Register(nil)
	onlyConfig := hub.Register([]string{EventTypeConfigUpdated})
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(EventTypeNewData, []int{1})
	hub.Broadcast(EventTypeConfigUpdated, nil)

	assert.Equal(t, EventTypeNewData, (<-all.EventChannel).Type)
	assert.Equal(t, EventTypeConfigUpdated, (<-all.EventChannel).Type)
	assert.Equal(t, EventTypeConfigUpdated, (<-onlyConfig.EventChannel).Type)

	hub.Unregister(all.ID)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-all.EventChannel
	assert.False(t, open)
}

func TestSubscriber_MirrorsBusEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	bus := event.NewMemoryBus()
	NewSubscriber(hub, bus).Subscribe()

	client := hub.Register(nil)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	rec := &domain.CatalogRecord{StoreID: "s1", Categories: domain.Catalog{{ID: "c1", Label: "Drinks"}}, Version: 2}
	require.NoError(t, bus.Publish(context.Background(), event.NewCatalogUpdatedEvent(rec, event.SourceREST)))
	require.NoError(t, bus.Publish(context.Background(), event.NewSalesIngestedEvent(nil)))
	require.NoError(t, bus.Publish(context.Background(), event.NewSalesIngestedEvent([]domain.ClosedTicket{{ID: "t1"}})))

	got := <-client.EventChannel
	require.Equal(t, EventTypeConfigUpdated, got.Type)
	payload := got.Payload.(ConfigUpdatedPayload)
	assert.Equal(t, "s1", payload.StoreID)
	assert.Equal(t, int64(2), payload.Version)

	got = <-client.EventChannel
	require.Equal(t, EventTypeNewData, got.Type, "empty sales batches are not mirrored")
	assert.Len(t, got.Payload.([]domain.ClosedTicket), 1)
}

func TestHandler_StreamsEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	server := httptest.NewServer(Handler(hub))
	defer server.Close()

	resp, err := http.Get(server.URL + "?types=" + EventTypeNewData)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() Event {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				var e Event
				require.NoError(t, json.Unmarshal([]byte(data), &e))
				return e
			}
		}
	}

	assert.Equal(t, EventTypeConnected, readEvent().Type)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(EventTypeConfigUpdated, nil)
	hub.Broadcast(EventTypeNewData, []string{"t1"})
	assert.Equal(t, EventTypeNewData, readEvent().Type)
}
