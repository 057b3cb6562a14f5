package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/sales"
)

const ticketBody = `{"id":"t-1","timestamp":1772359200000,"items":[{"productId":"p1","name":"Soda","quantity":2,"pricePerUnit":100,"unitType":"unit"}],"total":200,"type":"normal"}`

func TestHandleRecordSale(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockSalesService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "new ticket",
			body: ticketBody,
			setupMock: func(m *MockSalesService) {
				m.On("Record", mock.Anything, mock.MatchedBy(func(t domain.ClosedTicket) bool {
					return t.ID == "t-1" && len(t.Items) == 1 && t.Total == 200
				})).Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Sale saved successfully","id":"t-1","stored":true}`,
		},
		{
			name: "replayed ticket",
			body: ticketBody,
			setupMock: func(m *MockSalesService) {
				m.On("Record", mock.Anything, mock.Anything).Return(false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"stored":false`,
		},
		{
			name: "ticket without id",
			body: `{"items":[]}`,
			setupMock: func(m *MockSalesService) {
				m.On("Record", mock.Anything, mock.Anything).Return(false, domain.ErrInvalidTicket)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidTicketError,
		},
		{
			name:           "not json",
			body:           `nope`,
			setupMock:      func(m *MockSalesService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMockSalesService(t)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			HandleRecordSale(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleListSales(t *testing.T) {
	t.Run("returns tickets", func(t *testing.T) {
		svc := NewMockSalesService(t)
		svc.On("List", mock.Anything).Return([]domain.ClosedTicket{{ID: "t-2"}, {ID: "t-1"}}, nil)

		w := httptest.NewRecorder()
		HandleListSales(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sales", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Regexp(t, `"id":"t-2".*"id":"t-1"`, w.Body.String())
	})

	t.Run("database failure", func(t *testing.T) {
		svc := NewMockSalesService(t)
		svc.On("List", mock.Anything).Return(nil, errors.Join(domain.ErrDatabaseError, errors.New("gone")))

		w := httptest.NewRecorder()
		HandleListSales(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sales", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "gone")
	})
}

func TestHandleSync(t *testing.T) {
	t.Run("reports counts", func(t *testing.T) {
		svc := NewMockSalesService(t)
		svc.On("Sync", mock.Anything, mock.MatchedBy(func(ts []domain.ClosedTicket) bool { return len(ts) == 2 })).
			Return(sales.SyncResult{Received: 2, Stored: 1, Failed: 0})

		body := `{"tickets":[` + ticketBody + `,` + ticketBody + `]}`
		w := httptest.NewRecorder()
		HandleSync(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received":2,"stored":1,"failed":0}`, w.Body.String())
	})

	t.Run("missing tickets", func(t *testing.T) {
		svc := NewMockSalesService(t)

		w := httptest.NewRecorder()
		HandleSync(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"tickets"`)
	})
}
