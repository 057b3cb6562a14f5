package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/posrelay/internal/customer"
	"github.com/osse101/posrelay/internal/domain"
)

func TestHandleSearchClients(t *testing.T) {
	svc := NewMockCustomerService(t)
	svc.On("Search", mock.Anything, "jose").Return([]domain.Customer{{ID: "c1", Name: "José Pérez", CUIT: "20-1"}}, nil)

	w := httptest.NewRecorder()
	HandleSearchClients(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clients?q=jose", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "José Pérez")
}

func TestHandleSaveClient(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockCustomerService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "upsert",
			body: `{"name":"Ana","cuit":"27-2"}`,
			setupMock: func(m *MockCustomerService) {
				m.On("Save", mock.Anything, customer.SaveInput{Name: "Ana", CUIT: "27-2"}).
					Return(&domain.Customer{ID: "c9", Name: "Ana", CUIT: "27-2"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"c9"`,
		},
		{
			name:           "missing cuit",
			body:           `{"name":"Ana"}`,
			setupMock:      func(m *MockCustomerService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"cuit":"This field is required"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMockCustomerService(t)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			HandleSaveClient(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
