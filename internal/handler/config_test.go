package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/posrelay/internal/catalog"
	"github.com/osse101/posrelay/internal/database"
	"github.com/osse101/posrelay/internal/database/sqlite"
	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/event"
)

var drinks = domain.Catalog{{
	ID:    "c1",
	Label: "Drinks",
	Products: []domain.Product{
		{ID: "p1", Name: "Soda", PricePerUnit: 100, UnitType: domain.UnitTypeUnit},
	},
}}

var testInfo = ServerInfo{IP: "192.168.1.20", Port: 3001}

func TestHandleGetConfig(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockCatalogService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "global catalog never written",
			query: "",
			setupMock: func(m *MockCatalogService) {
				m.On("Get", mock.Anything, "").Return(&domain.CatalogRecord{Key: "categories"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"categories":null,"version":0,"serverIp":"192.168.1.20","port":3001}`,
		},
		{
			name:  "store without its own catalog",
			query: "?storeId=store-x",
			setupMock: func(m *MockCatalogService) {
				m.On("Get", mock.Anything, "store-x").Return(&domain.CatalogRecord{StoreID: "store-x", Categories: domain.Catalog{}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"categories":[],"version":0,"storeId":"store-x","serverIp":"192.168.1.20","port":3001}`,
		},
		{
			name:           "invalid store id",
			query:          "?storeId=a%20b",
			setupMock:      func(m *MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidInputError,
		},
		{
			name:  "database failure",
			query: "",
			setupMock: func(m *MockCatalogService) {
				m.On("Get", mock.Anything, "").Return(nil, fmt.Errorf("%w: boom", domain.ErrDatabaseError))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   ErrMsgGenericServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMockCatalogService(t)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/config"+tt.query, nil)
			w := httptest.NewRecorder()
			HandleGetConfig(svc, testInfo).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleSaveConfig(t *testing.T) {
	InitValidator()
	base := int64(4)

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockCatalogService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "unconditional global write",
			body: `{"categories":[{"id":"c1","label":"Drinks","products":[{"id":"p1","name":"Soda","pricePerUnit":100,"unitType":"unit"}]}]}`,
			setupMock: func(m *MockCatalogService) {
				m.On("Save", mock.Anything, "", drinks, (*int64)(nil), event.SourceREST).
					Return(&domain.CatalogRecord{Version: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Configuration saved successfully","version":1}`,
		},
		{
			name: "store write with base version",
			body: `{"categories":[],"storeId":"s1","baseVersion":4}`,
			setupMock: func(m *MockCatalogService) {
				m.On("Save", mock.Anything, "s1", domain.Catalog{}, &base, event.SourceREST).
					Return(&domain.CatalogRecord{StoreID: "s1", Version: 5}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"version":5,"storeId":"s1"`,
		},
		{
			name:           "missing categories",
			body:           `{"storeId":"s1"}`,
			setupMock:      func(m *MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"categories":"This field is required"`,
		},
		{
			name:           "null categories",
			body:           `{"categories":null}`,
			setupMock:      func(m *MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequestSummary,
		},
		{
			name:           "malformed json",
			body:           `{"categories":`,
			setupMock:      func(m *MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name:           "store id with a slash",
			body:           `{"categories":[],"storeId":"a/b"}`,
			setupMock:      func(m *MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"storeid"`,
		},
		{
			name: "stale base version",
			body: `{"categories":[],"baseVersion":4}`,
			setupMock: func(m *MockCatalogService) {
				m.On("Save", mock.Anything, "", domain.Catalog{}, &base, event.SourceREST).
					Return(nil, &catalog.VersionConflictError{Expected: 4, Current: 6})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   ErrMsgVersionConflictError,
		},
		{
			name: "invalid catalog",
			body: `{"categories":[{"id":"x"},{"id":"x"}]}`,
			setupMock: func(m *MockCatalogService) {
				m.On("Save", mock.Anything, "", mock.Anything, (*int64)(nil), event.SourceREST).
					Return(nil, fmt.Errorf("%w: duplicate category id", domain.ErrInvalidCatalog))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidCatalogError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMockCatalogService(t)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/config", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			HandleSaveConfig(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

// TestConfig_RoundTrip posts a catalog and reads it back through a real
// catalog service on SQLite
func TestConfig_RoundTrip(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(context.Background(), db, database.DialectSQLite))

	bus := event.NewMemoryBus()
	var broadcasts []event.CatalogUpdatedPayloadV1
	bus.Subscribe(event.CatalogUpdated, func(_ context.Context, e event.Event) error {
		p, err := event.DecodePayload[event.CatalogUpdatedPayloadV1](e.Payload)
		broadcasts = append(broadcasts, p)
		return err
	})
	svc := catalog.NewService(sqlite.NewCatalogRepository(db), bus, 8, time.Minute)

	body := `{"categories":[{"id":"c1","label":"Drinks","products":[{"id":"p1","name":"Soda","pricePerUnit":100,"unitType":"unit"}]}]}`
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		HandleSaveConfig(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/config", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	require.Len(t, broadcasts, 2)
	assert.Equal(t, broadcasts[0].Categories, broadcasts[1].Categories, "identical writes broadcast identical payloads")
	assert.Equal(t, int64(2), broadcasts[1].Version)

	get := func(query string) ConfigResponse {
		w := httptest.NewRecorder()
		HandleGetConfig(svc, testInfo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/config"+query, nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp ConfigResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	global := get("")
	assert.Equal(t, drinks, global.Categories)
	assert.Equal(t, int64(2), global.Version)

	scoped := get("?storeId=store-x")
	assert.NotNil(t, scoped.Categories, "stores never inherit the global catalog")
	assert.Empty(t, scoped.Categories)
}
