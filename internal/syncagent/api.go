package syncagent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/handler"
	"github.com/osse101/posrelay/internal/sales"
)

// ErrMalformedResponse is returned when the server answers with something
// other than JSON, typically an HTML error page from a proxy
var ErrMalformedResponse = errors.New("malformed server response")

// StatusError carries a non-2xx reply and the server's error message
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Unwrap maps well-known statuses onto domain errors
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusUnauthorized:
		return domain.ErrInvalidCredentials
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusConflict:
		return domain.ErrVersionConflict
	case http.StatusNotFound:
		return domain.ErrStoreNotFound
	}
	return nil
}

// apiClient handles REST calls to the relay server
type apiClient struct {
	baseURL string
	client  *http.Client
}

func (c *apiClient) doRequest(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isJSON(resp.Header.Get("Content-Type")) {
		return fmt.Errorf("%w: %s %s answered %d with %q", ErrMalformedResponse, method, path, resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e handler.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *apiClient) getConfig(ctx context.Context, storeID string) (*handler.ConfigResponse, error) {
	path := PathConfig
	if storeID != "" {
		path += "?storeId=" + url.QueryEscape(storeID)
	}
	var resp handler.ConfigResponse
	if err := c.doRequest(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) saveConfig(ctx context.Context, token string, req handler.SaveConfigRequest) (*handler.SaveConfigResponse, error) {
	var resp handler.SaveConfigResponse
	if err := c.doRequest(ctx, http.MethodPost, PathConfig, token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) login(ctx context.Context, password string) (*handler.LoginResponse, error) {
	var resp handler.LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, PathLogin, "", handler.LoginRequest{Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) postSale(ctx context.Context, t domain.ClosedTicket) error {
	return c.doRequest(ctx, http.MethodPost, PathSales, "", t, &handler.SaleResponse{})
}

func (c *apiClient) syncSales(ctx context.Context, tickets []domain.ClosedTicket) (*sales.SyncResult, error) {
	var resp sales.SyncResult
	if err := c.doRequest(ctx, http.MethodPost, PathSync, "", handler.SyncRequest{Tickets: tickets}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}
