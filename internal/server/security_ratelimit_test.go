package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSecurityLoggingMiddleware_RateLimiting(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	middleware := SecurityLoggingMiddleware(detector)

	// Create a handler that always returns OK
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	ip := "192.168.1.100"
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = ip + ":1234"

	for i := 0; i < RequestRateLimit; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d failed with status %d", i, rec.Code)
		}
	}

	// Next request should be blocked
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429 Too Many Requests, got %d", rec.Code)
	}

	// Verify detector state
	detector.mu.Lock()
	count := detector.requestCountByIP[ip]
	detector.mu.Unlock()

	if count != RequestRateLimit+1 {
		t.Errorf("expected count 1001, got %d", count)
	}
}

func TestSuspiciousActivityDetector_WindowReset(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	now := time.Now()
	detector.now = func() time.Time { return now }

	detector.RecordFailedAuth("10.0.0.7:5555")
	detector.RecordFailedAuth("10.0.0.7")
	if got := detector.FailedAuthCount("10.0.0.7"); got != 2 {
		t.Fatalf("expected 2 failures for the host regardless of port, got %d", got)
	}

	now = now.Add(DetectorWindow + time.Second)
	if got := detector.FailedAuthCount("10.0.0.7"); got != 0 {
		t.Errorf("expected counters to reset after the window, got %d", got)
	}
}
