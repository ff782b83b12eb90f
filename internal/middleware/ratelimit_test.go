package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifin-backend/internal/models"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("Requests under the limit must be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("Request over the limit must be denied")
	}

	// Limits are tracked per key.
	if !rl.Allow("5.6.7.8") {
		t.Error("A different key must have its own budget")
	}
}

func TestRateLimiterAllow_WindowSlides(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("First request must be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("Second request inside the window must be denied")
	}

	time.Sleep(60 * time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Error("Request after the window expired must be allowed")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.Middleware(next)

	call := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/chat-proxy", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := call("10.0.0.1:1111"); rec.Code != http.StatusOK {
		t.Fatalf("First request: status = %d, want 200", rec.Code)
	}

	rec := call("10.0.0.1:2222")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Second request from the same IP: status = %d, want 429", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Error.Code != "RATE_LIMITED" {
		t.Errorf("error code = %q, want RATE_LIMITED", resp.Error.Code)
	}

	// Port changes do not evade the limit, but a different IP is unaffected.
	if rec := call("10.0.0.2:1111"); rec.Code != http.StatusOK {
		t.Errorf("Different IP: status = %d, want 200", rec.Code)
	}
}
