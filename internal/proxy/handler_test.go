package proxy

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const testCredentialEnv = "TEST_CHAT_API_TOKEN"

func testProvider(endpoint string) Provider {
	return Provider{
		Name:          "test",
		Endpoint:      endpoint,
		CredentialEnv: testCredentialEnv,
		Model:         "pinned/test-model",
	}
}

func postJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat-proxy", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestProxy_ModelIsAlwaysPinned(t *testing.T) {
	var gotBody map[string]interface{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("Failed to decode upstream body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer upstream.Close()

	t.Setenv(testCredentialEnv, "secret-token")
	h := NewHandler(testProvider(upstream.URL))

	// The client tries to smuggle its own model in; the proxy must discard it.
	rr := postJSON(t, h, `{"model":"client-chosen/expensive","messages":[{"role":"user","content":"hi"}],"temperature":0.7}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	if gotBody["model"] != "pinned/test-model" {
		t.Errorf("Expected pinned model, upstream saw %v", gotBody["model"])
	}
	if gotBody["temperature"] != 0.7 {
		t.Errorf("Expected client fields to survive the merge, got temperature %v", gotBody["temperature"])
	}
	msgs, ok := gotBody["messages"].([]interface{})
	if !ok || len(msgs) != 1 {
		t.Errorf("Expected client messages to pass through, got %v", gotBody["messages"])
	}
}

func TestProxy_CredentialNeverLeaks(t *testing.T) {
	const secret = "sk-super-secret-value"

	var logBuf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&logBuf)
	defer log.SetOutput(orig)

	tests := []struct {
		name     string
		upstream http.HandlerFunc
	}{
		{"success", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
		}},
		{"upstream error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":{"message":"upstream exploded"}}`))
		}},
		{"non-json upstream", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			upstream := httptest.NewServer(tc.upstream)
			defer upstream.Close()

			t.Setenv(testCredentialEnv, secret)
			h := NewHandler(testProvider(upstream.URL))

			rr := postJSON(t, h, `{"messages":[]}`)
			if strings.Contains(rr.Body.String(), secret) {
				t.Errorf("Response body leaked the credential: %s", rr.Body.String())
			}
			if strings.Contains(logBuf.String(), secret) {
				t.Errorf("Server log leaked the credential")
			}
		})
	}
}

func TestProxy_MethodGate(t *testing.T) {
	var upstreamCalls int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&upstreamCalls, 1)
	}))
	defer upstream.Close()

	t.Setenv(testCredentialEnv, "secret-token")
	h := NewHandler(testProvider(upstream.URL))

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/api/chat-proxy", nil)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405, got %d", rr.Code)
			}
			if allow := rr.Header().Get("Allow"); allow != http.MethodPost {
				t.Errorf("Expected Allow: POST, got %q", allow)
			}

			var body map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			expected := "Method " + method + " Not Allowed"
			if body["error"] != expected {
				t.Errorf("Expected %q, got %q", expected, body["error"])
			}
		})
	}

	if n := atomic.LoadInt64(&upstreamCalls); n != 0 {
		t.Errorf("Expected no upstream calls for rejected methods, got %d", n)
	}
}

func TestProxy_MissingCredentialFailsFast(t *testing.T) {
	var upstreamCalls int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&upstreamCalls, 1)
	}))
	defer upstream.Close()

	t.Setenv(testCredentialEnv, "")
	h := NewHandler(testProvider(upstream.URL))

	rr := postJSON(t, h, `{"messages":[{"role":"user","content":"hi"}]}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if body["error"] != "API key not configured on the server." {
		t.Errorf("Unexpected error message: %q", body["error"])
	}

	if n := atomic.LoadInt64(&upstreamCalls); n != 0 {
		t.Errorf("Expected no upstream calls without a credential, got %d", n)
	}
}

func TestProxy_UpstreamErrorPassthrough(t *testing.T) {
	upstreamBody := `{"error":{"message":"rate limit exceeded","type":"rate_limit"}}`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(upstreamBody))
	}))
	defer upstream.Close()

	t.Setenv(testCredentialEnv, "secret-token")
	h := NewHandler(testProvider(upstream.URL))

	rr := postJSON(t, h, `{"messages":[]}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("Expected upstream status 429 relayed, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != upstreamBody {
		t.Errorf("Expected upstream body relayed verbatim, got %s", rr.Body.String())
	}
}

func TestProxy_TransportFailure(t *testing.T) {
	// Point at a server that is already gone.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := upstream.URL
	upstream.Close()

	t.Setenv(testCredentialEnv, "secret-token")
	h := NewHandler(testProvider(endpoint))

	rr := postJSON(t, h, `{"messages":[]}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}

	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	if body["error"] != "An internal server error occurred." {
		t.Errorf("Expected generic message, got %q", body["error"])
	}
}

func TestProxy_InvalidJSONBody(t *testing.T) {
	t.Setenv(testCredentialEnv, "secret-token")
	h := NewHandler(testProvider("http://unused.invalid"))

	rr := postJSON(t, h, `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

func TestProviderByName(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantErr  bool
	}{
		{"chutes", "chutes", false},
		{"groq", "groq", false},
		{"unknown", "openai", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ByName(tc.provider)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tc.provider)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if p.Name != tc.provider {
				t.Errorf("Expected provider %q, got %q", tc.provider, p.Name)
			}
			if p.Model == "" || p.Endpoint == "" || p.CredentialEnv == "" {
				t.Errorf("Provider %q is incompletely configured: %+v", tc.provider, p)
			}
		})
	}
}
