package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"

	"lifin-backend/internal/models"
)

// Handler forwards chat-completion requests from browser clients to the
// configured upstream provider. It is the sole holder of the upstream
// credential: the key is injected into the Authorization header here and
// never reaches the client in any form.
//
// The handler is stateless. It keeps no session affinity and never retries;
// retry is a client concern.
type Handler struct {
	provider Provider
	client   *http.Client
}

func NewHandler(p Provider) *Handler {
	return &Handler{
		provider: p,
		client:   http.DefaultClient,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method "+r.Method+" Not Allowed")
		return
	}

	// Read the credential per request, not at startup, so a key set after the
	// process came up still takes effect.
	apiKey := os.Getenv(h.provider.CredentialEnv)
	if apiKey == "" {
		log.Printf("proxy: %s environment variable not set", h.provider.CredentialEnv)
		writeError(w, http.StatusInternalServerError, "API key not configured on the server.")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	// Shallow-merge: keep whatever the client sent (messages, temperature,
	// max_tokens, ...) but always overwrite the model. Clients must not be
	// able to select a different, possibly more expensive model.
	body["model"] = h.provider.Model

	payload, err := json.Marshal(body)
	if err != nil {
		log.Printf("proxy: failed to marshal outbound payload: %v", err)
		writeError(w, http.StatusInternalServerError, "An internal server error occurred.")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.provider.Endpoint, bytes.NewReader(payload))
	if err != nil {
		log.Printf("proxy: failed to build upstream request: %v", err)
		writeError(w, http.StatusInternalServerError, "An internal server error occurred.")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		log.Printf("proxy: upstream request to %s failed: %v", h.provider.Name, err)
		writeError(w, http.StatusInternalServerError, "An internal server error occurred.")
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil || !json.Valid(data) {
		log.Printf("proxy: unreadable upstream response from %s: %v", h.provider.Name, err)
		writeError(w, http.StatusInternalServerError, "An internal server error occurred.")
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Transparent passthrough: the upstream status and JSON body are
		// relayed unchanged so the client sees the provider's own error shape.
		log.Printf("proxy: upstream %s returned %d: %s", h.provider.Name, resp.StatusCode, data)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ProxyError{Error: message})
}
