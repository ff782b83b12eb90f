package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"lifin-backend/internal/models"
)

// ProxyClient talks to the chat proxy endpoint over HTTP. The proxy, not this
// client, holds the upstream credential and pins the model.
type ProxyClient struct {
	baseURL string
	client  *http.Client
}

func NewProxyClient(baseURL string) *ProxyClient {
	return &ProxyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

// Complete sends one completion request and returns the assistant reply text.
// An empty reply with a nil error means the upstream answered without usable
// content; callers decide on a fallback.
func (c *ProxyClient) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat-proxy", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build proxy request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call chat proxy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var proxyErr models.ProxyError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&proxyErr); decodeErr == nil && proxyErr.Error != nil {
			return "", fmt.Errorf("chat proxy returned %d: %v", resp.StatusCode, proxyErr.Error)
		}
		return "", fmt.Errorf("chat proxy returned %d", resp.StatusCode)
	}

	var completion models.CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
