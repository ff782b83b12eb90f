package models

// ChatMessage is a single message in a conversation sent to the LLM.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// CompletionRequest is the payload a chat client sends to the chat proxy.
// Clients never set a model or credential; the proxy pins both server-side.
type CompletionRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

// CompletionResponse mirrors the one field of the upstream completion
// object the chat client actually consumes.
type CompletionResponse struct {
	Choices []CompletionChoice `json:"choices"`
}

type CompletionChoice struct {
	Message ChatMessage `json:"message"`
}

// ProxyError is the flat error envelope the chat proxy speaks. The value is
// either a plain string produced by the proxy itself or the error object
// relayed verbatim from the upstream provider.
type ProxyError struct {
	Error interface{} `json:"error"`
}
