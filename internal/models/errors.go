package models

// APIError is the error payload used by the application endpoints. The chat
// proxy keeps its own flat envelope (see ProxyError).
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
