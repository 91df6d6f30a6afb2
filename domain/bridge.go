package domain

// ChatMessage is the neutral message shape carried over the bridge protocol.
// Only flattened text crosses the bridge boundary: role and system/user
// distinctions are intentionally not representable here.
type ChatMessage struct {
	Content string `json:"content"`
}

// BridgeRequest is the body of POST /api/chat.
type BridgeRequest struct {
	Messages []ChatMessage  `json:"messages"`
	Model    *ModelSelector `json:"model,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

// BridgeResponse is the single synchronous reply to POST /api/chat.
// Invariant: Success is true iff Response is present and Error is empty.
type BridgeResponse struct {
	Success  bool             `json:"success"`
	Response string           `json:"response,omitempty"`
	Model    *ModelDescriptor `json:"model,omitempty"`
	Error    string           `json:"error,omitempty"`

	// Usage is untyped on purpose: hosts that don't count tokens omit it,
	// and hosts that do are not trusted to send well-formed numbers.
	Usage map[string]any `json:"usage,omitempty"`
}

// ModelListResponse is the body of GET /api/models.
type ModelListResponse struct {
	Success bool              `json:"success"`
	Models  []ModelDescriptor `json:"models"`
	Count   int               `json:"count"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Extension string `json:"extension"`
}
