package types

// ProcessRequest triggers the full ingestion pipeline for one security code.
type ProcessRequest struct {
	SecurityCode  string `json:"security_code" binding:"required"`
	PromptProfile string `json:"prompt_profile,omitempty"`
	CustomPrompt  string `json:"custom_prompt,omitempty"`
}

// SearchRequest is a hybrid search query. Weights need not sum to 1; both
// explicitly zero is rejected before any backend call. Nil weights fall
// back to the configured defaults.
type SearchRequest struct {
	Query         string   `json:"query" binding:"required"`
	Limit         int      `json:"limit,omitempty"`
	VectorWeight  *float64 `json:"vector_weight,omitempty"`
	KeywordWeight *float64 `json:"keyword_weight,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

const (
	TypeWebsocketPing      = "ping"
	TypeWebsocketPong      = "pong"
	TypeWebsocketProcess   = "process"
	TypeWebsocketProgress  = "progress"
	TypeWebsocketCompleted = "completed"
	TypeWebsocketError     = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebsocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
