package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type DocumentListResponse struct {
	Documents  []*Document `json:"documents"`
	TotalCount int64       `json:"total_count"`
	Skip       int         `json:"skip"`
	Limit      int         `json:"limit"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

type CleanupResponse struct {
	RemovedCount int64 `json:"removed_count"`
}
