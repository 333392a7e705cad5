package types

const (
	DOCUMENT_STATUS_PENDING    = "pending"
	DOCUMENT_STATUS_PROCESSING = "processing"
	DOCUMENT_STATUS_COMPLETED  = "completed"
	DOCUMENT_STATUS_FAILED     = "failed"
)

// Document is the canonical record for one security code. Exactly one live
// document exists per security code; reprocessing replaces it in place.
type Document struct {
	ID              string `json:"id" bson:"_id,omitempty"`
	SecurityCode    string `json:"security_code" bson:"security_code"`
	SourceURL       string `json:"source_url" bson:"source_url"`
	Filename        string `json:"filename" bson:"filename"`
	FileSize        int64  `json:"file_size" bson:"file_size"`
	Content         string `json:"content" bson:"content"`
	TotalPages      int    `json:"total_pages" bson:"total_pages"`
	SuccessfulPages int    `json:"successful_pages" bson:"successful_pages"`
	FailedPages     []int  `json:"failed_pages" bson:"failed_pages"`
	Status          string `json:"status" bson:"status"`
	SuccessYn       bool   `json:"success_yn" bson:"success_yn"`
	PromptProfile   string `json:"prompt_profile" bson:"prompt_profile"`
	CreatedAt       int64  `json:"created_at" bson:"created_at"`
	UpdatedAt       int64  `json:"updated_at" bson:"updated_at"`
}

// PageResult is the outcome of extracting a single page. It only lives
// between the extractor and the aggregator.
type PageResult struct {
	PageIndex int    `json:"page_index"`
	Text      string `json:"text"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

// Chunk is one embedded window of a document's content, keyed by
// (security_code, chunk_number) in the vector index.
type Chunk struct {
	SecurityCode string    `json:"security_code"`
	ChunkNumber  int       `json:"chunk_number"`
	Text         string    `json:"text"`
	DocumentID   string    `json:"document_id"`
	Filename     string    `json:"filename"`
	Embedding    []float32 `json:"-"`
}

// SearchResult is one fused hit from the hybrid searcher.
type SearchResult struct {
	SecurityCode string  `json:"security_code"`
	ChunkNumber  int     `json:"chunk_number"`
	Text         string  `json:"text"`
	VectorScore  float64 `json:"vector_score"`
	KeywordScore float64 `json:"keyword_score"`
	FusedScore   float64 `json:"fused_score"`
	Rank         int     `json:"rank"`
}

// DocumentFilter narrows ListDocuments.
type DocumentFilter struct {
	SecurityCode string
	Status       string
}

// IndexResult reports one Chunker+Embedder pass.
type IndexResult struct {
	SecurityCode string `json:"security_code"`
	ChunkCount   int    `json:"chunk_count"`
	FailedChunks int    `json:"failed_chunks"`
}

// ProcessingStatus is streamed to callers while a document is processed.
type ProcessingStatus struct {
	SecurityCode   string  `json:"security_code"`
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	Progress       float64 `json:"progress"`
	TotalPages     int     `json:"total_pages"`
	ProcessedPages int     `json:"processed_pages"`
}
