package types

type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ProcessContentResponse is returned after a PDF or video has been indexed.
type ProcessContentResponse struct {
	DocumentID     string `json:"document_id"`
	Title          string `json:"title"`
	ContentPreview string `json:"content_preview"`
	ChunkCount     int    `json:"chunk_count"`
	Message        string `json:"message"`
}

type ProcessVideoRequest struct {
	URL string `json:"url"`
}
