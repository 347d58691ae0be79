package types

const (
	SourceTypePDF     = "pdf"
	SourceTypeYouTube = "youtube"
)

// Document is one ingested source: an uploaded PDF or a YouTube transcript.
// A fresh ID is minted for every ingestion and never reused for different
// content; reprocessing the same source yields a new document.
type Document struct {
	ID         string            `json:"id"`
	SourceType string            `json:"source_type"`
	SourceID   string            `json:"source_id"` // dedup hint, not enforced unique
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata"`
}

// DocumentChunk is one ordered slice of a document's text, the unit of
// embedding and retrieval. Chunks are immutable; reprocessing a document
// replaces its whole chunk set.
type DocumentChunk struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"chunk_index"`
	Content    string `json:"content"`
}
