package database

import (
	"context"
	"errors"

	"github.com/SaiVinayBathoju/SaiV/types"
)

// ErrDocumentNotFound is returned when a document ID has no stored record.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore persists documents and their embedded chunks and answers
// similarity queries scoped to one document.
type DocumentStore interface {
	// InsertDocument stores the full document record under doc.ID.
	InsertDocument(ctx context.Context, doc types.Document) error
	// DeleteChunks removes every chunk indexed under documentID.
	DeleteChunks(ctx context.Context, documentID string) error
	// InsertChunks stores chunks with their index-aligned vectors.
	InsertChunks(ctx context.Context, chunks []types.DocumentChunk, vectors [][]float32) error
	// SimilaritySearch returns up to limit chunk contents nearest to vector
	// within one document, most similar first.
	SimilaritySearch(ctx context.Context, vector []float32, documentID string, limit int) ([]string, error)
	// GetDocumentContent returns the stored full text of a document, or
	// ErrDocumentNotFound.
	GetDocumentContent(ctx context.Context, documentID string) (string, error)
	// ListChunks returns up to limit chunk contents in chunk order.
	ListChunks(ctx context.Context, documentID string, limit int) ([]string, error)
}
