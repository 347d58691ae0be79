package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/SaiVinayBathoju/SaiV/database"
	"github.com/SaiVinayBathoju/SaiV/types"
	"github.com/SaiVinayBathoju/SaiV/utils"
)

// contextDelimiter separates retrieved chunks inside the prompt context block.
const contextDelimiter = "\n\n---\n\n"

// RAGService owns the document lifecycle: chunking and indexing on ingest,
// similarity retrieval with a degraded fallback on query.
type RAGService struct {
	store     database.DocumentStore
	embedder  *EmbeddingService
	chunkSize int
	overlap   int
	topK      int
}

func NewRAGService(store database.DocumentStore, embedder *EmbeddingService, chunkSize, overlap, topK int) *RAGService {
	return &RAGService{
		store:     store,
		embedder:  embedder,
		chunkSize: chunkSize,
		overlap:   overlap,
		topK:      topK,
	}
}

// IngestDocument chunks, embeds and indexes a document, replacing any chunks
// previously stored under the same document ID. Returns the number of chunks
// indexed.
func (s *RAGService) IngestDocument(ctx context.Context, doc types.Document) (int, error) {
	pieces := utils.ChunkText(doc.Content, s.chunkSize, s.overlap)
	if len(pieces) == 0 {
		return 0, ErrNoChunks
	}

	vectors, err := s.embedder.Embed(ctx, pieces)
	if err != nil {
		return 0, fmt.Errorf("embed document %s: %w", doc.ID, err)
	}

	if err := s.store.InsertDocument(ctx, doc); err != nil {
		return 0, fmt.Errorf("store document %s: %w", doc.ID, err)
	}
	if err := s.store.DeleteChunks(ctx, doc.ID); err != nil {
		return 0, fmt.Errorf("clear stale chunks for %s: %w", doc.ID, err)
	}

	chunks := make([]types.DocumentChunk, len(pieces))
	for i, content := range pieces {
		chunks[i] = types.DocumentChunk{
			DocumentID: doc.ID,
			Index:      i,
			Content:    content,
		}
	}
	if err := s.store.InsertChunks(ctx, chunks, vectors); err != nil {
		return 0, fmt.Errorf("store chunks for %s: %w", doc.ID, err)
	}

	log.Info().
		Str("document_id", doc.ID).
		Str("source_type", doc.SourceType).
		Int("chunks", len(chunks)).
		Msg("document indexed")
	return len(chunks), nil
}

// RetrieveContext returns the context block for a query against one document:
// the top-K most similar chunks joined by the context delimiter. When
// similarity search fails or matches nothing, it degrades to the document's
// leading chunks so chat still has material to ground on.
func (s *RAGService) RetrieveContext(ctx context.Context, documentID, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	chunks, err := s.store.SimilaritySearch(ctx, vectors[0], documentID, s.topK)
	if err != nil || len(chunks) == 0 {
		if err != nil {
			log.Warn().Err(err).Str("document_id", documentID).
				Msg("similarity search failed, falling back to leading chunks")
		} else {
			log.Warn().Str("document_id", documentID).
				Msg("similarity search matched nothing, falling back to leading chunks")
		}
		chunks, err = s.store.ListChunks(ctx, documentID, 2*s.topK)
		if err != nil {
			return "", fmt.Errorf("list chunks for %s: %w", documentID, err)
		}
		if len(chunks) > s.topK {
			chunks = chunks[:s.topK]
		}
	}

	return strings.Join(chunks, contextDelimiter), nil
}

// GetDocumentContent returns the full stored text of a document.
func (s *RAGService) GetDocumentContent(ctx context.Context, documentID string) (string, error) {
	return s.store.GetDocumentContent(ctx, documentID)
}
