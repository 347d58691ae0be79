package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SaiVinayBathoju/SaiV/database"
	"github.com/SaiVinayBathoju/SaiV/types"
)

type fakeStore struct {
	docs          map[string]types.Document
	chunks        map[string][]types.DocumentChunk
	searchResults []string
	searchErr     error
	deleteCalls   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:   make(map[string]types.Document),
		chunks: make(map[string][]types.DocumentChunk),
	}
}

func (f *fakeStore) InsertDocument(ctx context.Context, doc types.Document) error {
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeStore) DeleteChunks(ctx context.Context, documentID string) error {
	f.deleteCalls++
	delete(f.chunks, documentID)
	return nil
}

func (f *fakeStore) InsertChunks(ctx context.Context, chunks []types.DocumentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("count mismatch")
	}
	for _, c := range chunks {
		f.chunks[c.DocumentID] = append(f.chunks[c.DocumentID], c)
	}
	return nil
}

func (f *fakeStore) SimilaritySearch(ctx context.Context, vector []float32, documentID string, limit int) ([]string, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults, nil
}

func (f *fakeStore) GetDocumentContent(ctx context.Context, documentID string) (string, error) {
	doc, ok := f.docs[documentID]
	if !ok {
		return "", database.ErrDocumentNotFound
	}
	return doc.Content, nil
}

func (f *fakeStore) ListChunks(ctx context.Context, documentID string, limit int) ([]string, error) {
	var out []string
	for _, c := range f.chunks[documentID] {
		if len(out) >= limit {
			break
		}
		out = append(out, c.Content)
	}
	return out, nil
}

func newTestRAG(store database.DocumentStore) *RAGService {
	embedder := NewEmbeddingService(nil, nil, NewLocalEmbedder(), ProviderAuto, LocalEmbeddingDim, true)
	return NewRAGService(store, embedder, 200, 40, 3)
}

func TestIngestDocument(t *testing.T) {
	store := newFakeStore()
	svc := newTestRAG(store)

	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("This sentence provides body text for the ingestion test. ")
	}
	doc := types.Document{ID: "doc-1", SourceType: types.SourceTypePDF, Title: "T", Content: b.String()}

	count, err := svc.IngestDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count < 2 {
		t.Errorf("expected multiple chunks, got %d", count)
	}
	if len(store.chunks["doc-1"]) != count {
		t.Errorf("stored %d chunks, reported %d", len(store.chunks["doc-1"]), count)
	}
	if store.deleteCalls != 1 {
		t.Errorf("stale chunks not cleared, delete calls = %d", store.deleteCalls)
	}
	if _, ok := store.docs["doc-1"]; !ok {
		t.Error("document record not stored")
	}
	for i, c := range store.chunks["doc-1"] {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
	}
}

func TestIngestDocumentEmptyContent(t *testing.T) {
	svc := newTestRAG(newFakeStore())

	_, err := svc.IngestDocument(context.Background(), types.Document{ID: "d", Content: "   "})
	if !errors.Is(err, ErrNoChunks) {
		t.Errorf("expected ErrNoChunks, got %v", err)
	}
}

func TestRetrieveContext(t *testing.T) {
	store := newFakeStore()
	store.searchResults = []string{"chunk one", "chunk two"}
	svc := newTestRAG(store)

	got, err := svc.RetrieveContext(context.Background(), "doc-1", "what is this about?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "chunk one\n\n---\n\nchunk two"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRetrieveContextEmptyQuery(t *testing.T) {
	svc := newTestRAG(newFakeStore())

	_, err := svc.RetrieveContext(context.Background(), "doc-1", "  ")
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestRetrieveContextFallsBackToLeadingChunks(t *testing.T) {
	store := newFakeStore()
	store.searchErr = errors.New("vector index unavailable")
	for i := 0; i < 8; i++ {
		store.chunks["doc-1"] = append(store.chunks["doc-1"], types.DocumentChunk{
			DocumentID: "doc-1", Index: i, Content: strings.Repeat("c", i+1),
		})
	}
	svc := newTestRAG(store)

	got, err := svc.RetrieveContext(context.Background(), "doc-1", "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parts := strings.Split(got, "\n\n---\n\n")
	if len(parts) != 3 {
		t.Errorf("expected topK=3 fallback chunks, got %d", len(parts))
	}
	if parts[0] != "c" {
		t.Errorf("fallback should start from the first chunk, got %q", parts[0])
	}
}

func TestRetrieveContextEmptySearchResultFallsBack(t *testing.T) {
	store := newFakeStore()
	store.chunks["doc-1"] = []types.DocumentChunk{{DocumentID: "doc-1", Index: 0, Content: "only chunk"}}
	svc := newTestRAG(store)

	got, err := svc.RetrieveContext(context.Background(), "doc-1", "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "only chunk" {
		t.Errorf("got %q", got)
	}
}
