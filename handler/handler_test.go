package handler

import (
	"context"
	"sync"

	"github.com/SaiVinayBathoju/SaiV/database"
	"github.com/SaiVinayBathoju/SaiV/service"
	"github.com/SaiVinayBathoju/SaiV/types"
)

// memStore is an in-memory DocumentStore for handler tests.
type memStore struct {
	mu     sync.Mutex
	docs   map[string]types.Document
	chunks map[string][]types.DocumentChunk
}

func newMemStore() *memStore {
	return &memStore{
		docs:   make(map[string]types.Document),
		chunks: make(map[string][]types.DocumentChunk),
	}
}

func (m *memStore) InsertDocument(ctx context.Context, doc types.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	return nil
}

func (m *memStore) DeleteChunks(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chunks, documentID)
	return nil
}

func (m *memStore) InsertChunks(ctx context.Context, chunks []types.DocumentChunk, vectors [][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		m.chunks[c.DocumentID] = append(m.chunks[c.DocumentID], c)
	}
	return nil
}

func (m *memStore) SimilaritySearch(ctx context.Context, vector []float32, documentID string, limit int) ([]string, error) {
	return nil, nil
}

func (m *memStore) GetDocumentContent(ctx context.Context, documentID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[documentID]
	if !ok {
		return "", database.ErrDocumentNotFound
	}
	return doc.Content, nil
}

func (m *memStore) ListChunks(ctx context.Context, documentID string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.chunks[documentID] {
		if len(out) >= limit {
			break
		}
		out = append(out, c.Content)
	}
	return out, nil
}

func newTestRAGService(store database.DocumentStore) *service.RAGService {
	embedder := service.NewEmbeddingService(nil, nil, service.NewLocalEmbedder(), service.ProviderAuto, service.LocalEmbeddingDim, true)
	return service.NewRAGService(store, embedder, 200, 40, 3)
}

// streamGen is a GenerationProvider fake that streams fixed fragments.
type streamGen struct {
	fragments  []string
	lastSystem string
}

func (g *streamGen) Name() string { return "test" }

func (g *streamGen) Generate(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	g.lastSystem = system
	return "", nil
}

func (g *streamGen) GenerateStream(ctx context.Context, system string, messages []types.Message, onFragment func(string) error) error {
	g.lastSystem = system
	for _, f := range g.fragments {
		if err := onFragment(f); err != nil {
			return err
		}
	}
	return nil
}
