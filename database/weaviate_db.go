package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/SaiVinayBathoju/SaiV/types"
)

const chunkBatchSize = 200

var (
	documentClass       = "Document"
	documentClassObject = &models.Class{
		Class: documentClass,
		Properties: []*models.Property{
			{Name: "docId", DataType: []string{"text"}},
			{Name: "sourceType", DataType: []string{"text"}},
			{Name: "sourceId", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "content", DataType: []string{"text"}},
		},
		Vectorizer: "none",
	}

	chunkClass       = "DocumentChunk"
	chunkClassObject = &models.Class{
		Class: chunkClass,
		Properties: []*models.Property{
			{Name: "documentId", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "content", DataType: []string{"text"}},
		},
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

// WeaviateStoreConfig holds the connection settings for the vector store.
type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"api_key"`
}

// WeaviateStore implements DocumentStore on a Weaviate instance. Vectors are
// always supplied by the caller; the instance runs no vectorizer module.
type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(config WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	existing := make(map[string]bool)
	for _, class := range schema.Classes {
		existing[class.Class] = true
	}
	for _, classObj := range []*models.Class{documentClassObject, chunkClassObject} {
		if existing[classObj.Class] {
			continue
		}
		if err := client.Schema().ClassCreator().WithClass(classObj).Do(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to create %s class: %v", classObj.Class, err)
		}
	}
	return &WeaviateStore{client: client}, nil
}

func (s *WeaviateStore) InsertDocument(ctx context.Context, doc types.Document) error {
	properties := map[string]interface{}{
		"docId":      doc.ID,
		"sourceType": doc.SourceType,
		"sourceId":   doc.SourceID,
		"title":      doc.Title,
		"content":    doc.Content,
	}

	_, err := s.client.Data().Creator().
		WithClassName(documentClass).
		WithProperties(properties).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert document: %v", err)
	}
	return nil
}

func (s *WeaviateStore) DeleteChunks(ctx context.Context, documentID string) error {
	where := filters.Where().
		WithPath([]string{"documentId"}).
		WithOperator(filters.Equal).
		WithValueString(documentID)

	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(chunkClass).
		WithWhere(where).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete chunks: %v", err)
	}
	return nil
}

func (s *WeaviateStore) InsertChunks(ctx context.Context, chunks []types.DocumentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	total := len(chunks)
	for i := 0; i < total; i += chunkBatchSize {
		end := i + chunkBatchSize
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			batcher = batcher.WithObjects(&models.Object{
				Class: chunkClass,
				Properties: map[string]interface{}{
					"documentId": chunks[j].DocumentID,
					"chunkIndex": chunks[j].Index,
					"content":    chunks[j].Content,
				},
				Vector: vectors[j],
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}
		log.Debug().Int("from", i).Int("to", end).Int("total", total).Msg("inserted chunk batch")
	}
	return nil
}

func (s *WeaviateStore) SimilaritySearch(ctx context.Context, vector []float32, documentID string, limit int) ([]string, error) {
	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)
	where := filters.Where().
		WithPath([]string{"documentId"}).
		WithOperator(filters.Equal).
		WithValueString(documentID)

	result, err := s.client.GraphQL().Get().
		WithClassName(chunkClass).
		WithFields(graphql.Field{Name: "content"}).
		WithNearVector(nearVector).
		WithWhere(where).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %v", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("similarity search failed: %v", result.Errors[0].Message)
	}

	return parseChunkContents(result.Data), nil
}

func (s *WeaviateStore) GetDocumentContent(ctx context.Context, documentID string) (string, error) {
	where := filters.Where().
		WithPath([]string{"docId"}).
		WithOperator(filters.Equal).
		WithValueString(documentID)

	result, err := s.client.GraphQL().Get().
		WithClassName(documentClass).
		WithFields(graphql.Field{Name: "content"}).
		WithWhere(where).
		WithLimit(1).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get document: %v", err)
	}
	if result.Errors != nil {
		return "", fmt.Errorf("failed to get document: %v", result.Errors[0].Message)
	}

	data, ok := result.Data["Get"].(map[string]interface{})[documentClass].([]interface{})
	if !ok || len(data) == 0 {
		return "", ErrDocumentNotFound
	}
	obj, ok := data[0].(map[string]interface{})
	if !ok {
		return "", ErrDocumentNotFound
	}
	content, _ := obj["content"].(string)
	return content, nil
}

func (s *WeaviateStore) ListChunks(ctx context.Context, documentID string, limit int) ([]string, error) {
	where := filters.Where().
		WithPath([]string{"documentId"}).
		WithOperator(filters.Equal).
		WithValueString(documentID)
	sort := graphql.Sort{Path: []string{"chunkIndex"}, Order: graphql.Asc}

	result, err := s.client.GraphQL().Get().
		WithClassName(chunkClass).
		WithFields(graphql.Field{Name: "content"}).
		WithWhere(where).
		WithSort(sort).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %v", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("failed to list chunks: %v", result.Errors[0].Message)
	}

	return parseChunkContents(result.Data), nil
}

func parseChunkContents(data map[string]models.JSONObject) []string {
	var contents []string
	if items, ok := data["Get"].(map[string]interface{})[chunkClass].([]interface{}); ok {
		for _, item := range items {
			if obj, ok := item.(map[string]interface{}); ok {
				if content, ok := obj["content"].(string); ok {
					contents = append(contents, content)
				}
			}
		}
	}
	return contents
}
