package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SaiVinayBathoju/SaiV/service"
	"github.com/SaiVinayBathoju/SaiV/types"
)

type fixedTranscript struct {
	transcript string
}

func (f *fixedTranscript) Fetch(ctx context.Context, videoID string) (string, error) {
	return f.transcript, nil
}

func newContentRouter(store *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	transcript := strings.Repeat("This sentence gives the transcript enough body to index. ", 10)
	h := NewContentHandler(
		service.NewPDFService(100),
		service.NewYouTubeService(&fixedTranscript{transcript: transcript}),
		newTestRAGService(store),
	)
	r := gin.New()
	r.POST("/process-video", h.ProcessVideoHandler)
	return r
}

func postVideo(t *testing.T, r *gin.Engine, url string) types.ProcessContentResponse {
	t.Helper()
	body, _ := json.Marshal(types.ProcessVideoRequest{URL: url})
	req := httptest.NewRequest(http.MethodPost, "/process-video", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool                         `json:"success"`
		Data    types.ProcessContentResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success {
		t.Fatalf("success = false, body = %s", w.Body.String())
	}
	return resp.Data
}

// Reprocessing a source must mint a fresh document ID and leave earlier
// documents and their chunks untouched.
func TestProcessVideoMintsFreshDocumentID(t *testing.T) {
	store := newMemStore()
	r := newContentRouter(store)

	first := postVideo(t, r, "https://youtu.be/dQw4w9WgXcQ")
	second := postVideo(t, r, "https://youtu.be/dQw4w9WgXcQ")

	if first.DocumentID == "" || second.DocumentID == "" {
		t.Fatal("missing document ID in response")
	}
	if first.DocumentID == second.DocumentID {
		t.Fatalf("document ID %q reused across ingestions", first.DocumentID)
	}
	if len(store.docs) != 2 {
		t.Errorf("store holds %d documents, want 2", len(store.docs))
	}
	for _, id := range []string{first.DocumentID, second.DocumentID} {
		if len(store.chunks[id]) == 0 {
			t.Errorf("document %s has no chunks", id)
		}
	}
	if first.ChunkCount == 0 || second.ChunkCount == 0 {
		t.Errorf("chunk counts = %d, %d", first.ChunkCount, second.ChunkCount)
	}
}
