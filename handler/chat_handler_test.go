package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SaiVinayBathoju/SaiV/service"
	"github.com/SaiVinayBathoju/SaiV/types"
)

func newChatRouter(store *memStore, gen *streamGen) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChatHandler(newTestRAGService(store), service.NewGenerationService(nil, gen, service.ProviderAuto))
	r := gin.New()
	r.POST("/chat", h.ChatHandler)
	return r
}

func postChat(t *testing.T, r *gin.Engine, reqBody types.ChatRequest) string {
	t.Helper()
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Body.String()
}

func TestChatRejectsNonUserLastMessage(t *testing.T) {
	r := newChatRouter(newMemStore(), &streamGen{fragments: []string{"never sent"}})

	body := postChat(t, r, types.ChatRequest{
		DocumentID: "doc-1",
		Messages: []types.Message{
			{Role: types.RoleUser, Content: "question"},
			{Role: types.RoleAssistant, Content: "answer"},
		},
	})
	if !strings.Contains(body, "[ERROR]") || !strings.Contains(body, "must be from user") {
		t.Errorf("body = %q", body)
	}
	if strings.Contains(body, "never sent") {
		t.Errorf("generation ran despite invalid conversation: %q", body)
	}
}

// An empty retrieval is not terminal: the notice stands in for the context
// and the model still answers.
func TestChatAnswersWithoutRetrievedContext(t *testing.T) {
	gen := &streamGen{fragments: []string{"grounded answer"}}
	r := newChatRouter(newMemStore(), gen)

	body := postChat(t, r, types.ChatRequest{
		DocumentID: "doc-1",
		Messages:   []types.Message{{Role: types.RoleUser, Content: "what is covered?"}},
	})
	if !strings.Contains(body, "data: grounded answer") {
		t.Errorf("answer fragment missing from stream: %q", body)
	}
	if strings.Contains(body, "[ERROR]") {
		t.Errorf("unexpected error event: %q", body)
	}
	if !strings.Contains(gen.lastSystem, "No relevant context found") {
		t.Errorf("empty retrieval was not substituted into the prompt context: %q", gen.lastSystem)
	}
}

func TestChatStreamsMultiLineFragmentAsOneEvent(t *testing.T) {
	gen := &streamGen{fragments: []string{"line one\nline two"}}
	r := newChatRouter(newMemStore(), gen)

	body := postChat(t, r, types.ChatRequest{
		DocumentID: "doc-1",
		Messages:   []types.Message{{Role: types.RoleUser, Content: "q"}},
	})
	if !strings.Contains(body, "data: line one\ndata: line two\n\n") {
		t.Errorf("multi-line fragment not framed as one event: %q", body)
	}
}
