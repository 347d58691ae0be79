package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/SaiVinayBathoju/SaiV/service"
	"github.com/SaiVinayBathoju/SaiV/types"
)

// errorMarker prefixes an SSE data event that carries a failure instead of
// answer text. Clients render everything after the marker as the error.
const errorMarker = "[ERROR]"

// noContextNotice stands in for the retrieved context when similarity search
// and the fallback both come back empty.
const noContextNotice = "No relevant context found. The document may not be indexed yet."

// ChatHandler streams grounded chat answers over server-sent events.
type ChatHandler struct {
	ragService        *service.RAGService
	generationService *service.GenerationService
}

func NewChatHandler(ragService *service.RAGService, generationService *service.GenerationService) *ChatHandler {
	return &ChatHandler{
		ragService:        ragService,
		generationService: generationService,
	}
}

func (h *ChatHandler) ChatHandler(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeSSE(c, errorMarker+" Invalid request body")
		return
	}
	if req.DocumentID == "" {
		h.writeSSE(c, errorMarker+" document_id is required")
		return
	}
	query, err := service.ChatQuery(req.Messages)
	if err != nil {
		h.writeSSE(c, errorMarker+" "+err.Error())
		return
	}

	ctx := c.Request.Context()
	contextText, err := h.ragService.RetrieveContext(ctx, req.DocumentID, query)
	if err != nil {
		log.Error().Err(err).Str("document_id", req.DocumentID).Msg("context retrieval failed")
		h.writeSSE(c, errorMarker+" "+err.Error())
		return
	}
	if contextText == "" {
		// The model still answers; it is told there is nothing to ground on.
		contextText = noContextNotice
	}

	err = h.generationService.ChatStream(ctx, req.Messages, contextText, func(fragment string) error {
		return h.writeSSE(c, fragment)
	})
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Str("document_id", req.DocumentID).Msg("chat stream failed")
		h.writeSSE(c, errorMarker+" "+err.Error())
	}
}

// writeSSE emits one data event. Multi-line fragments become one "data:"
// line per text line so the event stays a single event on the wire.
func (h *ChatHandler) writeSSE(c *gin.Context, text string) error {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if _, err := c.Writer.WriteString(b.String()); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

// HealthHandler reports liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RootHandler identifies the API.
func RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "SaiV API",
		"message": "AI-powered learning assistant",
	})
}
