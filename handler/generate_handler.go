package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/SaiVinayBathoju/SaiV/database"
	"github.com/SaiVinayBathoju/SaiV/service"
	"github.com/SaiVinayBathoju/SaiV/types"
)

const (
	maxFlashcards = 15
	maxQuiz       = 10
)

// GenerateHandler serves flashcard and quiz synthesis for an indexed document.
type GenerateHandler struct {
	ragService        *service.RAGService
	generationService *service.GenerationService
}

func NewGenerateHandler(ragService *service.RAGService, generationService *service.GenerationService) *GenerateHandler {
	return &GenerateHandler{
		ragService:        ragService,
		generationService: generationService,
	}
}

func (h *GenerateHandler) GenerateFlashcardsHandler(c *gin.Context) {
	content, ok := h.loadContent(c)
	if !ok {
		return
	}

	cards, err := h.generationService.GenerateFlashcards(c.Request.Context(), content)
	if err != nil {
		h.sendGenerationError(c, err)
		return
	}
	if len(cards) > maxFlashcards {
		cards = cards[:maxFlashcards]
	}
	if len(cards) == 0 {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Error:   "The AI did not return any usable flashcards. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data: types.FlashcardsResponse{
			Flashcards: cards,
			DocumentID: c.GetString(documentIDKey),
			Count:      len(cards),
		},
	})
}

func (h *GenerateHandler) GenerateQuizHandler(c *gin.Context) {
	content, ok := h.loadContent(c)
	if !ok {
		return
	}

	questions, err := h.generationService.GenerateQuiz(c.Request.Context(), content)
	if err != nil {
		h.sendGenerationError(c, err)
		return
	}
	// A question with fewer than two options is unanswerable.
	usable := questions[:0]
	for _, q := range questions {
		if len(q.Options) >= 2 {
			usable = append(usable, q)
		}
	}
	if len(usable) > maxQuiz {
		usable = usable[:maxQuiz]
	}
	if len(usable) == 0 {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Error:   "The AI did not return any usable quiz questions. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data: types.QuizResponse{
			Quiz:       usable,
			DocumentID: c.GetString(documentIDKey),
			Count:      len(usable),
		},
	})
}

const documentIDKey = "document_id"

// loadContent validates the request and fetches the document's full text.
// On failure it writes the error response and returns ok=false.
func (h *GenerateHandler) loadContent(c *gin.Context) (string, bool) {
	var req types.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DocumentID == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Error:   "document_id is required",
		})
		return "", false
	}
	c.Set(documentIDKey, req.DocumentID)

	content, err := h.ragService.GetDocumentContent(c.Request.Context(), req.DocumentID)
	if err != nil {
		if errors.Is(err, database.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, types.DataResponse{
				Success: false,
				Error:   "Document not found. Process a PDF or video first.",
			})
			return "", false
		}
		log.Error().Err(err).Str("document_id", req.DocumentID).Msg("document lookup failed")
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Error:   "Failed to load document content",
		})
		return "", false
	}
	return content, true
}

func (h *GenerateHandler) sendGenerationError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if service.IsConfigurationError(err) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, types.DataResponse{
		Success: false,
		Error:   err.Error(),
	})
}
