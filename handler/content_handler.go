package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SaiVinayBathoju/SaiV/service"
	"github.com/SaiVinayBathoju/SaiV/types"
)

const (
	maxUploadSize  = 10 << 20
	previewLength  = 500
	indexedMessage = "Content processed and indexed successfully"
)

// ContentHandler ingests PDFs and YouTube videos into the document index.
type ContentHandler struct {
	pdfService     *service.PDFService
	youtubeService *service.YouTubeService
	ragService     *service.RAGService
}

func NewContentHandler(pdfService *service.PDFService, youtubeService *service.YouTubeService, ragService *service.RAGService) *ContentHandler {
	return &ContentHandler{
		pdfService:     pdfService,
		youtubeService: youtubeService,
		ragService:     ragService,
	}
}

// ProcessPDFHandler accepts a multipart PDF upload, extracts its text and
// indexes it under a freshly minted document ID.
func (h *ContentHandler) ProcessPDFHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Error:   "No file uploaded",
		})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Error:   "Only PDF files are supported",
		})
		return
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Error:   "File too large (max 10MB)",
		})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Error:   "Failed to read uploaded file",
		})
		return
	}

	content, err := h.pdfService.ExtractText(data, header.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	doc := types.Document{
		ID:         uuid.NewString(),
		SourceType: types.SourceTypePDF,
		SourceID:   header.Filename,
		Title:      service.TitleFromFilename(header.Filename),
		Content:    content,
	}
	h.indexAndRespond(c, doc)
}

// ProcessVideoHandler fetches a YouTube transcript and indexes it under a
// freshly minted document ID.
func (h *ContentHandler) ProcessVideoHandler(c *gin.Context) {
	var req types.ProcessVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Error:   "url is required",
		})
		return
	}

	videoID, transcript, err := h.youtubeService.FetchTranscript(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	doc := types.Document{
		ID:         uuid.NewString(),
		SourceType: types.SourceTypeYouTube,
		SourceID:   videoID,
		Title:      "YouTube Video " + videoID,
		Content:    transcript,
	}
	h.indexAndRespond(c, doc)
}

func (h *ContentHandler) indexAndRespond(c *gin.Context, doc types.Document) {
	chunkCount, err := h.ragService.IngestDocument(c.Request.Context(), doc)
	if err != nil {
		log.Error().Err(err).Str("document_id", doc.ID).Msg("ingestion failed")
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	preview := doc.Content
	if len(preview) > previewLength {
		preview = preview[:previewLength] + "..."
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data: types.ProcessContentResponse{
			DocumentID:     doc.ID,
			Title:          doc.Title,
			ContentPreview: preview,
			ChunkCount:     chunkCount,
			Message:        indexedMessage,
		},
	})
}
