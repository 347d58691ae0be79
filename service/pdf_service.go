package service

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"github.com/SaiVinayBathoju/SaiV/utils"
)

// ErrNoExtractableText is returned when a PDF parses but yields no text,
// which usually means a scanned or image-only document.
var ErrNoExtractableText = errors.New("no extractable text found in PDF (the file may be scanned or image-based)")

// PDFService extracts normalized text from uploaded PDF files.
type PDFService struct {
	maxPages int
}

func NewPDFService(maxPages int) *PDFService {
	return &PDFService{maxPages: maxPages}
}

// ExtractText parses the PDF bytes and returns cleaned full text. Pages past
// the configured cap are skipped; pages that fail to render are logged and
// skipped rather than failing the whole document.
func (s *PDFService) ExtractText(data []byte, filename string) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.New("failed to parse PDF (the file may be corrupted or encrypted)")
	}

	numPages := reader.NumPage()
	if s.maxPages > 0 && numPages > s.maxPages {
		log.Warn().Str("file", filename).Int("pages", numPages).Int("max", s.maxPages).
			Msg("PDF exceeds page cap, extracting leading pages only")
		numPages = s.maxPages
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Err(err).Str("file", filename).Int("page", i).
				Msg("failed to extract page text, skipping")
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	cleaned := utils.CleanText(strings.Join(pages, "\n\n"))
	if cleaned == "" {
		return "", ErrNoExtractableText
	}
	return cleaned, nil
}

// TitleFromFilename derives a document title from the uploaded file name.
func TitleFromFilename(filename string) string {
	base := filepath.Base(filename)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	title = strings.NewReplacer("_", " ", "-", " ").Replace(title)
	title = strings.TrimSpace(title)
	if title == "" {
		return "Untitled Document"
	}
	return title
}
