// Package pdfextract extracts plain text from uploaded PDF documents.
//
// Uploads are staged in a temp file for the duration of one extraction and
// removed on every exit path.
package pdfextract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"pdf-quiz/internal/domain"
	"pdf-quiz/internal/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Extractor implements domain.TextExtractor with github.com/ledongthuc/pdf.
type Extractor struct {
	dir string
}

// New creates an Extractor that stages uploads in dir (os.TempDir() when empty).
func New(dir string) (*Extractor, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Extractor{dir: dir}, nil
}

// Dir is where uploads are staged while they are parsed.
func (e *Extractor) Dir() string {
	return e.dir
}

// Extract validates the document and returns its text.
func (e *Extractor) Extract(ctx context.Context, doc *domain.UploadedDocument) (*domain.ExtractionResult, error) {
	if doc == nil || len(doc.Data) == 0 {
		return nil, domain.NewNoFileProvidedError()
	}
	if !doc.IsPDF() {
		return nil, domain.NewInvalidMediaTypeError(doc.ContentType)
	}
	if detected := mimetype.Detect(doc.Data); !detected.Is(domain.PDFMediaType) {
		return nil, domain.NewUnreadablePDFError(fmt.Errorf("content sniffed as %s", detected.String()))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := e.stage(doc.Data)
	if err != nil {
		return nil, domain.NewInternalError("Failed to store upload", err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Get().Warn("Failed to remove staged upload", zap.String("path", path), zap.Error(rmErr))
		}
	}()

	result, err := readPDF(path)
	if err != nil {
		logger.Get().Warn("PDF extraction failed",
			zap.String("filename", doc.Filename),
			zap.Int("size", len(doc.Data)),
			zap.Error(err))
		return nil, domain.NewUnreadablePDFError(err)
	}

	logger.Get().Info("Extracted text from PDF",
		zap.String("filename", doc.Filename),
		zap.Int("pages", result.PageCount),
		zap.Int("words", result.WordCount))
	return result, nil
}

func (e *Extractor) stage(data []byte) (string, error) {
	f, err := os.CreateTemp(e.dir, "upload-*.pdf")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// readPDF parses the file at path. The pdf library panics on some malformed
// inputs; those panics are returned as errors.
func readPDF(path string) (result *domain.ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	numPages := r.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		pages = append(pages, text)
	}

	text := strings.TrimSpace(strings.Join(pages, "\n"))
	return &domain.ExtractionResult{
		Text:      text,
		PageCount: numPages,
		WordCount: len(strings.Fields(text)),
	}, nil
}

var _ domain.TextExtractor = (*Extractor)(nil)
