package domain

import (
	"context"
	"mime"
	"strings"
)

// PDFMediaType is the only media type accepted for upload.
const PDFMediaType = "application/pdf"

// UploadedDocument is an uploaded file held in memory for the length of one request.
type UploadedDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsPDF reports whether the declared content type is application/pdf.
// Parameters and case are ignored.
func (d *UploadedDocument) IsPDF() bool {
	mediaType, _, err := mime.ParseMediaType(d.ContentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(d.ContentType, ";")[0])
	}
	return strings.EqualFold(mediaType, PDFMediaType)
}

// ExtractionResult holds the output of a PDF text extraction.
type ExtractionResult struct {
	Text      string
	PageCount int
	WordCount int
}

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc *UploadedDocument) (*ExtractionResult, error)
}
