package validation

import (
	"mime/multipart"
	"strings"

	"pdf-quiz/internal/domain"
)

// Validator provides request validation functionality
type Validator struct {
	maxUploadBytes int64
}

// NewValidator creates a new validator instance. A non-positive
// maxUploadBytes disables the size check.
func NewValidator(maxUploadBytes int64) *Validator {
	return &Validator{maxUploadBytes: maxUploadBytes}
}

// ValidateUpload checks the multipart header of an uploaded file before its
// content is read.
func (v *Validator) ValidateUpload(header *multipart.FileHeader) error {
	if header == nil || header.Size == 0 {
		return domain.NewNoFileProvidedError()
	}

	doc := domain.UploadedDocument{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
	if !doc.IsPDF() {
		return domain.NewInvalidMediaTypeError(doc.ContentType)
	}

	if v.maxUploadBytes > 0 && header.Size > v.maxUploadBytes {
		return domain.NewFileTooLargeError(header.Size, v.maxUploadBytes)
	}
	return nil
}

// ValidateSourceText rejects text with no printable content.
func (v *Validator) ValidateSourceText(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.NewNoTextProvidedError()
	}
	return nil
}
