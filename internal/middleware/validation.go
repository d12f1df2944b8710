package middleware

import (
	"errors"
	"net/http"

	"pdf-quiz/internal/domain"
	"pdf-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// UploadFileKey is the fiber.Ctx Locals key holding the validated *multipart.FileHeader.
const UploadFileKey = "validated_upload"

// UploadFormField is the multipart field carrying the PDF.
const UploadFormField = "pdf"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(validator *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validator,
	}
}

// ValidateUpload checks the uploaded PDF's multipart header before the
// handler reads its content.
func (vm *ValidationMiddleware) ValidateUpload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header, err := c.FormFile(UploadFormField)
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) && fiberErr.Code == http.StatusRequestEntityTooLarge {
				return err
			}
			return domain.NewNoFileProvidedError()
		}

		if err := vm.validator.ValidateUpload(header); err != nil {
			return err // This will be handled by ErrorHandler middleware
		}

		c.Locals(UploadFileKey, header)
		return c.Next()
	}
}
