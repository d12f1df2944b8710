package handler

import (
	"io"
	"mime/multipart"

	"pdf-quiz/internal/domain"
	"pdf-quiz/internal/dto"
	"pdf-quiz/internal/logger"
	"pdf-quiz/internal/middleware"
	"pdf-quiz/internal/service"
	"pdf-quiz/internal/util"
	"pdf-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles upload and quiz generation HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// UploadPDF godoc
// @Summary Upload a PDF
// @Description Extracts the plain text of an uploaded PDF. The upload is not kept.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param pdf formData file true "PDF document (Content-Type application/pdf)"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /upload [post]
func (h *QuizHandler) UploadPDF(c *fiber.Ctx) error {
	header, ok := c.Locals(middleware.UploadFileKey).(*multipart.FileHeader)
	if !ok || header == nil {
		return domain.NewNoFileProvidedError()
	}

	data, err := readFormFile(header)
	if err != nil {
		return domain.NewInternalError("Failed to read upload", err)
	}

	result, err := h.service.ExtractText(c.UserContext(), &domain.UploadedDocument{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return err
	}

	uploadID := util.NewULID()
	logger.Get().Info("PDF uploaded and text extracted",
		zap.String("upload_id", uploadID),
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
		zap.Int("pages", result.PageCount))

	return c.JSON(dto.UploadResponse{
		Message:       "PDF uploaded and text extracted successfully",
		UploadID:      uploadID,
		Filename:      header.Filename,
		ExtractedText: result.Text,
		PageCount:     result.PageCount,
		WordCount:     result.WordCount,
	})
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Generates 5 multiple-choice, 3 true/false and 2 fill-in-the-blank questions from text
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Source text"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Router /generate-quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse generate-quiz request", zap.Error(err))
		return domain.NewInvalidInputError("Invalid request body")
	}

	if err := h.validator.ValidateSourceText(req.Text); err != nil {
		return err
	}

	quiz, err := h.service.GenerateQuiz(c.UserContext(), req.Text)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewQuizResponse(quiz))
}

// CheckAPIKey godoc
// @Summary Check generation credential
// @Description Reports whether the quiz generation credential is configured
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.CredentialStatusResponse
// @Router /check-api-key [get]
func (h *QuizHandler) CheckAPIKey(c *fiber.Ctx) error {
	return c.JSON(dto.CredentialStatusResponse{
		Configured: h.service.CredentialConfigured(),
	})
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
