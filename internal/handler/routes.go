package handler

import (
	"pdf-quiz/internal/middleware"
	"pdf-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the quiz API on api (normally the "/api" group).
// Only quiz generation is rate limited.
func RegisterRoutes(api fiber.Router, quizHandler *QuizHandler, validation *middleware.ValidationMiddleware, limiter service.RateLimiter) {
	api.Post("/upload", validation.ValidateUpload(), quizHandler.UploadPDF)
	api.Post("/generate-quiz", middleware.RateLimit(limiter), quizHandler.GenerateQuiz)
	api.Get("/check-api-key", quizHandler.CheckAPIKey)
}
