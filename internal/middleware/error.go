package middleware

import (
	"errors"
	"net/http"

	"pdf-quiz/internal/domain"
	"pdf-quiz/internal/dto"
	"pdf-quiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is a centralized error handling middleware.
// Every failure is answered with dto.ErrorResponse; causes are logged, never sent.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		logger := logger.Get()

		// Handle domain errors
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := StatusForCode(domainErr.Code)

			fields := []zap.Field{
				zap.String("path", c.Path()),
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Err),
			}
			if statusCode >= http.StatusInternalServerError {
				logger.Error("Domain error occurred", fields...)
			} else {
				logger.Warn("Domain error occurred", fields...)
			}

			return c.Status(statusCode).JSON(dto.ErrorResponse{
				Error: domainErr.Message,
				Code:  string(domainErr.Code),
			})
		}

		// Handle fiber errors
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			logger.Warn("Fiber error occurred",
				zap.String("path", c.Path()),
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{
				Error: fiberErr.Message,
				Code:  "HTTP_ERROR",
			})
		}

		// Handle unknown errors
		logger.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Internal server error",
			Code:  string(domain.ErrInternal),
		})
	}
}

// StatusForCode maps domain error codes to HTTP status codes
func StatusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.ErrInvalidInput, domain.ErrNoFileProvided, domain.ErrInvalidMediaType, domain.ErrNoTextProvided:
		return http.StatusBadRequest
	case domain.ErrFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case domain.ErrUnreadablePDF:
		return http.StatusUnprocessableEntity
	case domain.ErrRateLimited:
		return http.StatusTooManyRequests
	case domain.ErrServiceCallFailed, domain.ErrUnexpectedServiceShape, domain.ErrNoJSONFound, domain.ErrMalformedJSON:
		return http.StatusBadGateway
	case domain.ErrServiceTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
