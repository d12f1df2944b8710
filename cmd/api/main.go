// @title PDF Quiz API
// @version 1.0
// @description Turns uploaded PDF documents into multiple-choice, true/false and fill-in-the-blank quizzes.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:5000
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"pdf-quiz/internal/adapter"
	"pdf-quiz/internal/adapter/pdfextract"
	"pdf-quiz/internal/adapter/quizgen"
	"pdf-quiz/internal/cache"
	"pdf-quiz/internal/config"
	"pdf-quiz/internal/domain"
	"pdf-quiz/internal/handler"
	"pdf-quiz/internal/logger"
	"pdf-quiz/internal/middleware"
	"pdf-quiz/internal/service"
	"pdf-quiz/internal/validation"

	_ "pdf-quiz/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Process request
		err := c.Next()

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		}
		if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
			fields = append(fields, zap.String("request_id", id))
		}
		logger.Get().Info("HTTP Request", fields...)

		return err
	}
}

// newApp builds the fiber application with every route mounted.
func newApp(cfg *config.Config, quizService service.QuizService, limiter service.RateLimiter) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	validator := validation.NewValidator(int64(cfg.Upload.MaxSizeMB) * 1024 * 1024)
	quizHandler := handler.NewQuizHandler(quizService, validator)
	handler.RegisterRoutes(app.Group("/api"), quizHandler, middleware.NewValidationMiddleware(validator), limiter)

	if dir := cfg.Server.StaticDir; dir != "" {
		app.Static("/", dir)
		index := filepath.Join(dir, "index.html")
		app.Get("*", func(c *fiber.Ctx) error {
			if _, err := os.Stat(index); err != nil {
				return fiber.ErrNotFound
			}
			return c.SendFile(index)
		})
	}

	return app
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()
	if cfg.File != "" {
		appLogger.Info("Using config file", zap.String("path", cfg.File))
	}

	extractor, err := pdfextract.New(cfg.Upload.Dir)
	if err != nil {
		appLogger.Fatal("Failed to prepare upload directory", zap.Error(err))
	}
	appLogger.Info("PDF extractor initialized", zap.String("upload_dir", extractor.Dir()))

	model, err := quizgen.NewModel(context.Background(), cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	if !cfg.LLM.CredentialConfigured() {
		appLogger.Warn("Gemini API key not properly configured; quiz generation will be refused until GEMINI_API_KEY is set")
	}

	var rateLimitStore domain.Cache
	if cfg.RateLimit.RequestsPerMinute > 0 && cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		rateLimitStore = adapter.NewRedisCacheAdapter(redisClient)
	} else if cfg.RateLimit.RequestsPerMinute > 0 {
		appLogger.Warn("rate_limit.requests_per_minute is set but redis.address is empty; rate limiting disabled")
	}
	limiter := service.NewRateLimiter(rateLimitStore, cfg.RateLimit.RequestsPerMinute)

	quizService := service.NewQuizService(extractor, model, cfg.LLM, cfg.Quiz)
	app := newApp(cfg, quizService, limiter)

	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("provider", cfg.LLM.Provider),
			zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
