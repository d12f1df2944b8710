package service

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"pdf-quiz/internal/config"
	"pdf-quiz/internal/domain"
	"pdf-quiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// completionLogLimit is how much of a model completion is logged.
const completionLogLimit = 200

// QuizService defines the interface for the upload and quiz generation pipeline
type QuizService interface {
	ExtractText(ctx context.Context, doc *domain.UploadedDocument) (*domain.ExtractionResult, error)
	GenerateQuiz(ctx context.Context, text string) (*domain.Quiz, error)
	CredentialConfigured() bool
}

// quizService implements QuizService
type quizService struct {
	extractor    domain.TextExtractor
	model        llms.Model
	llmCfg       config.LLMConfig
	quizCfg      config.QuizConfig
	sem          *semaphore.Weighted
	retryBackoff time.Duration
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	extractor domain.TextExtractor,
	model llms.Model,
	llmCfg config.LLMConfig,
	quizCfg config.QuizConfig,
) QuizService {
	maxConcurrent := llmCfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &quizService{
		extractor:    extractor,
		model:        model,
		llmCfg:       llmCfg,
		quizCfg:      quizCfg,
		sem:          semaphore.NewWeighted(maxConcurrent),
		retryBackoff: 500 * time.Millisecond,
	}
}

// ExtractText implements QuizService
func (s *quizService) ExtractText(ctx context.Context, doc *domain.UploadedDocument) (*domain.ExtractionResult, error) {
	return s.extractor.Extract(ctx, doc)
}

// CredentialConfigured implements QuizService
func (s *quizService) CredentialConfigured() bool {
	return s.llmCfg.CredentialConfigured()
}

// GenerateQuiz implements QuizService
func (s *quizService) GenerateQuiz(ctx context.Context, text string) (*domain.Quiz, error) {
	l := logger.Get()

	if strings.TrimSpace(text) == "" {
		return nil, domain.NewNoTextProvidedError()
	}
	if !s.CredentialConfigured() {
		l.Error("Quiz generation requested without a configured credential",
			zap.String("provider", s.llmCfg.Provider))
		return nil, domain.NewServiceUnauthenticatedError()
	}

	if s.llmCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.llmCfg.Timeout)
		defer cancel()
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		l.Warn("Gave up waiting for a generation slot", zap.Error(err))
		return nil, classifyCallError(err)
	}
	defer s.sem.Release(1)

	prompt := BuildQuizPrompt(text)
	completion, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	l.Info("Generated content", zap.String("completion_head", head(completion, completionLogLimit)))

	quiz, err := ParseQuizCompletion(completion)
	if err != nil {
		l.Error("Failed to parse quiz from completion",
			zap.String("code", string(domain.CodeOf(err))),
			zap.Error(err),
			zap.String("completion_head", head(completion, completionLogLimit)))
		return nil, err
	}

	if s.quizCfg.StrictValidation {
		if err := quiz.Validate(); err != nil {
			l.Warn("Generated quiz failed validation", zap.Error(err))
			return nil, domain.NewInvalidQuizError(err)
		}
	}

	l.Info("Successfully parsed quiz data",
		zap.Int("mcq", len(quiz.MultipleChoice)),
		zap.Int("true_false", len(quiz.TrueFalse)),
		zap.Int("fill_in_blank", len(quiz.FillInBlank)))
	return quiz, nil
}

// complete sends prompt to the model, retrying transient failures up to
// llm.max_retries times.
func (s *quizService) complete(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()
	for attempt := 0; ; attempt++ {
		completion, err := llms.GenerateFromSinglePrompt(ctx, s.model, prompt,
			llms.WithTemperature(s.llmCfg.Temperature),
			llms.WithMaxTokens(s.llmCfg.MaxOutputTokens),
		)
		if err == nil {
			return completion, nil
		}

		err = classifyCallError(err)
		if attempt >= s.llmCfg.MaxRetries || !domain.IsTransient(err) {
			l.Error("Quiz generation call failed",
				zap.String("code", string(domain.CodeOf(err))),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			return "", err
		}

		backoff := s.retryBackoff << attempt
		l.Warn("Retrying quiz generation call",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return "", classifyCallError(ctx.Err())
		case <-time.After(backoff):
		}
	}
}

// classifyCallError turns any model failure into a DomainError.
func classifyCallError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewServiceTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.NewServiceTimeoutError(err)
	}
	if domain.CodeOf(err) != "" {
		return err
	}
	return domain.NewServiceCallFailedError(err)
}

func head(s string, n int) string {
	t := truncateRunes(s, n)
	if len(t) < len(s) {
		return t + "..."
	}
	return t
}
