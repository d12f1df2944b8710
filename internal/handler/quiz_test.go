package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdf-quiz/internal/adapter/pdfextract"
	"pdf-quiz/internal/config"
	"pdf-quiz/internal/domain"
	"pdf-quiz/internal/dto"
	"pdf-quiz/internal/handler"
	"pdf-quiz/internal/middleware"
	"pdf-quiz/internal/service"
	"pdf-quiz/internal/testutil"
	"pdf-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// --- Manual Mocks ---

// MockQuizService
type MockQuizService struct {
	ExtractTextFunc          func(ctx context.Context, doc *domain.UploadedDocument) (*domain.ExtractionResult, error)
	GenerateQuizFunc         func(ctx context.Context, text string) (*domain.Quiz, error)
	CredentialConfiguredFunc func() bool
}

func (m *MockQuizService) ExtractText(ctx context.Context, doc *domain.UploadedDocument) (*domain.ExtractionResult, error) {
	if m.ExtractTextFunc != nil {
		return m.ExtractTextFunc(ctx, doc)
	}
	panic("MockQuizService.ExtractTextFunc not implemented")
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, text string) (*domain.Quiz, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, text)
	}
	panic("MockQuizService.GenerateQuizFunc not implemented")
}

func (m *MockQuizService) CredentialConfigured() bool {
	if m.CredentialConfiguredFunc != nil {
		return m.CredentialConfiguredFunc()
	}
	panic("MockQuizService.CredentialConfiguredFunc not implemented")
}

// stubModel answers every prompt with a fixed completion and counts calls.
type stubModel struct {
	completion string
	calls      int
}

func (m *stubModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.completion}}}, nil
}

func (m *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func newTestApp(svc service.QuizService, limiter service.RateLimiter) *fiber.App {
	validator := validation.NewValidator(1 << 20)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app.Group("/api"), handler.NewQuizHandler(svc, validator),
		middleware.NewValidationMiddleware(validator), limiter)
	return app
}

func uploadRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	body, ct, err := testutil.MultipartFile(middleware.UploadFormField, "notes.pdf", contentType, data)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	return req
}

func generateRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/generate-quiz", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func sampleQuiz() *domain.Quiz {
	q := &domain.Quiz{
		MultipleChoice: []domain.MultipleChoiceQuestion{
			{Question: "What color is the sky?", Options: []string{"Blue", "Green", "Red", "Yellow"}, CorrectAnswer: "Blue"},
		},
		TrueFalse: []domain.TrueFalseQuestion{{Question: "The sky is blue.", CorrectAnswer: true}},
	}
	q.Normalize()
	return q
}

func TestQuizHandler_UploadPDF(t *testing.T) {
	pdfData := testutil.MinimalPDF("The sky is blue.")

	t.Run("Success", func(t *testing.T) {
		var gotDoc *domain.UploadedDocument
		svc := &MockQuizService{
			ExtractTextFunc: func(ctx context.Context, doc *domain.UploadedDocument) (*domain.ExtractionResult, error) {
				gotDoc = doc
				return &domain.ExtractionResult{Text: "The sky is blue.", PageCount: 1, WordCount: 4}, nil
			},
		}

		resp, err := newTestApp(svc, service.NewRateLimiter(nil, 0)).Test(uploadRequest(t, "application/pdf", pdfData))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		out := decode[dto.UploadResponse](t, resp)
		assert.Equal(t, "PDF uploaded and text extracted successfully", out.Message)
		assert.Equal(t, "notes.pdf", out.Filename)
		assert.Equal(t, "The sky is blue.", out.ExtractedText)
		assert.Equal(t, 1, out.PageCount)
		assert.Equal(t, 4, out.WordCount)
		_, err = ulid.ParseStrict(out.UploadID)
		assert.NoError(t, err, out.UploadID)

		require.NotNil(t, gotDoc)
		assert.Equal(t, pdfData, gotDoc.Data)
		assert.Equal(t, "application/pdf", gotDoc.ContentType)
	})

	t.Run("Wrong media type never reaches the service", func(t *testing.T) {
		svc := &MockQuizService{}
		resp, err := newTestApp(svc, service.NewRateLimiter(nil, 0)).Test(uploadRequest(t, "text/plain", []byte("hello")))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		out := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, string(domain.ErrInvalidMediaType), out.Code)
		assert.Equal(t, "Only PDF files are allowed", out.Error)
	})

	t.Run("Missing file", func(t *testing.T) {
		svc := &MockQuizService{}
		req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
		resp, err := newTestApp(svc, service.NewRateLimiter(nil, 0)).Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		out := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, string(domain.ErrNoFileProvided), out.Code)
	})

	t.Run("Unreadable PDF", func(t *testing.T) {
		svc := &MockQuizService{
			ExtractTextFunc: func(ctx context.Context, doc *domain.UploadedDocument) (*domain.ExtractionResult, error) {
				return nil, domain.NewUnreadablePDFError(errors.New("malformed xref"))
			},
		}
		resp, err := newTestApp(svc, service.NewRateLimiter(nil, 0)).Test(uploadRequest(t, "application/pdf", testutil.CorruptPDF()))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		out := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, "Error processing PDF", out.Error)
		assert.NotContains(t, out.Error, "xref")
	})
}

func TestQuizHandler_GenerateQuiz(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFunc: func(ctx context.Context, text string) (*domain.Quiz, error) {
				assert.Equal(t, "The sky is blue.", text)
				return sampleQuiz(), nil
			},
		}
		resp, err := newTestApp(svc, service.NewRateLimiter(nil, 0)).Test(generateRequest(`{"text":"The sky is blue."}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw := decode[map[string]json.RawMessage](t, resp)
		assert.Contains(t, raw, "mcq")
		assert.Contains(t, raw, "trueFalse")
		assert.JSONEq(t, `[]`, string(raw["fillInTheBlank"]))
		assert.JSONEq(t, `[{"question":"The sky is blue.","correctAnswer":true}]`, string(raw["trueFalse"]))
	})

	t.Run("Empty text", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"text":""}`, `{"text":"   "}`} {
			svc := &MockQuizService{}
			resp, err := newTestApp(svc, service.NewRateLimiter(nil, 0)).Test(generateRequest(body))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)

			out := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, string(domain.ErrNoTextProvided), out.Code)
			assert.Equal(t, "No text provided", out.Error)
		}
	})

	t.Run("Invalid body", func(t *testing.T) {
		resp, err := newTestApp(&MockQuizService{}, service.NewRateLimiter(nil, 0)).Test(generateRequest(`{"text":`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, string(domain.ErrInvalidInput), decode[dto.ErrorResponse](t, resp).Code)
	})

	t.Run("Service errors map to statuses", func(t *testing.T) {
		tests := []struct {
			err    error
			status int
		}{
			{domain.NewServiceUnauthenticatedError(), http.StatusInternalServerError},
			{domain.NewServiceCallFailedError(errors.New("503")), http.StatusBadGateway},
			{domain.NewUnexpectedServiceShapeError(nil), http.StatusBadGateway},
			{domain.NewNoJSONFoundError(nil), http.StatusBadGateway},
			{domain.NewMalformedJSONError(nil), http.StatusBadGateway},
			{domain.NewServiceTimeoutError(nil), http.StatusGatewayTimeout},
		}
		for _, tt := range tests {
			svc := &MockQuizService{
				GenerateQuizFunc: func(ctx context.Context, text string) (*domain.Quiz, error) { return nil, tt.err },
			}
			resp, err := newTestApp(svc, service.NewRateLimiter(nil, 0)).Test(generateRequest(`{"text":"abc"}`))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, string(domain.CodeOf(tt.err)), decode[dto.ErrorResponse](t, resp).Code)
		}
	})
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) service.RateLimitResult {
	return service.RateLimitResult{Allowed: false, Limit: 1}
}

func TestQuizHandler_GenerateQuiz_RateLimited(t *testing.T) {
	svc := &MockQuizService{}
	resp, err := newTestApp(svc, denyAll{}).Test(generateRequest(`{"text":"abc"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, string(domain.ErrRateLimited), decode[dto.ErrorResponse](t, resp).Code)
}

func TestQuizHandler_CheckAPIKey(t *testing.T) {
	for _, configured := range []bool{true, false} {
		svc := &MockQuizService{CredentialConfiguredFunc: func() bool { return configured }}
		req := httptest.NewRequest(http.MethodGet, "/api/check-api-key", nil)
		resp, err := newTestApp(svc, service.NewRateLimiter(nil, 0)).Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, configured, decode[dto.CredentialStatusResponse](t, resp).Configured)
	}
}

func TestQuizHandler_EndToEnd(t *testing.T) {
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	extractor, err := pdfextract.New(uploadDir)
	require.NoError(t, err)

	completion, err := json.Marshal(map[string]any{
		"mcq": []map[string]any{
			{"question": "What color is the sky?", "options": []string{"Blue", "Green", "Red", "Yellow"}, "correctAnswer": "Blue"},
		},
		"trueFalse":      []map[string]any{{"question": "The sky is blue.", "correctAnswer": true}},
		"fillInTheBlank": []map[string]any{{"question": "The sky is _____.", "correctAnswer": "blue"}},
	})
	require.NoError(t, err)
	model := &stubModel{completion: "Here is the quiz:\n" + string(completion)}

	llmCfg := config.LLMConfig{Provider: config.ProviderGemini, APIKey: "key", Model: "m", MaxOutputTokens: 2048, MaxConcurrent: 1}
	svc := service.NewQuizService(extractor, model, llmCfg, config.QuizConfig{})
	app := newTestApp(svc, service.NewRateLimiter(nil, 0))

	resp, err := app.Test(uploadRequest(t, "application/pdf", testutil.MinimalPDF("The sky is blue.")))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	upload := decode[dto.UploadResponse](t, resp)
	assert.Contains(t, upload.ExtractedText, "The sky is blue.")

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	body, err := json.Marshal(dto.GenerateQuizRequest{Text: upload.ExtractedText})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/generate-quiz", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	quiz := decode[dto.QuizResponse](t, resp)
	require.Len(t, quiz.MultipleChoice, 1)
	assert.Equal(t, "Blue", quiz.MultipleChoice[0].CorrectAnswer)
	require.Len(t, quiz.TrueFalse, 1)
	assert.True(t, quiz.TrueFalse[0].CorrectAnswer)
	require.Len(t, quiz.FillInBlank, 1)
	assert.Equal(t, 1, model.calls)
}

func TestQuizHandler_EndToEnd_UnconfiguredKey(t *testing.T) {
	extractor, err := pdfextract.New(t.TempDir())
	require.NoError(t, err)
	model := &stubModel{completion: "{}"}

	llmCfg := config.LLMConfig{Provider: config.ProviderGemini, APIKey: config.PlaceholderAPIKey, MaxConcurrent: 1}
	app := newTestApp(service.NewQuizService(extractor, model, llmCfg, config.QuizConfig{}), service.NewRateLimiter(nil, 0))

	resp, err := app.Test(generateRequest(`{"text":"The sky is blue."}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, string(domain.ErrServiceUnauthenticated), decode[dto.ErrorResponse](t, resp).Code)
	assert.Zero(t, model.calls)

	req := httptest.NewRequest(http.MethodGet, "/api/check-api-key", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.False(t, decode[dto.CredentialStatusResponse](t, resp).Configured)
}
