package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pdf-quiz/internal/config"
	"pdf-quiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// logBodyLimit caps how much of an upstream error message is kept.
const logBodyLimit = 512

// GeminiModel implements llms.Model on top of the genai client.
// Response fields are checked one by one, so a body of the wrong shape is
// reported as domain.ErrUnexpectedServiceShape rather than indexing into it.
type GeminiModel struct {
	client      *genai.Client
	apiKey      string
	modelName   string
	temperature float64
	logger      *zap.Logger
}

// NewGeminiModel creates a GeminiModel from cfg. An unconfigured API key is
// accepted: no client is built and calls fail with
// domain.ErrServiceUnauthenticated before any network I/O.
func NewGeminiModel(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client, logger *zap.Logger) (*GeminiModel, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("Gemini model name cannot be empty")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("Gemini base URL cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &GeminiModel{
		apiKey:      cfg.APIKey,
		modelName:   cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
	if !config.APIKeyConfigured(cfg.APIKey) {
		logger.Warn("Gemini API key not configured; generation calls will be refused")
		return m, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     strings.TrimSpace(cfg.APIKey),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: cfg.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	m.client = client

	logger.Info("Initializing Gemini model", zap.String("model", cfg.Model), zap.String("base_url", cfg.BaseURL))
	return m, nil
}

// GenerateContent implements llms.Model.
func (m *GeminiModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.client == nil || !config.APIKeyConfigured(m.apiKey) {
		return nil, domain.NewServiceUnauthenticatedError()
	}

	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	contents, genConfig, err := buildRequest(messages, opts, m.temperature)
	if err != nil {
		return nil, domain.NewInternalError("Failed to build generation request", err)
	}

	modelName := m.modelName
	if opts.Model != "" {
		modelName = opts.Model
	}

	m.logger.Info("Making request to Gemini API",
		zap.String("model", modelName),
		zap.Int("contents", len(contents)))

	resp, err := m.generate(ctx, modelName, contents, genConfig)
	if err != nil {
		return nil, m.callError(err)
	}

	text, finishReason, err := extractText(resp)
	if err != nil {
		m.logger.Error("Unexpected Gemini response structure", zap.Error(err))
		return nil, domain.NewUnexpectedServiceShapeError(err)
	}

	m.logger.Info("Received response from Gemini API", zap.String("finish_reason", finishReason))

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:    text,
			StopReason: finishReason,
		}},
	}, nil
}

// Call implements llms.Model.
func (m *GeminiModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// malformedResponseError marks a body the client could not convert.
type malformedResponseError struct {
	cause any
}

func (e *malformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.cause)
}

// generate calls the API. The client converts response bodies through
// untyped maps and panics on some shapes; that is reported as an error.
func (m *GeminiModel) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (resp *genai.GenerateContentResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, &malformedResponseError{cause: r}
		}
	}()
	return m.client.Models.GenerateContent(ctx, model, contents, cfg)
}

// callError maps a failed client call onto the domain taxonomy.
func (m *GeminiModel) callError(err error) error {
	var malformed *malformedResponseError
	if errors.As(err, &malformed) {
		m.logger.Error("Unexpected Gemini response structure", zap.Error(err))
		return domain.NewUnexpectedServiceShapeError(err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		m.logger.Error("Gemini returned non-success status",
			zap.Int("status", apiErr.Code),
			zap.String("api_status", apiErr.Status),
			zap.String("body", truncate(apiErr.Message, logBodyLimit)))
		return domain.NewServiceCallFailedError(&domain.UpstreamError{
			StatusCode: apiErr.Code,
			Body:       truncate(apiErr.Message, logBodyLimit),
		})
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		m.logger.Error("Unexpected Gemini response structure", zap.Error(err))
		return domain.NewUnexpectedServiceShapeError(fmt.Errorf("response is not a JSON object: %w", err))
	}

	m.logger.Error("Gemini request failed", zap.Error(err))
	return domain.NewServiceCallFailedError(err)
}

// buildRequest converts langchaingo messages and options. A zero temperature
// option falls back to defaultTemperature, which is always sent, zero included.
func buildRequest(messages []llms.MessageContent, opts llms.CallOptions, defaultTemperature float64) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(opts.MaxTokens),
		StopSequences:   opts.StopWords,
	}
	if opts.TopP != 0 {
		genConfig.TopP = genai.Ptr(float32(opts.TopP))
	}
	if opts.TopK != 0 {
		genConfig.TopK = genai.Ptr(float32(opts.TopK))
	}

	var contents []*genai.Content
	for _, msg := range messages {
		var parts []*genai.Part
		for _, part := range msg.Parts {
			switch p := part.(type) {
			case llms.TextContent:
				parts = append(parts, genai.NewPartFromText(p.Text))
			default:
				return nil, nil, fmt.Errorf("unsupported content part %T", part)
			}
		}
		if len(parts) == 0 {
			continue
		}

		switch msg.Role {
		case llms.ChatMessageTypeSystem:
			if genConfig.SystemInstruction == nil {
				genConfig.SystemInstruction = &genai.Content{}
			}
			genConfig.SystemInstruction.Parts = append(genConfig.SystemInstruction.Parts, parts...)
		case llms.ChatMessageTypeAI:
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})
		default:
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: parts})
		}
	}

	if len(contents) == 0 {
		return nil, nil, fmt.Errorf("no text content to send")
	}
	return contents, genConfig, nil
}

// extractText walks candidates[0].content.parts[0].text, checking each level.
func extractText(resp *genai.GenerateContentResponse) (string, string, error) {
	if resp == nil {
		return "", "", fmt.Errorf("empty response")
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", "", fmt.Errorf("no candidates, prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", "", fmt.Errorf("missing candidates")
	}
	candidate := resp.Candidates[0]
	if candidate == nil {
		return "", "", fmt.Errorf("candidates[0] is null")
	}
	finishReason := string(candidate.FinishReason)
	if candidate.Content == nil {
		return "", "", fmt.Errorf("candidates[0].content missing (finish reason %q)", finishReason)
	}
	if len(candidate.Content.Parts) == 0 {
		return "", "", fmt.Errorf("candidates[0].content.parts missing (finish reason %q)", finishReason)
	}
	part := candidate.Content.Parts[0]
	if part == nil {
		return "", "", fmt.Errorf("candidates[0].content.parts[0] is null")
	}
	if part.Text == "" {
		return "", "", fmt.Errorf("candidates[0].content.parts[0].text missing")
	}
	return part.Text, finishReason, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ llms.Model = (*GeminiModel)(nil)
