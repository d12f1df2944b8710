package service

import (
	"context"
	"time"

	"pdf-quiz/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/tmc/langchaingo/llms"
)

// --- MockModel ---
type MockModel struct {
	mock.Mock
}

// GenerateContent records the prompt text of the last human message.
func (m *MockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	var prompt string
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				prompt = tc.Text
			}
		}
	}
	args := m.Called(ctx, prompt, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: args.String(0)}},
	}, args.Error(1)
}

func (m *MockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// --- MockExtractor ---
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, doc *domain.UploadedDocument) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	args := m.Called(ctx, key, expiration)
	return args.Error(0)
}

var (
	_ llms.Model           = (*MockModel)(nil)
	_ domain.TextExtractor = (*MockExtractor)(nil)
	_ domain.Cache         = (*MockCache)(nil)
)
