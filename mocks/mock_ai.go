package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTextGenerator is a mock implementation of ai.Client
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt, apiKey string) (string, error) {
	args := m.Called(ctx, prompt, apiKey)
	return args.String(0), args.Error(1)
}
