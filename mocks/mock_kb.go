package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kisaan/entities"
)

// MockKBSearcher is a mock of the knowledge-base lookups used by the plan generator
type MockKBSearcher struct {
	mock.Mock
}

func (m *MockKBSearcher) Search(ctx context.Context, query string, k int) ([]entities.KBChunk, error) {
	args := m.Called(ctx, query, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.KBChunk), args.Error(1)
}

func (m *MockKBSearcher) DocsMeta(ctx context.Context, ids []uint) (map[uint]entities.KBDocument, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]entities.KBDocument), args.Error(1)
}
