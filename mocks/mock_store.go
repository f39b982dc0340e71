package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kisaan/entities"
)

// MockStore is a mock implementation of repository.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateProblem(ctx context.Context, p *entities.FarmingProblem) (*entities.FarmingProblem, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FarmingProblem), args.Error(1)
}

func (m *MockStore) GetProblem(ctx context.Context, id string) (*entities.FarmingProblem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FarmingProblem), args.Error(1)
}

func (m *MockStore) CreatePlan(ctx context.Context, p *entities.ActionPlan) (*entities.ActionPlan, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ActionPlan), args.Error(1)
}

func (m *MockStore) GetPlan(ctx context.Context, id string) (*entities.ActionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ActionPlan), args.Error(1)
}

func (m *MockStore) ListPlans(ctx context.Context, userID string) ([]entities.ActionPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ActionPlan), args.Error(1)
}

func (m *MockStore) CreateTask(ctx context.Context, t *entities.Task) (*entities.Task, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}

func (m *MockStore) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}

func (m *MockStore) ListTasksByPlan(ctx context.Context, planID string) ([]entities.Task, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Task), args.Error(1)
}

func (m *MockStore) UpdateTask(ctx context.Context, id string, patch entities.TaskPatch) (*entities.Task, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}
