package repository

import (
	"context"

	"kisaan/entities"
)

// Store is the document store the planning core writes through.
//
// Failures are classified with apperr: ErrStoreUnavailable when the store
// cannot be reached, ErrStoreRejected when it refuses the document and
// ErrNotFound for an unknown id.
type Store interface {
	CreateProblem(ctx context.Context, p *entities.FarmingProblem) (*entities.FarmingProblem, error)
	GetProblem(ctx context.Context, id string) (*entities.FarmingProblem, error)

	CreatePlan(ctx context.Context, p *entities.ActionPlan) (*entities.ActionPlan, error)
	GetPlan(ctx context.Context, id string) (*entities.ActionPlan, error)
	ListPlans(ctx context.Context, userID string) ([]entities.ActionPlan, error)

	CreateTask(ctx context.Context, t *entities.Task) (*entities.Task, error)
	GetTask(ctx context.Context, id string) (*entities.Task, error)
	ListTasksByPlan(ctx context.Context, planID string) ([]entities.Task, error)
	UpdateTask(ctx context.Context, id string, patch entities.TaskPatch) (*entities.Task, error)
}
