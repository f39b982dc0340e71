package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"kisaan/entities"
	"kisaan/pkg/apperr"
	"kisaan/pkg/store/repository"
)

type sqliteStore struct{ db *gorm.DB }

func New(db *gorm.DB) repository.Store { return &sqliteStore{db: db} }

func (r *sqliteStore) CreateProblem(ctx context.Context, p *entities.FarmingProblem) (*entities.FarmingProblem, error) {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, classify("create problem", err)
	}
	return p, nil
}

func (r *sqliteStore) GetProblem(ctx context.Context, id string) (*entities.FarmingProblem, error) {
	var p entities.FarmingProblem
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, classify("get problem "+id, err)
	}
	return &p, nil
}

func (r *sqliteStore) CreatePlan(ctx context.Context, p *entities.ActionPlan) (*entities.ActionPlan, error) {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, classify("create plan", err)
	}
	return p, nil
}

func (r *sqliteStore) GetPlan(ctx context.Context, id string) (*entities.ActionPlan, error) {
	var p entities.ActionPlan
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, classify("get plan "+id, err)
	}
	return &p, nil
}

func (r *sqliteStore) ListPlans(ctx context.Context, userID string) ([]entities.ActionPlan, error) {
	q := r.db.WithContext(ctx).Model(&entities.ActionPlan{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []entities.ActionPlan
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, classify("list plans", err)
	}
	return out, nil
}

func (r *sqliteStore) CreateTask(ctx context.Context, t *entities.Task) (*entities.Task, error) {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, classify("create task", err)
	}
	return t, nil
}

func (r *sqliteStore) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	var t entities.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, classify("get task "+id, err)
	}
	return &t, nil
}

func (r *sqliteStore) ListTasksByPlan(ctx context.Context, planID string) ([]entities.Task, error) {
	var out []entities.Task
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("scheduled_date ASC, created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, classify("list tasks", err)
	}
	return out, nil
}

// UpdateTask merges patch into the stored task and rejects results that
// break the completion invariants.
func (r *sqliteStore) UpdateTask(ctx context.Context, id string, patch entities.TaskPatch) (*entities.Task, error) {
	var t entities.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			return err
		}
		patch.Apply(&t)
		if !t.CheckInvariants() {
			return fmt.Errorf("%w: completion fields do not match status %q", apperr.ErrStoreRejected, t.Status)
		}
		return tx.Save(&t).Error
	})
	if err != nil {
		return nil, classify("update task "+id, err)
	}
	return &t, nil
}

func classify(op string, err error) error {
	switch {
	case errors.Is(err, apperr.ErrStoreRejected):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, op)
	case isConstraint(err):
		return fmt.Errorf("%w: %s: %v", apperr.ErrStoreRejected, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", apperr.ErrStoreUnavailable, op, err)
	}
}

func isConstraint(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint failed") || strings.Contains(msg, "not null constraint")
}
