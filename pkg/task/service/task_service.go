package service

import (
	"context"

	"kisaan/entities"
	"kisaan/pkg/session"
)

// Photo is a verification image taken when a task is done.
type Photo struct {
	Name string
	Data []byte
}

type CompleteRequest struct {
	Photo *Photo
	// Notes are accepted but not stored; there is no field for them on Task.
	Notes string
}

// TaskService moves tasks through pending, in_progress, completed and
// skipped. Both operations change *task only after the store accepted the
// write; on any error *task is left as it was.
type TaskService interface {
	SetStatus(ctx context.Context, s session.Session, task *entities.Task, status entities.TaskStatus) error
	Complete(ctx context.Context, s session.Session, task *entities.Task, req CompleteRequest) error
	// Get loads one of the session user's tasks.
	Get(ctx context.Context, s session.Session, id string) (*entities.Task, error)
}
