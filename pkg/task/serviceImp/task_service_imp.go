package serviceImp

import (
	"context"
	"fmt"
	"time"

	"kisaan/entities"
	"kisaan/pkg/apperr"
	"kisaan/pkg/concurrency"
	"kisaan/pkg/logger"
	"kisaan/pkg/metrics"
	"kisaan/pkg/session"
	"kisaan/pkg/store/repository"
	"kisaan/pkg/task/service"
	"kisaan/pkg/upload"
)

const verificationPrefix = "verifications"

type TaskSvc struct {
	store    repository.Store
	uploader upload.Uploader
	locks    *concurrency.LockManager
	now      func() time.Time
}

func NewTaskService(store repository.Store, uploader upload.Uploader) *TaskSvc {
	return &TaskSvc{store: store, uploader: uploader, locks: concurrency.NewLockManager(), now: time.Now}
}

// WithClock replaces the clock used for completedAt and upload names.
func (s *TaskSvc) WithClock(now func() time.Time) *TaskSvc {
	s.now = now
	return s
}

var _ service.TaskService = (*TaskSvc)(nil)

func (s *TaskSvc) SetStatus(ctx context.Context, sess session.Session, task *entities.Task, status entities.TaskStatus) error {
	err := s.setStatus(ctx, sess, task, status)
	metrics.ObserveTransition(string(status), err)
	return err
}

func (s *TaskSvc) setStatus(ctx context.Context, sess session.Session, task *entities.Task, status entities.TaskStatus) error {
	if err := s.guard(sess, task); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, status)
	}
	if status == entities.TaskCompleted {
		return fmt.Errorf("%w: use complete to finish a task", apperr.ErrInvalidTransition)
	}

	release, ok := s.locks.TryAcquire(task.ID)
	if !ok {
		return fmt.Errorf("%w: task %s", apperr.ErrTransitionInFlight, task.ID)
	}
	defer release()

	updated, err := s.store.UpdateTask(ctx, task.ID, entities.StatusPatch(status))
	if err != nil {
		logger.FromContext(ctx).Warn("task status update failed", "task_id", task.ID, "status", status, "error", err)
		return fmt.Errorf("%w: %w", apperr.ErrUpdateFailed, err)
	}
	*task = *updated
	logger.FromContext(ctx).Info("task status changed", "task_id", task.ID, "status", status)
	return nil
}

func (s *TaskSvc) Complete(ctx context.Context, sess session.Session, task *entities.Task, req service.CompleteRequest) error {
	err := s.complete(ctx, sess, task, req)
	metrics.ObserveTransition(string(entities.TaskCompleted), err)
	return err
}

func (s *TaskSvc) complete(ctx context.Context, sess session.Session, task *entities.Task, req service.CompleteRequest) error {
	if err := s.guard(sess, task); err != nil {
		return err
	}
	release, ok := s.locks.TryAcquire(task.ID)
	if !ok {
		return fmt.Errorf("%w: task %s", apperr.ErrTransitionInFlight, task.ID)
	}
	defer release()

	log := logger.FromContext(ctx).With("task_id", task.ID)
	now := s.now()

	var image *string
	if req.Photo != nil && len(req.Photo.Data) > 0 {
		url, err := s.uploader.UploadFile(ctx, req.Photo.Data, upload.Path(verificationPrefix, now, req.Photo.Name))
		if err != nil {
			log.Warn("verification upload failed", "error", err)
			return fmt.Errorf("%w: %v", apperr.ErrVerificationUploadFailed, err)
		}
		image = &url
	}

	updated, err := s.store.UpdateTask(ctx, task.ID, entities.CompletionPatch(now, image))
	if err != nil {
		log.Warn("task completion failed", "error", err)
		return fmt.Errorf("%w: %w", apperr.ErrUpdateFailed, err)
	}
	*task = *updated
	if req.Notes != "" {
		log.Info("completion notes received", "notes", req.Notes)
	}
	log.Info("task completed", "verified", image != nil)
	return nil
}

func (s *TaskSvc) guard(sess session.Session, task *entities.Task) error {
	if err := sess.Require(); err != nil {
		return err
	}
	if task == nil || task.ID == "" {
		return fmt.Errorf("%w: task is required", apperr.ErrInvalidInput)
	}
	if task.UserID != sess.UserID {
		return fmt.Errorf("%w: task %s", apperr.ErrNotFound, task.ID)
	}
	return nil
}

func (s *TaskSvc) Get(ctx context.Context, sess session.Session, id string) (*entities.Task, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != sess.UserID {
		return nil, fmt.Errorf("%w: task %s", apperr.ErrNotFound, id)
	}
	return t, nil
}
