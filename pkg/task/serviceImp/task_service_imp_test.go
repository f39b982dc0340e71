package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kisaan/entities"
	"kisaan/mocks"
	"kisaan/pkg/apperr"
	"kisaan/pkg/session"
	"kisaan/pkg/task/service"
)

var fixedNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func pendingTask() *entities.Task {
	return &entities.Task{
		ID:                "t1",
		PlanID:            "plan-1",
		UserID:            "farmer-1",
		Title:             "Apply iron supplement",
		ScheduledDate:     fixedNow.AddDate(0, 0, 1),
		Status:            entities.TaskPending,
		Priority:          entities.PriorityMedium,
		EstimatedDuration: 60,
		Cost:              10,
	}
}

func newSvc(store *mocks.MockStore, up *mocks.MockUploader) *TaskSvc {
	return NewTaskService(store, up).WithClock(func() time.Time { return fixedNow })
}

var farmer = session.New("farmer-1")

func TestSetStatus_UpdatesTaskOnSuccess(t *testing.T) {
	store := new(mocks.MockStore)
	task := pendingTask()
	stored := *task
	stored.Status = entities.TaskInProgress
	store.On("UpdateTask", mock.Anything, "t1", entities.StatusPatch(entities.TaskInProgress)).Return(&stored, nil)

	err := newSvc(store, nil).SetStatus(context.Background(), farmer, task, entities.TaskInProgress)

	require.NoError(t, err)
	assert.Equal(t, entities.TaskInProgress, task.Status)
	store.AssertExpectations(t)
}

func TestSetStatus_StoreFailureLeavesTaskUnchanged(t *testing.T) {
	store := new(mocks.MockStore)
	store.On("UpdateTask", mock.Anything, "t1", mock.Anything).
		Return(nil, fmt.Errorf("%w: connection refused", apperr.ErrStoreUnavailable))
	task := pendingTask()
	before := *task

	err := newSvc(store, nil).SetStatus(context.Background(), farmer, task, entities.TaskSkipped)

	assert.ErrorIs(t, err, apperr.ErrUpdateFailed)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.Equal(t, before, *task)
}

func TestSetStatus_CompletedIsNotAPlainStatus(t *testing.T) {
	store := new(mocks.MockStore)
	task := pendingTask()

	err := newSvc(store, nil).SetStatus(context.Background(), farmer, task, entities.TaskCompleted)

	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, entities.TaskPending, task.Status)
	store.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetStatus_LeavingCompletedClearsCompletion(t *testing.T) {
	store := new(mocks.MockStore)
	task := pendingTask()
	at := fixedNow
	img := "/uploads/verifications/1-a.jpg"
	task.Status, task.CompletedAt, task.VerificationImage = entities.TaskCompleted, &at, &img

	reopened := *pendingTask()
	store.On("UpdateTask", mock.Anything, "t1", mock.MatchedBy(func(p entities.TaskPatch) bool {
		return p.ClearCompletion && p.Status != nil && *p.Status == entities.TaskPending
	})).Return(&reopened, nil)

	err := newSvc(store, nil).SetStatus(context.Background(), farmer, task, entities.TaskPending)

	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)
	assert.Nil(t, task.VerificationImage)
	assert.True(t, task.CheckInvariants())
}

func TestSetStatus_Guards(t *testing.T) {
	store := new(mocks.MockStore)
	svc := newSvc(store, nil)

	err := svc.SetStatus(context.Background(), session.Session{}, pendingTask(), entities.TaskSkipped)
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)

	err = svc.SetStatus(context.Background(), session.New("farmer-2"), pendingTask(), entities.TaskSkipped)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = svc.SetStatus(context.Background(), farmer, pendingTask(), entities.TaskStatus("done"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	store.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetStatus_RejectsConcurrentTransition(t *testing.T) {
	store := new(mocks.MockStore)
	entered := make(chan struct{})
	unblock := make(chan struct{})
	stored := *pendingTask()
	stored.Status = entities.TaskInProgress
	store.On("UpdateTask", mock.Anything, "t1", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-unblock
		}).
		Return(&stored, nil).Once()
	svc := newSvc(store, nil)

	first := make(chan error, 1)
	go func() {
		first <- svc.SetStatus(context.Background(), farmer, pendingTask(), entities.TaskInProgress)
	}()
	<-entered

	err := svc.SetStatus(context.Background(), farmer, pendingTask(), entities.TaskSkipped)
	assert.ErrorIs(t, err, apperr.ErrTransitionInFlight)

	close(unblock)
	require.NoError(t, <-first)
	store.AssertNumberOfCalls(t, "UpdateTask", 1)
}

func TestComplete_WithPhoto(t *testing.T) {
	store := new(mocks.MockStore)
	up := new(mocks.MockUploader)
	url := "/uploads/verifications/1710063000000-leaf.jpg"
	up.On("UploadFile", mock.Anything, []byte("jpeg"), "verifications/1710063000000-leaf.jpg").Return(url, nil)

	task := pendingTask()
	done := *task
	done.Status, done.CompletedAt, done.VerificationImage = entities.TaskCompleted, &fixedNow, &url
	store.On("UpdateTask", mock.Anything, "t1", entities.CompletionPatch(fixedNow, &url)).Return(&done, nil)

	err := newSvc(store, up).Complete(context.Background(), farmer, task, service.CompleteRequest{
		Photo: &service.Photo{Name: "leaf.jpg", Data: []byte("jpeg")},
		Notes: "applied 2kg",
	})

	require.NoError(t, err)
	assert.Equal(t, entities.TaskCompleted, task.Status)
	require.NotNil(t, task.VerificationImage)
	assert.Equal(t, url, *task.VerificationImage)
	assert.True(t, task.CheckInvariants())
	up.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestComplete_WithoutPhoto(t *testing.T) {
	store := new(mocks.MockStore)
	up := new(mocks.MockUploader)
	task := pendingTask()
	done := *task
	done.Status, done.CompletedAt = entities.TaskCompleted, &fixedNow
	store.On("UpdateTask", mock.Anything, "t1", mock.MatchedBy(func(p entities.TaskPatch) bool {
		return p.VerificationImage == nil && p.CompletedAt != nil && p.CompletedAt.Equal(fixedNow)
	})).Return(&done, nil)

	err := newSvc(store, up).Complete(context.Background(), farmer, task, service.CompleteRequest{})

	require.NoError(t, err)
	assert.Equal(t, entities.TaskCompleted, task.Status)
	assert.Nil(t, task.VerificationImage)
	up.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestComplete_UploadFailureTouchesNothing(t *testing.T) {
	store := new(mocks.MockStore)
	up := new(mocks.MockUploader)
	up.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).Return("", fmt.Errorf("%w: bucket gone", apperr.ErrUploadFailed))
	task := pendingTask()
	before := *task

	err := newSvc(store, up).Complete(context.Background(), farmer, task, service.CompleteRequest{
		Photo: &service.Photo{Name: "leaf.jpg", Data: []byte("jpeg")},
	})

	assert.ErrorIs(t, err, apperr.ErrVerificationUploadFailed)
	assert.Equal(t, before, *task)
	assert.Equal(t, entities.TaskPending, task.Status)
	assert.Nil(t, task.VerificationImage)
	store.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestComplete_StoreFailure(t *testing.T) {
	store := new(mocks.MockStore)
	store.On("UpdateTask", mock.Anything, "t1", mock.Anything).Return(nil, fmt.Errorf("%w: task t1", apperr.ErrNotFound))
	task := pendingTask()
	before := *task

	err := newSvc(store, new(mocks.MockUploader)).Complete(context.Background(), farmer, task, service.CompleteRequest{})

	assert.ErrorIs(t, err, apperr.ErrUpdateFailed)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, before, *task)
}

func TestGet(t *testing.T) {
	store := new(mocks.MockStore)
	store.On("GetTask", mock.Anything, "t1").Return(pendingTask(), nil)
	store.On("GetTask", mock.Anything, "nope").Return(nil, errors.New("boom"))
	svc := newSvc(store, nil)

	got, err := svc.Get(context.Background(), farmer, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)

	_, err = svc.Get(context.Background(), session.New("intruder"), "t1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Get(context.Background(), farmer, "nope")
	assert.True(t, strings.Contains(err.Error(), "boom"))
}
