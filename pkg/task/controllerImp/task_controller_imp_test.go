package controllerImp

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kisaan/entities"
	"kisaan/mocks"
	"kisaan/pkg/middleware"
	"kisaan/pkg/task/serviceImp"
)

func setup(t *testing.T) (*echo.Echo, *mocks.MockStore, *mocks.MockUploader) {
	t.Helper()
	store := new(mocks.MockStore)
	up := new(mocks.MockUploader)
	ctrl := New(serviceImp.NewTaskService(store, up))

	e := echo.New()
	e.Use(middleware.Identity(true))
	e.GET("/tasks/:id", ctrl.Get)
	e.PATCH("/tasks/:id/status", ctrl.SetStatus)
	e.POST("/tasks/:id/complete", ctrl.Complete)
	return e, store, up
}

func ownedTask() *entities.Task {
	return &entities.Task{ID: "t1", PlanID: "p1", UserID: "farmer-1", Status: entities.TaskPending,
		Priority: entities.PriorityLow, EstimatedDuration: 30, ScheduledDate: time.Now()}
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set(middleware.UIDHeader, "farmer-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSetStatus_OK(t *testing.T) {
	e, store, _ := setup(t)
	store.On("GetTask", mock.Anything, "t1").Return(ownedTask(), nil)
	updated := ownedTask()
	updated.Status = entities.TaskSkipped
	store.On("UpdateTask", mock.Anything, "t1", entities.StatusPatch(entities.TaskSkipped)).Return(updated, nil)

	req := httptest.NewRequest(http.MethodPatch, "/tasks/t1/status", strings.NewReader(`{"status":"skipped"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := do(e, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got entities.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, entities.TaskSkipped, got.Status)
}

func TestSetStatus_Rejections(t *testing.T) {
	e, store, _ := setup(t)
	store.On("GetTask", mock.Anything, "t1").Return(ownedTask(), nil)

	cases := []struct {
		body string
		code int
		kind string
	}{
		{`{"status":"done"}`, http.StatusBadRequest, "invalid_input"},
		{`{}`, http.StatusBadRequest, "invalid_input"},
		{`{"status":"completed"}`, http.StatusBadRequest, "invalid_transition"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPatch, "/tasks/t1/status", strings.NewReader(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := do(e, req)
		assert.Equal(t, tc.code, rec.Code, tc.body)
		assert.Contains(t, rec.Body.String(), tc.kind, tc.body)
	}
	store.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestComplete_Multipart(t *testing.T) {
	e, store, up := setup(t)
	store.On("GetTask", mock.Anything, "t1").Return(ownedTask(), nil)
	up.On("UploadFile", mock.Anything, []byte("jpeg-bytes"), mock.MatchedBy(func(d string) bool {
		return strings.HasPrefix(d, "verifications/") && strings.HasSuffix(d, "-leaf.jpg")
	})).Return("/uploads/verifications/x-leaf.jpg", nil)
	now := time.Now()
	img := "/uploads/verifications/x-leaf.jpg"
	done := ownedTask()
	done.Status, done.CompletedAt, done.VerificationImage = entities.TaskCompleted, &now, &img
	store.On("UpdateTask", mock.Anything, "t1", mock.Anything).Return(done, nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("notes", "sprayed"))
	fw, err := w.CreateFormFile("photo", "leaf.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("jpeg-bytes"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/tasks/t1/complete", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := do(e, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"verificationImage":"/uploads/verifications/x-leaf.jpg"`)
	up.AssertExpectations(t)
}

func TestComplete_UploadFailure(t *testing.T) {
	e, store, up := setup(t)
	store.On("GetTask", mock.Anything, "t1").Return(ownedTask(), nil)
	up.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).Return("", context.DeadlineExceeded)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, _ := w.CreateFormFile("photo", "leaf.jpg")
	_, _ = fw.Write([]byte("x"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/tasks/t1/complete", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := do(e, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "verification_upload_failed")
	store.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestGet_UnknownTask(t *testing.T) {
	e, store, _ := setup(t)
	other := ownedTask()
	other.UserID = "farmer-9"
	store.On("GetTask", mock.Anything, "t1").Return(other, nil)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/tasks/t1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
