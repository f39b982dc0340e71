package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kisaan/database"
	"kisaan/entities"
	"kisaan/pkg/ai"
	authCtrlImp "kisaan/pkg/auth/controllerImp"
	"kisaan/pkg/export"
	healthCtrlImp "kisaan/pkg/health/controllerImp"
	kbCtrlImp "kisaan/pkg/kb/controllerImp"
	kbRepoImp "kisaan/pkg/kb/repositoryImp"
	kbServiceImp "kisaan/pkg/kb/serviceImp"
	"kisaan/pkg/middleware"
	planCtrlImp "kisaan/pkg/plan/controllerImp"
	planSvcImp "kisaan/pkg/plan/serviceImp"
	problemCtrlImp "kisaan/pkg/problem/controllerImp"
	problemSvcImp "kisaan/pkg/problem/serviceImp"
	storeCtrlImp "kisaan/pkg/store/controllerImp"
	"kisaan/pkg/store/repositoryImp"
	taskCtrlImp "kisaan/pkg/task/controllerImp"
	taskSvcImp "kisaan/pkg/task/serviceImp"
	"kisaan/pkg/upload"
)

func newTestServer(t *testing.T, enableAuth bool) *echo.Echo {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	store := repositoryImp.New(db)
	up := upload.NewDisk(t.TempDir(), "/uploads")
	kb := kbServiceImp.New(kbRepoImp.New(db), nil, kbServiceImp.Config{})
	problems := problemSvcImp.NewProblemService(store, up)
	plans := planSvcImp.NewPlanService(ai.NewMock(), store, planSvcImp.WithKB(kb))

	return New(echo.New(), Handlers{
		Store:   storeCtrlImp.New(store),
		Problem: problemCtrlImp.New(problems),
		Plan:    planCtrlImp.NewPlanCtrl(plans, problems, ""),
		Task:    taskCtrlImp.New(taskSvcImp.NewTaskService(store, up)),
		Auth:    authCtrlImp.NewAuthController(),
		KB:      kbCtrlImp.New(kb),
		Health:  healthCtrlImp.NewHealthCtrl(healthCtrlImp.DBCheck(db)),
	}, enableAuth)
}

func do(t *testing.T, e *echo.Echo, method, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if uid != "" {
		req.Header.Set(middleware.UIDHeader, uid)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestWorkflow_SubmitGenerateTrackComplete(t *testing.T) {
	e := newTestServer(t, true)
	const farmer = "farmer-1"

	rec := do(t, e, http.MethodPost, "/problems", farmer, map[string]string{
		"description": "leaves yellowing", "cropType": "Wheat", "urgency": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	problem := decode[entities.FarmingProblem](t, rec)
	assert.Equal(t, farmer, problem.UserID)

	rec = do(t, e, http.MethodPost, "/problems/"+problem.ID+"/plan", farmer, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[struct {
		Plan  entities.ActionPlan `json:"plan"`
		Tasks []entities.Task     `json:"tasks"`
	}](t, rec)
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, "Recovery plan for Wheat", res.Plan.Title)
	taskID := res.Tasks[0].ID

	rec = do(t, e, http.MethodPatch, "/tasks/"+taskID+"/status", farmer, map[string]string{"status": "in_progress"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, entities.TaskInProgress, decode[entities.Task](t, rec).Status)

	rec = do(t, e, http.MethodPatch, "/tasks/"+taskID+"/status", farmer, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/tasks/"+taskID+"/complete", farmer, map[string]string{"notes": "done early"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	done := decode[entities.Task](t, rec)
	assert.Equal(t, entities.TaskCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	rec = do(t, e, http.MethodGet, "/plans/"+res.Plan.ID, farmer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[struct {
		Progress struct {
			Completed int     `json:"completed"`
			Total     int     `json:"total"`
			Percent   float64 `json:"percent"`
		} `json:"progress"`
	}](t, rec)
	assert.Equal(t, 1, view.Progress.Completed)
	assert.Equal(t, 2, view.Progress.Total)
	assert.InDelta(t, 50.0, view.Progress.Percent, 1e-9)

	rec = do(t, e, http.MethodGet, "/plans/"+res.Plan.ID+"/export.xlsx", farmer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "plan-"+res.Plan.ID+".xlsx")

	// another user cannot see the plan
	rec = do(t, e, http.MethodGet, "/plans/"+res.Plan.ID, "farmer-2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	e := newTestServer(t, true)

	rec := do(t, e, http.MethodGet, "/plans", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_authenticated")

	rec = do(t, e, http.MethodGet, "/auth/dev-login", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "dev login is not mounted when auth is enforced")

	rec = do(t, e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDevUserFallback(t *testing.T) {
	e := newTestServer(t, false)

	rec := do(t, e, http.MethodGet, "/whoami", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), middleware.DevUserID)

	rec = do(t, e, http.MethodGet, "/auth/dev-login?uid=farmer-9", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Header().Get("Set-Cookie"), middleware.UIDCookie+"=farmer-9"))
}

func TestStoreAPIAndMetricsMounted(t *testing.T) {
	e := newTestServer(t, true)

	rec := do(t, e, http.MethodGet, "/api/tasks/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kisaan_http_requests_total")
}

func TestKBRoutes(t *testing.T) {
	e := newTestServer(t, false)

	rec := do(t, e, http.MethodPost, "/kb/ingest", "", map[string]string{
		"title": "Rust guide", "text": "Yellow rust needs fungicide in cool weather.\n",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/kb/search?q=rust", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hits := decode[[]map[string]any](t, rec)
	require.Len(t, hits, 1)
	assert.Equal(t, "Rust guide", hits[0]["docTitle"])

	rec = do(t, e, http.MethodGet, "/kb/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
