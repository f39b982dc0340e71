// Package remote implements the store contract against the REST document
// store served by pkg/store/controllerImp (or any server with the same
// /api/problems, /api/actionPlans and /api/tasks collections).
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kisaan/entities"
	"kisaan/pkg/apperr"
	"kisaan/pkg/store/repository"
)

type client struct {
	base string
	http *http.Client
}

// New returns a store client for baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, timeout time.Duration) repository.Store {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *client) CreateProblem(ctx context.Context, p *entities.FarmingProblem) (*entities.FarmingProblem, error) {
	var out entities.FarmingProblem
	if err := c.do(ctx, http.MethodPost, "/problems", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GetProblem(ctx context.Context, id string) (*entities.FarmingProblem, error) {
	var out entities.FarmingProblem
	if err := c.do(ctx, http.MethodGet, "/problems/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) CreatePlan(ctx context.Context, p *entities.ActionPlan) (*entities.ActionPlan, error) {
	body := *p
	body.Tasks = nil
	var out entities.ActionPlan
	if err := c.do(ctx, http.MethodPost, "/actionPlans", &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GetPlan(ctx context.Context, id string) (*entities.ActionPlan, error) {
	var out entities.ActionPlan
	if err := c.do(ctx, http.MethodGet, "/actionPlans/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) ListPlans(ctx context.Context, userID string) ([]entities.ActionPlan, error) {
	path := "/actionPlans"
	if userID != "" {
		path += "?userId=" + url.QueryEscape(userID)
	}
	var out []entities.ActionPlan
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *client) CreateTask(ctx context.Context, t *entities.Task) (*entities.Task, error) {
	var out entities.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	var out entities.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) ListTasksByPlan(ctx context.Context, planID string) ([]entities.Task, error) {
	var out []entities.Task
	if err := c.do(ctx, http.MethodGet, "/tasks?planId="+url.QueryEscape(planID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *client) UpdateTask(ctx context.Context, id string, patch entities.TaskPatch) (*entities.Task, error) {
	var out entities.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: encode %s %s: %v", apperr.ErrStoreRejected, method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", apperr.ErrStoreUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", apperr.ErrStoreUnavailable, method, path, err)
	}
	if resp.StatusCode >= 300 {
		return statusError(method, path, resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", apperr.ErrStoreUnavailable, method, path, err)
	}
	return nil
}

func statusError(method, path string, status int, raw []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &e)
	msg := e.Error
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s: %s", apperr.ErrNotFound, method, path, msg)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: %s %s: %d %s", apperr.ErrStoreRejected, method, path, status, msg)
	default:
		return fmt.Errorf("%w: %s %s: %d %s", apperr.ErrStoreUnavailable, method, path, status, msg)
	}
}
