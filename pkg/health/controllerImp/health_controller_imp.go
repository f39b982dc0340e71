package controllerImp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"kisaan/pkg/health/controller"
)

var appStart = time.Now()

const checkTimeout = 800 * time.Millisecond

// Check is one named dependency probe.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// DBCheck pings the sqlite connection behind db.
func DBCheck(db *gorm.DB) Check {
	return Check{Name: "database", Fn: func(ctx context.Context) error {
		if db == nil {
			return fmt.Errorf("gorm db is nil")
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("db.DB(): %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		return nil
	}}
}

// HTTPCheck expects a 2xx from url; used for the remote document store.
func HTTPCheck(name, url string) Check {
	client := &http.Client{Timeout: checkTimeout}
	return Check{Name: name, Fn: func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode >= 300 {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		return nil
	}}
}

type HealthCtrl struct {
	checks []Check
	now    func() time.Time
}

func NewHealthCtrl(checks ...Check) controller.HealthController {
	return &HealthCtrl{checks: checks, now: time.Now}
}

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), checkTimeout)
	defer cancel()

	allOK := true
	results := make(map[string]sub, len(h.checks))
	for _, chk := range h.checks {
		if err := chk.Fn(ctx); err != nil {
			allOK = false
			results[chk.Name] = sub{OK: false, Err: err.Error()}
			continue
		}
		results[chk.Name] = sub{OK: true}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     results,
		"time":       h.now().Format(time.RFC3339),
	})
}
