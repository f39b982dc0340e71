package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	authCtrlImp "kisaan/pkg/auth/controllerImp"
	healthCtrlImp "kisaan/pkg/health/controllerImp"
	kbCtrlImp "kisaan/pkg/kb/controllerImp"
	planCtrlImp "kisaan/pkg/plan/controllerImp"
	problemCtrlImp "kisaan/pkg/problem/controllerImp"
	storeCtrlImp "kisaan/pkg/store/controllerImp"
	taskCtrlImp "kisaan/pkg/task/controllerImp"
	"kisaan/router"
)

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if servePort != "" {
		port = servePort
	}

	e := newServer(a)
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "port", port)
		errCh <- e.Start(":" + port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newServer(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())

	checks := []healthCtrlImp.Check{healthCtrlImp.DBCheck(a.db)}
	h := router.Handlers{
		Problem: problemCtrlImp.New(a.problems),
		Plan:    planCtrlImp.NewPlanCtrl(a.plans, a.problems, a.cfg.LLMAPIKey),
		Task:    taskCtrlImp.New(a.tasks),
		Auth:    authCtrlImp.NewAuthController(),
		KB:      kbCtrlImp.New(a.kb),
	}
	if a.localDB {
		if a.cfg.ServeStoreAPI {
			h.Store = storeCtrlImp.New(a.store)
		}
	} else {
		checks = append(checks, healthCtrlImp.HTTPCheck("store", strings.TrimRight(a.cfg.StoreURL, "/")+"/actionPlans?userId=health"))
	}
	h.Health = healthCtrlImp.NewHealthCtrl(checks...)

	if a.objects != nil {
		e.GET(strings.TrimRight(a.cfg.UploadBaseURL, "/")+"/*", a.objects.Serve)
	} else {
		e.Static(a.cfg.UploadBaseURL, a.cfg.UploadDir)
	}
	return router.New(e, h, a.cfg.EnableAuth)
}
