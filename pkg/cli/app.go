package cli

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"kisaan/config"
	"kisaan/database"
	"kisaan/pkg/ai"
	"kisaan/pkg/kb/embedder"
	kbRepoImp "kisaan/pkg/kb/repositoryImp"
	kbServiceImp "kisaan/pkg/kb/serviceImp"
	"kisaan/pkg/logger"
	planSvcImp "kisaan/pkg/plan/serviceImp"
	problemsvc "kisaan/pkg/problem/service"
	problemSvcImp "kisaan/pkg/problem/serviceImp"
	"kisaan/pkg/store/remote"
	"kisaan/pkg/store/repository"
	"kisaan/pkg/store/repositoryImp"
	taskSvcImp "kisaan/pkg/task/serviceImp"
	"kisaan/pkg/upload"
)

const remoteStoreTimeout = 15 * time.Second

// app holds the wired services shared by every command.
type app struct {
	cfg      config.AppConfig
	db       *gorm.DB
	store    repository.Store
	localDB  bool
	uploader upload.Uploader
	objects  *upload.ObjectStore
	kb       *kbServiceImp.Svc
	problems problemsvc.ProblemService
	plans    *planSvcImp.PlanSvc
	tasks    *taskSvcImp.TaskSvc
	closers  []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	slog.Info("config loaded", "cfg", cfg)

	// sqlite always backs the knowledge base; it also backs the document
	// store unless STORE_URL points at a remote one
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, db: db}
	a.closers = append(a.closers, func() { _ = database.Close(db) })

	if cfg.StoreURL != "" {
		a.store = remote.New(cfg.StoreURL, remoteStoreTimeout)
		slog.Info("using remote document store", "url", cfg.StoreURL)
	} else {
		a.store = repositoryImp.New(db)
		a.localDB = true
	}

	if cfg.NATSURL != "" {
		obj, err := upload.NewObjectStore(ctx, cfg.NATSURL, cfg.NATSBucket, cfg.UploadBaseURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.uploader = obj
		a.objects = obj
		a.closers = append(a.closers, obj.Close)
	} else {
		a.uploader = upload.NewDisk(cfg.UploadDir, cfg.UploadBaseURL)
	}

	var llm ai.Client
	if cfg.LLMEndpoint != "" {
		llm = ai.NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	} else {
		slog.Warn("LLM_ENDPOINT not set, using the mock generator")
		llm = ai.NewMock()
	}

	var emb kbServiceImp.Embedder
	if cfg.EmbEndpoint != "" {
		emb = embedder.New(cfg.EmbEndpoint, cfg.EmbAPIKey, cfg.EmbModel)
	}
	a.kb = kbServiceImp.New(kbRepoImp.New(db), emb, kbServiceImp.Config{
		AllowedDomains:  cfg.KBAllowedDomains,
		MaxBytesPerPage: cfg.KBMaxBytes,
	})

	a.problems = problemSvcImp.NewProblemService(a.store, a.uploader)
	a.plans = planSvcImp.NewPlanService(llm, a.store, planSvcImp.WithKB(a.kb))
	a.tasks = taskSvcImp.NewTaskService(a.store, a.uploader)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
