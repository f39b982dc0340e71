package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kisaan/entities"
	"kisaan/pkg/ai"
	"kisaan/pkg/apperr"
	"kisaan/pkg/logger"
	"kisaan/pkg/metrics"
	"kisaan/pkg/plan/service"
	"kisaan/pkg/plan/types"
	"kisaan/pkg/progress"
	"kisaan/pkg/session"
	"kisaan/pkg/store/repository"
)

// KBSearcher supplies reference notes for the prompt. Optional.
type KBSearcher interface {
	Search(ctx context.Context, query string, k int) ([]entities.KBChunk, error)
	DocsMeta(ctx context.Context, ids []uint) (map[uint]entities.KBDocument, error)
}

type PlanSvc struct {
	llm   ai.Client
	store repository.Store
	kb    KBSearcher
	now   func() time.Time
	newID func() string
}

type Option func(*PlanSvc)

func WithKB(kb KBSearcher) Option { return func(s *PlanSvc) { s.kb = kb } }

func WithClock(now func() time.Time) Option { return func(s *PlanSvc) { s.now = now } }

func WithIDs(newID func() string) Option { return func(s *PlanSvc) { s.newID = newID } }

func NewPlanService(llm ai.Client, store repository.Store, opts ...Option) *PlanSvc {
	s := &PlanSvc{llm: llm, store: store, now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ service.PlanService = (*PlanSvc)(nil)

func (s *PlanSvc) Generate(ctx context.Context, sess session.Session, problem *entities.FarmingProblem, apiKey string, onProgress service.ProgressFunc) (*service.Result, error) {
	res, err := s.generate(ctx, sess, problem, apiKey, onProgress)
	if err != nil {
		metrics.GenerationFailures.WithLabelValues(apperr.Kind(err)).Inc()
		return nil, err
	}
	metrics.PlansGenerated.Inc()
	return res, nil
}

func (s *PlanSvc) generate(ctx context.Context, sess session.Session, problem *entities.FarmingProblem, apiKey string, onProgress service.ProgressFunc) (*service.Result, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if problem == nil {
		return nil, fmt.Errorf("%w: problem is required", apperr.ErrInvalidInput)
	}
	if problem.UserID != sess.UserID {
		return nil, fmt.Errorf("%w: problem %s", apperr.ErrNotFound, problem.ID)
	}
	report := func(st service.Stage, pct int) {
		if onProgress != nil {
			onProgress(st, pct)
		}
	}
	log := logger.FromContext(ctx).With("problem_id", problem.ID, "user_id", sess.UserID)

	report(service.StageAnalysing, 10)
	kbCtx, refs := s.kbContext(ctx, problem)

	prompt := types.RenderPrompt(problem, kbCtx)
	log.Debug("generation prompt", "prompt", prompt)
	report(service.StagePrompting, 30)

	start := time.Now()
	text, err := s.llm.GenerateText(ctx, prompt, apiKey)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, apperr.ErrGenerationFailed) {
			err = fmt.Errorf("%w: %v", apperr.ErrGenerationFailed, err)
		}
		log.Warn("text generation failed", "error", err)
		return nil, err
	}

	report(service.StageParsing, 60)
	raw, err := types.Parse(text)
	if err != nil {
		log.Warn("generator returned unusable text", "error", err, "raw_len", len(text))
		return nil, err
	}
	gen := types.ApplyDefaults(raw, problem.CropType)
	plan, tasks := buildEntities(gen, problem, sess.UserID, s.now(), s.newID)

	report(service.StageSaving, 80)
	saved, err := s.store.CreatePlan(ctx, plan)
	if err != nil {
		log.Warn("save plan failed", "plan_id", plan.ID, "error", err)
		return nil, fmt.Errorf("save plan: %w", err)
	}

	savedTasks, failed := s.saveTasks(ctx, tasks)
	if len(failed) > 0 {
		log.Warn("some tasks were not saved", "plan_id", saved.ID, "saved", len(savedTasks), "failed", len(failed))
		return nil, &apperr.PartialPersistenceError{Plan: saved, Saved: savedTasks, Failed: failed}
	}

	report(service.StageDone, 100)
	log.Info("action plan generated", "plan_id", saved.ID, "tasks", len(savedTasks))
	return &service.Result{Plan: saved, Tasks: savedTasks, KBRefs: refs}, nil
}

// saveTasks writes all tasks concurrently and waits for every write. The
// saved slice keeps generation order.
func (s *PlanSvc) saveTasks(ctx context.Context, tasks []entities.Task) ([]entities.Task, map[string]error) {
	results := make([]*entities.Task, len(tasks))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed = map[string]error{}
	)
	for i := range tasks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			t, err := s.store.CreateTask(ctx, &tasks[i])
			if err != nil {
				mu.Lock()
				failed[tasks[i].ID] = err
				mu.Unlock()
				return
			}
			results[i] = t
		}(i)
	}
	wg.Wait()

	saved := make([]entities.Task, 0, len(tasks))
	for _, t := range results {
		if t != nil {
			saved = append(saved, *t)
		}
	}
	return saved, failed
}

const kbTopK = 6

func (s *PlanSvc) kbContext(ctx context.Context, p *entities.FarmingProblem) (string, []service.KBRef) {
	if s.kb == nil {
		return "", nil
	}
	query := strings.Join(strings.Fields(p.CropType+" "+p.Description+" "+p.Location), " ")
	chunks, err := s.kb.Search(ctx, query, kbTopK)
	if err != nil {
		logger.FromContext(ctx).Warn("kb search failed", "error", err)
		return "", nil
	}

	var b strings.Builder
	seen := map[uint]struct{}{}
	var ids []uint
	for _, ch := range chunks {
		if b.Len() > types.MaxKBContext {
			break
		}
		b.WriteString("\n---\n")
		b.WriteString(ch.Text)
		if _, ok := seen[ch.DocID]; !ok {
			seen[ch.DocID] = struct{}{}
			ids = append(ids, ch.DocID)
		}
	}
	if len(ids) == 0 {
		return b.String(), nil
	}

	meta, err := s.kb.DocsMeta(ctx, ids)
	if err != nil {
		logger.FromContext(ctx).Debug("kb docs meta", "error", err)
		return b.String(), nil
	}
	refs := make([]service.KBRef, 0, len(ids))
	for _, id := range ids {
		if d, ok := meta[id]; ok {
			refs = append(refs, service.KBRef{Title: d.Title, SourceURL: d.SourceURL})
		}
	}
	return b.String(), refs
}

func (s *PlanSvc) Get(ctx context.Context, sess session.Session, planID string) (*service.View, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != sess.UserID {
		return nil, fmt.Errorf("%w: plan %s", apperr.ErrNotFound, planID)
	}
	tasks, err := s.store.ListTasksByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]service.TaskView, len(tasks))
	for i := range tasks {
		views[i] = service.TaskView{
			Task:      tasks[i],
			IsToday:   tasks[i].IsToday(now),
			IsOverdue: tasks[i].IsOverdue(now),
		}
	}
	return &service.View{
		Plan:     plan,
		Tasks:    views,
		Progress: progress.Aggregate(tasks),
		ByStatus: progress.ByStatus(tasks),
		Costs:    progress.Costs(tasks),
		AsOf:     now,
	}, nil
}

func (s *PlanSvc) List(ctx context.Context, sess session.Session) ([]entities.ActionPlan, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	return s.store.ListPlans(ctx, sess.UserID)
}
