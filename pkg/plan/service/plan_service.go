package service

import (
	"context"
	"time"

	"kisaan/entities"
	"kisaan/pkg/progress"
	"kisaan/pkg/session"
)

// Stage is a step of plan generation reported to a ProgressFunc.
type Stage string

const (
	StageAnalysing Stage = "analysing"
	StagePrompting Stage = "prompting"
	StageParsing   Stage = "parsing"
	StageSaving    Stage = "saving"
	StageDone      Stage = "done"
)

// ProgressFunc receives the current stage and a completion percentage.
type ProgressFunc func(stage Stage, pct int)

// KBRef names a knowledge-base document whose notes went into the prompt.
type KBRef struct {
	Title     string `json:"title"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

type Result struct {
	Plan   *entities.ActionPlan `json:"plan"`
	Tasks  []entities.Task      `json:"tasks"`
	KBRefs []KBRef              `json:"kbRefs,omitempty"`
}

// TaskView is a task with its date-derived facts evaluated at one instant.
type TaskView struct {
	entities.Task
	IsToday   bool `json:"isToday"`
	IsOverdue bool `json:"isOverdue"`
}

// View is a stored plan as shown on the tracking screen.
type View struct {
	Plan     *entities.ActionPlan        `json:"plan"`
	Tasks    []TaskView                  `json:"tasks"`
	Progress progress.Summary            `json:"progress"`
	ByStatus map[entities.TaskStatus]int `json:"byStatus"`
	Costs    progress.CostSummary        `json:"costs"`
	AsOf     time.Time                   `json:"asOf"`
}

type PlanService interface {
	// Generate turns a stored problem into a persisted plan and tasks.
	Generate(ctx context.Context, s session.Session, problem *entities.FarmingProblem, apiKey string, onProgress ProgressFunc) (*Result, error)
	// Get loads one of the session user's plans with its tasks.
	Get(ctx context.Context, s session.Session, planID string) (*View, error)
	List(ctx context.Context, s session.Session) ([]entities.ActionPlan, error)
}
