package serviceImp

import (
	"time"

	"kisaan/entities"
	"kisaan/pkg/plan/types"
)

// buildEntities turns a defaulted generation into a plan and its pending
// tasks. Task i is scheduled i+1 days after now.
func buildEntities(g types.Generated, problem *entities.FarmingProblem, userID string, now time.Time, newID func() string) (*entities.ActionPlan, []entities.Task) {
	plan := &entities.ActionPlan{
		ID:            newID(),
		ProblemID:     problem.ID,
		UserID:        userID,
		Title:         g.Title,
		Description:   g.Description,
		EstimatedCost: g.EstimatedCost,
		ExpectedYield: g.ExpectedYield,
		Currency:      entities.PlanCurrency,
		CreatedAt:     now,
		TaskIDs:       make([]string, 0, len(g.Tasks)),
	}

	tasks := make([]entities.Task, 0, len(g.Tasks))
	for i, gt := range g.Tasks {
		t := entities.Task{
			ID:                newID(),
			PlanID:            plan.ID,
			UserID:            userID,
			Title:             gt.Title,
			Description:       gt.Description,
			ScheduledDate:     now.AddDate(0, 0, i+1),
			Status:            entities.TaskPending,
			Priority:          gt.Priority,
			EstimatedDuration: gt.EstimatedDuration,
			Cost:              gt.Cost,
			Supplies:          gt.Supplies,
			Instructions:      gt.Instructions,
			CreatedAt:         now,
		}
		tasks = append(tasks, t)
		plan.TaskIDs = append(plan.TaskIDs, t.ID)
	}
	return plan, tasks
}
