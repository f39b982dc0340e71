package entities

import "time"

const PlanCurrency = "USD"

// ActionPlan is the generated remediation plan for one FarmingProblem.
// The task list is carried twice: TaskIDs ("taskIds") is the stored,
// ordered id list and Tasks ("tasks") holds the task objects when loaded.
type ActionPlan struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	ProblemID     string    `gorm:"index" json:"problemId"`
	UserID        string    `gorm:"index" json:"userId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	EstimatedCost float64   `json:"estimatedCost"`
	ExpectedYield float64   `json:"expectedYield"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"createdAt"`
	TaskIDs       []string  `gorm:"column:task_ids;serializer:json" json:"taskIds"`
	Tasks         []Task    `gorm:"-" json:"tasks,omitempty"`
}
