package entities

import "time"

// TaskStatus tracks task lifecycle: pending -> in_progress -> completed | skipped.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskSkipped    TaskStatus = "skipped"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskSkipped:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	ID                string     `gorm:"primaryKey" json:"id"`
	PlanID            string     `gorm:"index" json:"planId"`
	UserID            string     `gorm:"index" json:"userId"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	ScheduledDate     time.Time  `gorm:"index" json:"scheduledDate"`
	Status            TaskStatus `json:"status"`
	Priority          Priority   `json:"priority"`
	EstimatedDuration int        `json:"estimatedDuration"` // minutes
	Cost              float64    `json:"cost"`
	Supplies          []string   `gorm:"serializer:json" json:"supplies"`
	Instructions      string     `json:"instructions"`
	VerificationImage *string    `json:"verificationImage,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// IsOverdue is never true for a completed task.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskCompleted && t.ScheduledDate.Before(now)
}

// IsToday compares calendar dates in now's location.
func (t *Task) IsToday(now time.Time) bool {
	sy, sm, sd := t.ScheduledDate.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return sy == ny && sm == nm && sd == nd
}

// CheckInvariants reports whether the completion fields agree with Status.
func (t *Task) CheckInvariants() bool {
	if (t.Status == TaskCompleted) != (t.CompletedAt != nil) {
		return false
	}
	if t.VerificationImage != nil && t.Status != TaskCompleted {
		return false
	}
	return true
}
