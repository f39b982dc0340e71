package entities

import "time"

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

type ProblemStatus string

const (
	ProblemPending    ProblemStatus = "pending"
	ProblemProcessing ProblemStatus = "processing"
	ProblemCompleted  ProblemStatus = "completed"
)

// FarmingProblem is immutable once submitted.
type FarmingProblem struct {
	ID          string        `gorm:"primaryKey" json:"id"`
	UserID      string        `gorm:"index" json:"userId"`
	Description string        `json:"description"`
	CropType    string        `json:"cropType"`
	Location    string        `json:"location"`
	Urgency     Urgency       `json:"urgency"`
	Status      ProblemStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	Images      []string      `gorm:"serializer:json" json:"images,omitempty"`
}
