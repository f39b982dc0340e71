package service

import (
	"context"

	"kisaan/entities"
	"kisaan/pkg/session"
)

// Photo is an image attached to a problem report.
type Photo struct {
	Name string
	Data []byte
}

type SubmitRequest struct {
	Description string  `json:"description" validate:"required,max=4000"`
	CropType    string  `json:"cropType" validate:"required,max=100"`
	Location    string  `json:"location" validate:"max=200"`
	Urgency     string  `json:"urgency" validate:"urgency"`
	Images      []Photo `json:"-"`
}

type ProblemService interface {
	// Submit uploads the photos, then stores the problem.
	Submit(ctx context.Context, s session.Session, req SubmitRequest) (*entities.FarmingProblem, error)
	// Get returns one of the session user's problems.
	Get(ctx context.Context, s session.Session, id string) (*entities.FarmingProblem, error)
}
