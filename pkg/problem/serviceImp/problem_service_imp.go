package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kisaan/entities"
	"kisaan/pkg/apperr"
	"kisaan/pkg/logger"
	"kisaan/pkg/problem/service"
	"kisaan/pkg/session"
	"kisaan/pkg/store/repository"
	"kisaan/pkg/upload"
	"kisaan/pkg/validation"
)

const uploadPrefix = "problems"

type problemSvc struct {
	store    repository.Store
	uploader upload.Uploader
	now      func() time.Time
}

func NewProblemService(store repository.Store, uploader upload.Uploader) service.ProblemService {
	return &problemSvc{store: store, uploader: uploader, now: time.Now}
}

func (s *problemSvc) Submit(ctx context.Context, sess session.Session, req service.SubmitRequest) (*entities.FarmingProblem, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	req.Description = strings.TrimSpace(req.Description)
	req.CropType = strings.TrimSpace(req.CropType)
	req.Location = strings.TrimSpace(req.Location)
	req.Urgency = strings.ToLower(strings.TrimSpace(req.Urgency))
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	urgency := entities.Urgency(req.Urgency)
	if urgency == "" {
		urgency = entities.UrgencyMedium
	}

	var images []string
	for _, ph := range req.Images {
		if len(ph.Data) == 0 {
			continue
		}
		url, err := s.uploader.UploadFile(ctx, ph.Data, upload.Path(uploadPrefix, s.now(), ph.Name))
		if err != nil {
			logger.FromContext(ctx).Warn("problem photo upload failed", "name", ph.Name, "error", err)
			if !errors.Is(err, apperr.ErrUploadFailed) {
				err = fmt.Errorf("%w: %v", apperr.ErrUploadFailed, err)
			}
			return nil, err
		}
		images = append(images, url)
	}

	p := &entities.FarmingProblem{
		ID:          uuid.NewString(),
		UserID:      sess.UserID,
		Description: req.Description,
		CropType:    req.CropType,
		Location:    req.Location,
		Urgency:     urgency,
		Status:      entities.ProblemPending,
		CreatedAt:   s.now(),
		Images:      images,
	}
	saved, err := s.store.CreateProblem(ctx, p)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("problem submitted", "problem_id", saved.ID, "images", len(images))
	return saved, nil
}

func (s *problemSvc) Get(ctx context.Context, sess session.Session, id string) (*entities.FarmingProblem, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	p, err := s.store.GetProblem(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != sess.UserID {
		return nil, fmt.Errorf("%w: problem %s", apperr.ErrNotFound, id)
	}
	return p, nil
}
