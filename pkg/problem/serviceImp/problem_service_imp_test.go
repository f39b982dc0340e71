package serviceImp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kisaan/entities"
	"kisaan/mocks"
	"kisaan/pkg/apperr"
	"kisaan/pkg/problem/service"
	"kisaan/pkg/session"
	"kisaan/pkg/validation"
)

func TestSubmit_StoresPendingProblem(t *testing.T) {
	store := new(mocks.MockStore)
	up := new(mocks.MockUploader)
	store.On("CreateProblem", mock.Anything, mock.MatchedBy(func(p *entities.FarmingProblem) bool {
		return p.Description == "leaves yellowing" && p.CropType == "Wheat" &&
			p.Urgency == entities.UrgencyHigh && p.Status == entities.ProblemPending &&
			p.UserID == "farmer-1" && p.ID != "" && p.Images == nil
	})).Return(&entities.FarmingProblem{ID: "p1"}, nil)
	svc := NewProblemService(store, up)

	p, err := svc.Submit(context.Background(), session.New("farmer-1"), service.SubmitRequest{
		Description: "  leaves yellowing ",
		CropType:    "Wheat",
		Urgency:     "HIGH",
	})

	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	store.AssertExpectations(t)
	up.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_DefaultsUrgencyAndUploadsPhotos(t *testing.T) {
	store := new(mocks.MockStore)
	up := new(mocks.MockUploader)
	up.On("UploadFile", mock.Anything, []byte("img-a"), mock.MatchedBy(func(dest string) bool {
		return strings.HasPrefix(dest, "problems/") && strings.HasSuffix(dest, "-a.jpg")
	})).Return("/uploads/a.jpg", nil)
	up.On("UploadFile", mock.Anything, []byte("img-b"), mock.Anything).Return("/uploads/b.jpg", nil)
	var saved *entities.FarmingProblem
	store.On("CreateProblem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*entities.FarmingProblem) }).
		Return(&entities.FarmingProblem{ID: "p2"}, nil)
	svc := NewProblemService(store, up)

	_, err := svc.Submit(context.Background(), session.New("farmer-1"), service.SubmitRequest{
		Description: "aphids",
		CropType:    "Cotton",
		Images: []service.Photo{
			{Name: "a.jpg", Data: []byte("img-a")},
			{Name: "empty.jpg"},
			{Name: "b.jpg", Data: []byte("img-b")},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, entities.UrgencyMedium, saved.Urgency)
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, saved.Images)
	up.AssertNumberOfCalls(t, "UploadFile", 2)
}

func TestSubmit_UploadFailureStoresNothing(t *testing.T) {
	store := new(mocks.MockStore)
	up := new(mocks.MockUploader)
	up.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("disk full"))
	svc := NewProblemService(store, up)

	_, err := svc.Submit(context.Background(), session.New("farmer-1"), service.SubmitRequest{
		Description: "rust", CropType: "Wheat",
		Images: []service.Photo{{Name: "a.jpg", Data: []byte("x")}},
	})

	assert.ErrorIs(t, err, apperr.ErrUploadFailed)
	store.AssertNotCalled(t, "CreateProblem", mock.Anything, mock.Anything)
}

func TestSubmit_Validation(t *testing.T) {
	store := new(mocks.MockStore)
	svc := NewProblemService(store, new(mocks.MockUploader))

	_, err := svc.Submit(context.Background(), session.New("farmer-1"), service.SubmitRequest{
		Description: "   ", CropType: "Wheat", Urgency: "critical",
	})

	require.ErrorIs(t, err, apperr.ErrInvalidInput)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "description")
	assert.Contains(t, verr.Fields, "urgency")
	store.AssertNotCalled(t, "CreateProblem", mock.Anything, mock.Anything)
}

func TestSubmit_RequiresUser(t *testing.T) {
	store := new(mocks.MockStore)
	svc := NewProblemService(store, new(mocks.MockUploader))

	_, err := svc.Submit(context.Background(), session.Session{}, service.SubmitRequest{Description: "x", CropType: "y"})

	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)
	store.AssertNotCalled(t, "CreateProblem", mock.Anything, mock.Anything)
}

func TestGet_OtherUsersProblemIsNotFound(t *testing.T) {
	store := new(mocks.MockStore)
	store.On("GetProblem", mock.Anything, "p1").Return(&entities.FarmingProblem{ID: "p1", UserID: "farmer-2"}, nil)
	svc := NewProblemService(store, new(mocks.MockUploader))

	_, err := svc.Get(context.Background(), session.New("farmer-1"), "p1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	p, err := svc.Get(context.Background(), session.New("farmer-2"), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}
