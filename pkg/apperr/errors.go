package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"kisaan/entities"
)

// Error message constants. Use these in assert.Contains checks.
const (
	MsgNotAuthenticated         = "user not authenticated"
	MsgGenerationFailed         = "plan generation failed"
	MsgInvalidResponseFormat    = "generator returned an invalid response"
	MsgPartialPersistence       = "plan saved but some tasks were not"
	MsgUpdateFailed             = "task update failed"
	MsgVerificationUploadFailed = "verification photo upload failed"
	MsgUploadFailed             = "upload failed"
	MsgStoreUnavailable         = "store unavailable"
	MsgStoreRejected            = "store rejected the write"
	MsgNotFound                 = "not found"
	MsgInvalidInput             = "invalid input"
	MsgInvalidTransition        = "invalid task transition"
	MsgTransitionInFlight       = "another update for this task is in progress"
)

// Wrap these with fmt.Errorf("%w: detail", apperr.ErrXxx) for context.
var (
	ErrNotAuthenticated         = errors.New(MsgNotAuthenticated)
	ErrGenerationFailed         = errors.New(MsgGenerationFailed)
	ErrInvalidResponseFormat    = errors.New(MsgInvalidResponseFormat)
	ErrPartialPersistence       = errors.New(MsgPartialPersistence)
	ErrUpdateFailed             = errors.New(MsgUpdateFailed)
	ErrVerificationUploadFailed = errors.New(MsgVerificationUploadFailed)
	ErrUploadFailed             = errors.New(MsgUploadFailed)
	ErrStoreUnavailable         = errors.New(MsgStoreUnavailable)
	ErrStoreRejected            = errors.New(MsgStoreRejected)
	ErrNotFound                 = errors.New(MsgNotFound)
	ErrInvalidInput             = errors.New(MsgInvalidInput)
	ErrInvalidTransition        = errors.New(MsgInvalidTransition)
	ErrTransitionInFlight       = errors.New(MsgTransitionInFlight)
)

// InvalidResponseError keeps the generator text that failed to parse.
type InvalidResponseError struct {
	Raw string
	Err error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%s: %v", MsgInvalidResponseFormat, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

func (e *InvalidResponseError) Is(target error) bool { return target == ErrInvalidResponseFormat }

// PartialPersistenceError is returned once the plan is committed but at
// least one of its tasks could not be written.
type PartialPersistenceError struct {
	Plan   *entities.ActionPlan
	Saved  []entities.Task
	Failed map[string]error // task id -> cause
}

func (e *PartialPersistenceError) Error() string {
	ids := e.FailedIDs()
	return fmt.Sprintf("%s: plan %s, %d saved, failed [%s]", MsgPartialPersistence, e.Plan.ID, len(e.Saved), strings.Join(ids, ", "))
}

func (e *PartialPersistenceError) Is(target error) bool { return target == ErrPartialPersistence }

// Unwrap exposes the task causes so errors.Is can see store kinds.
func (e *PartialPersistenceError) Unwrap() []error {
	out := make([]error, 0, len(e.Failed))
	for _, id := range e.FailedIDs() {
		out = append(out, e.Failed[id])
	}
	return out
}

func (e *PartialPersistenceError) SavedIDs() []string {
	ids := make([]string, 0, len(e.Saved))
	for _, t := range e.Saved {
		ids = append(ids, t.ID)
	}
	return ids
}

func (e *PartialPersistenceError) FailedIDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HTTPStatus maps an error kind to a response status.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, ErrPartialPersistence):
		return http.StatusInternalServerError
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTransitionInFlight):
		return http.StatusConflict
	case errors.Is(err, ErrStoreRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrGenerationFailed), errors.Is(err, ErrInvalidResponseFormat),
		errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrUploadFailed),
		errors.Is(err, ErrVerificationUploadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Kind names the error kind for logs and metric labels.
func Kind(err error) string {
	kinds := []struct {
		err  error
		name string
	}{
		{ErrNotAuthenticated, "not_authenticated"},
		{ErrPartialPersistence, "partial_persistence"},
		{ErrInvalidResponseFormat, "invalid_response_format"},
		{ErrGenerationFailed, "generation_failed"},
		{ErrVerificationUploadFailed, "verification_upload_failed"},
		{ErrUploadFailed, "upload_failed"},
		{ErrUpdateFailed, "update_failed"},
		{ErrNotFound, "not_found"},
		{ErrStoreRejected, "store_rejected"},
		{ErrStoreUnavailable, "store_unavailable"},
		{ErrInvalidInput, "invalid_input"},
		{ErrInvalidTransition, "invalid_transition"},
		{ErrTransitionInFlight, "transition_in_flight"},
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}
