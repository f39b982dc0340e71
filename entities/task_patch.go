package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TaskPatch names the mutable task fields. Only non-nil fields are written.
// ClearCompletion removes completedAt and verificationImage before the
// other fields are applied; on the wire it is a JSON null for either field.
type TaskPatch struct {
	Status            *TaskStatus
	CompletedAt       *time.Time
	VerificationImage *string
	ClearCompletion   bool
}

// StatusPatch moves a task to a non-completed status and drops any
// completion data left from an earlier completion.
func StatusPatch(s TaskStatus) TaskPatch {
	return TaskPatch{Status: &s, ClearCompletion: s != TaskCompleted}
}

// CompletionPatch marks a task completed at the given time. image may be nil.
func CompletionPatch(at time.Time, image *string) TaskPatch {
	s := TaskCompleted
	return TaskPatch{Status: &s, CompletedAt: &at, VerificationImage: image, ClearCompletion: true}
}

func (p TaskPatch) IsEmpty() bool {
	return p.Status == nil && p.CompletedAt == nil && p.VerificationImage == nil && !p.ClearCompletion
}

// Apply writes the patch onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.ClearCompletion {
		t.CompletedAt = nil
		t.VerificationImage = nil
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		t.CompletedAt = &at
	}
	if p.VerificationImage != nil {
		img := *p.VerificationImage
		t.VerificationImage = &img
	}
}

func (p TaskPatch) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if p.ClearCompletion {
		out["completedAt"] = nil
		out["verificationImage"] = nil
	}
	if p.Status != nil {
		out["status"] = *p.Status
	}
	if p.CompletedAt != nil {
		out["completedAt"] = p.CompletedAt.UTC().Format(time.RFC3339Nano)
	}
	if p.VerificationImage != nil {
		out["verificationImage"] = *p.VerificationImage
	}
	return json.Marshal(out)
}

func (p *TaskPatch) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = TaskPatch{}
	for k, v := range raw {
		null := bytes.Equal(bytes.TrimSpace(v), []byte("null"))
		switch k {
		case "status":
			if null {
				return fmt.Errorf("status cannot be null")
			}
			var s TaskStatus
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("status: %w", err)
			}
			if !s.Valid() {
				return fmt.Errorf("status %q is not valid", s)
			}
			p.Status = &s
		case "completedAt":
			if null {
				p.ClearCompletion = true
				continue
			}
			var at time.Time
			if err := json.Unmarshal(v, &at); err != nil {
				return fmt.Errorf("completedAt: %w", err)
			}
			p.CompletedAt = &at
		case "verificationImage":
			if null {
				p.ClearCompletion = true
				continue
			}
			var img string
			if err := json.Unmarshal(v, &img); err != nil {
				return fmt.Errorf("verificationImage: %w", err)
			}
			p.VerificationImage = &img
		default:
			return fmt.Errorf("field %q cannot be updated", k)
		}
	}
	return nil
}
