package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"kisaan/entities"
	"kisaan/pkg/apperr"
)

// RawPlan is the generator's JSON answer as received. Pointer fields are
// nil when the key is absent, null or of a type that cannot be used.
type RawPlan struct {
	Title         *string
	Description   *string
	EstimatedCost *float64
	ExpectedYield *float64
	Tasks         []RawTask
}

type RawTask struct {
	Title             *string
	Description       *string
	Priority          *string
	EstimatedDuration *int
	Cost              *float64
	Supplies          *[]string
	Instructions      *string
}

// Parse decodes text as a single JSON object. Anything else, including
// fenced or prefixed JSON, is an *apperr.InvalidResponseError holding text.
// Inside the object each key is decoded on its own, so one badly typed
// value only loses that value.
func Parse(text string) (*RawPlan, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &apperr.InvalidResponseError{Raw: text, Err: errors.New("response is not a JSON object")}
	}
	var raw RawPlan
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &apperr.InvalidResponseError{Raw: text, Err: err}
	}
	return &raw, nil
}

func (p *RawPlan) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*p = RawPlan{
		Title:         value[string](fields, "title"),
		Description:   value[string](fields, "description"),
		EstimatedCost: number(fields, "estimatedCost"),
		ExpectedYield: number(fields, "expectedYield"),
	}
	if items := value[[]json.RawMessage](fields, "tasks"); items != nil {
		p.Tasks = make([]RawTask, 0, len(*items))
		for _, item := range *items {
			var t RawTask
			// an entry that is not an object becomes a task of defaults
			_ = json.Unmarshal(item, &t)
			p.Tasks = append(p.Tasks, t)
		}
	}
	return nil
}

func (t *RawTask) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*t = RawTask{
		Title:        value[string](fields, "title"),
		Description:  value[string](fields, "description"),
		Priority:     value[string](fields, "priority"),
		Cost:         number(fields, "cost"),
		Supplies:     value[[]string](fields, "supplies"),
		Instructions: value[string](fields, "instructions"),
	}
	if f := number(fields, "estimatedDuration"); f != nil && math.Abs(*f) < math.MaxInt32 {
		d := int(math.Round(*f))
		t.EstimatedDuration = &d
	}
	return nil
}

var jsonNull = []byte("null")

// value decodes fields[key] into a T, or returns nil when the key is
// missing, null or holds another type.
func value[T any](fields map[string]json.RawMessage, key string) *T {
	b, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	return &v
}

// number accepts a JSON number or a string holding a plain finite number.
func number(fields map[string]json.RawMessage, key string) *float64 {
	if f := value[float64](fields, key); f != nil {
		return f
	}
	s := value[string](fields, key)
	if s == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Generated is a RawPlan with every field filled in.
type Generated struct {
	Title         string
	Description   string
	EstimatedCost float64
	ExpectedYield float64
	Tasks         []GeneratedTask
}

type GeneratedTask struct {
	Title             string
	Description       string
	Priority          entities.Priority
	EstimatedDuration int
	Cost              float64
	Supplies          []string
	Instructions      string
}

const (
	DefaultPlanDescription = "AI-generated farming solution"
	DefaultEstimatedCost   = 50
	DefaultExpectedYield   = 15
	DefaultTaskPriority    = entities.PriorityMedium
	DefaultTaskDuration    = 60
	DefaultTaskCost        = 10
)

// ApplyDefaults fills each missing field on its own and never fails.
// Values the store would reject (negative money, non-positive duration,
// unknown priority) count as missing. Yield may be negative.
func ApplyDefaults(raw *RawPlan, cropType string) Generated {
	if raw == nil {
		raw = &RawPlan{}
	}
	g := Generated{
		Title:         text(raw.Title, "Action Plan for "+strings.TrimSpace(cropType)),
		Description:   text(raw.Description, DefaultPlanDescription),
		EstimatedCost: money(raw.EstimatedCost, DefaultEstimatedCost),
		ExpectedYield: yield(raw.ExpectedYield),
		Tasks:         make([]GeneratedTask, 0, len(raw.Tasks)),
	}
	for i, rt := range raw.Tasks {
		g.Tasks = append(g.Tasks, defaultTask(rt, i+1))
	}
	return g
}

func defaultTask(rt RawTask, n int) GeneratedTask {
	t := GeneratedTask{
		Title:             text(rt.Title, "Task "+strconv.Itoa(n)),
		Description:       text(rt.Description, ""),
		Priority:          DefaultTaskPriority,
		EstimatedDuration: DefaultTaskDuration,
		Cost:              money(rt.Cost, DefaultTaskCost),
		Supplies:          []string{},
	}
	if rt.Priority != nil {
		if p := entities.Priority(strings.ToLower(strings.TrimSpace(*rt.Priority))); p.Valid() {
			t.Priority = p
		}
	}
	if rt.EstimatedDuration != nil && *rt.EstimatedDuration > 0 {
		t.EstimatedDuration = *rt.EstimatedDuration
	}
	if rt.Supplies != nil {
		for _, s := range *rt.Supplies {
			if s = strings.TrimSpace(s); s != "" {
				t.Supplies = append(t.Supplies, s)
			}
		}
	}
	t.Instructions = text(rt.Instructions, t.Description)
	return t
}

func text(v *string, def string) string {
	if v == nil {
		return def
	}
	if s := strings.TrimSpace(*v); s != "" {
		return s
	}
	return def
}

func money(v *float64, def float64) float64 {
	if v == nil || *v < 0 {
		return def
	}
	return *v
}

func yield(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return DefaultExpectedYield
	}
	return *v
}
