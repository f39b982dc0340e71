package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"kisaan/entities"
	"kisaan/pkg/apperr"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Get returns the shared validator with the domain rules registered.
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		// report json names, not Go field names
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("urgency", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || entities.Urgency(s).Valid()
		})
		_ = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
			return entities.TaskStatus(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// Error lists field problems. It matches apperr.ErrInvalidInput.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", apperr.MsgInvalidInput, strings.Join(parts, "; "))
}

func (e *Error) Is(target error) bool { return target == apperr.ErrInvalidInput }

// Struct validates s and converts failures into *Error.
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}
	return &Error{Fields: Format(err)}
}

// Format turns validator errors into field -> message.
func Format(err error) map[string]string {
	out := map[string]string{}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		out["error"] = "Invalid request format"
		return out
	}
	for _, e := range ves {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = "This field is required"
		case "max":
			out[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "urgency":
			out[field] = "Must be one of low, medium, high"
		case "taskstatus":
			out[field] = "Must be one of pending, in_progress, completed, skipped"
		default:
			out[field] = "Invalid value"
		}
	}
	return out
}
