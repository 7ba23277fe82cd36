package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors holds validation errors keyed by input field name.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Add records msg against field, for rules checked outside the struct tags.
func (e *Errors) Add(field, msg string) { e.add(field, msg) }

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return e != nil && len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if e == nil {
		return ""
	}
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// ── Validator ────────────────────────────────────────────────────────────────

var (
	once     sync.Once
	instance *validator.Validate
)

// engine returns the shared validator. Field names in messages come from the
// query, form or json tag, in that order.
func engine() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"query", "form", "json"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
	return instance
}

// Struct validates v against its `validate` tags.
//
//	type SearchQuery struct {
//	    Lookfor string `query:"lookfor" validate:"required,max=200"`
//	}
//
// Rule failures are returned as an error bag; the error is reserved for
// values that cannot be validated at all, such as a nil pointer.
func Struct(v any) (*Errors, error) {
	err := engine().Struct(v)
	if err == nil {
		return &Errors{}, nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return nil, err
	}
	out := &Errors{}
	for _, fe := range fes {
		out.add(fe.Field(), message(fe))
	}
	return out, nil
}

// ── Messages ─────────────────────────────────────────────────────────────────

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	text := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "numeric", "number":
		return fmt.Sprintf("The %s must be a number.", field)
	case "boolean":
		return fmt.Sprintf("The %s field must be true or false.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url", "http_url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "min":
		if text {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
		return fmt.Sprintf("The %s must be at least %s.", field, param)
	case "max":
		if text {
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, param)
		}
		return fmt.Sprintf("The %s may not be greater than %s.", field, param)
	case "len":
		return fmt.Sprintf("The %s must be %s characters.", field, param)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "alpha":
		return fmt.Sprintf("The %s may only contain letters.", field)
	case "alphanum":
		return fmt.Sprintf("The %s may only contain letters and numbers.", field)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, param)
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
	case "lt":
		return fmt.Sprintf("The %s must be less than %s.", field, param)
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
	case "eqfield":
		return fmt.Sprintf("The %s and %s must match.", field, param)
	case "nefield":
		return fmt.Sprintf("The %s and %s must be different.", field, param)
	default:
		return fmt.Sprintf("The %s format is invalid.", field)
	}
}
