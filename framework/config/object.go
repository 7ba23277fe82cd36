package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Object is a read-only view over a nested configuration mapping.
//
// Keys may address nested sections with dots: obj.String("Site.url", "").
// The Object owns a private copy of its data; nothing handed out by its
// accessors aliases that copy.
type Object struct {
	data map[string]any
}

// NewObject copies data into a new Object.
func NewObject(data map[string]any) *Object {
	if data == nil {
		return &Object{data: map[string]any{}}
	}
	return &Object{data: deepcopy.Copy(data).(map[string]any)}
}

// Get returns the value at key.
func (o *Object) Get(key string) (any, bool) {
	var cur any = o.data
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return deepcopy.Copy(cur), true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// String returns the value at key formatted as a string.
func (o *Object) String(key, fallback string) string {
	v, ok := o.Get(key)
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool returns the value at key as a bool; unparsable values yield fallback.
func (o *Object) Bool(key string, fallback bool) bool {
	v, ok := o.Get(key)
	if !ok {
		return fallback
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return fallback
		}
		return parsed
	}
	return fallback
}

// Int returns the value at key as an int; unparsable values yield fallback.
func (o *Object) Int(key string, fallback int) int {
	v, ok := o.Get(key)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return fallback
		}
		return parsed
	}
	return fallback
}

// Section returns the nested section name as an Object. A missing or scalar
// entry yields an empty Object.
func (o *Object) Section(name string) *Object {
	v, ok := o.Get(name)
	if !ok {
		return NewObject(nil)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return NewObject(nil)
	}
	return &Object{data: m}
}

// Keys returns the top-level keys in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.data))
	for k := range o.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of top-level keys.
func (o *Object) Len() int { return len(o.data) }

// ToMap returns a deep copy of the underlying mapping.
func (o *Object) ToMap() map[string]any {
	return deepcopy.Copy(o.data).(map[string]any)
}

// Decode fills the struct pointed to by out, matching keys against `config`
// struct tags with weak typing ("42" decodes into an int), then runs
// `validate` tag rules on the result.
//
//	var site struct {
//	    URL   string `config:"url" validate:"required,url"`
//	    Limit int    `config:"limit"`
//	}
//	err := obj.Section("Site").Decode(&site)
func (o *Object) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "config: building decoder")
	}
	if err := dec.Decode(o.ToMap()); err != nil {
		return errors.Wrap(err, "config: decoding object")
	}
	if rv := reflect.ValueOf(out); rv.Kind() == reflect.Ptr && rv.Elem().Kind() == reflect.Struct {
		if err := validate.Struct(out); err != nil {
			return errors.Wrap(err, "config: validating object")
		}
	}
	return nil
}
