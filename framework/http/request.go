package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/km-arc/go-discovery/framework/http/validation"
)

const maxMemory = 32 << 20 // 32 MB

// Request wraps *http.Request with input helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Binding ──────────────────────────────────────────────────────────────────

// Bind decodes the request body into v: JSON by `json` tags, form bodies by
// `form` tags.
func (req *Request) Bind(v any) error {
	ct := req.ContentType()

	switch {
	case strings.Contains(ct, "application/json"):
		return req.bindJSON(v)
	case strings.Contains(ct, "multipart/form-data"):
		if err := req.raw.ParseMultipartForm(maxMemory); err != nil {
			return errors.Wrap(err, "parsing multipart form")
		}
		return decodeValues(req.raw.MultipartForm.Value, "form", v)
	default:
		if err := req.raw.ParseForm(); err != nil {
			return errors.Wrap(err, "parsing form")
		}
		return decodeValues(req.raw.PostForm, "form", v)
	}
}

// BindQuery decodes the query string into v by `query` tags. Values are
// weakly typed, so page=2 fills an int field.
func (req *Request) BindQuery(v any) error {
	return decodeValues(req.raw.URL.Query(), "query", v)
}

// BindValid is BindQuery for GET and HEAD requests and Bind otherwise,
// followed by validation. A decode failure is returned as the error; rule
// failures come back in the bag.
func (req *Request) BindValid(v any) (*validation.Errors, error) {
	var err error
	if req.raw.Method == http.MethodGet || req.raw.Method == http.MethodHead {
		err = req.BindQuery(v)
	} else {
		err = req.Bind(v)
	}
	if err != nil {
		return nil, err
	}
	return validation.Struct(v)
}

func (req *Request) bindJSON(v any) error {
	defer req.raw.Body.Close()
	body, err := io.ReadAll(req.raw.Body)
	if err != nil {
		return errors.Wrap(err, "reading body")
	}
	if len(body) == 0 {
		return errors.New("empty request body")
	}
	return errors.Wrap(json.Unmarshal(body, v), "decoding json body")
}

// decodeValues maps url.Values style input onto a struct. Single values are
// unwrapped so scalar fields decode; repeated keys stay slices.
func decodeValues(values map[string][]string, tag string, v any) error {
	m := make(map[string]any, len(values))
	for k, vals := range values {
		if len(vals) == 1 {
			m[k] = vals[0]
		} else {
			m[k] = vals
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tag,
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return errors.Wrap(err, "building decoder")
	}
	return errors.Wrapf(dec.Decode(m), "decoding %s values", tag)
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Input returns a single input value (query string OR post body).
func (req *Request) Input(key string, fallback ...string) string {
	_ = req.raw.ParseForm()
	v := req.raw.FormValue(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// QueryInt returns a query-string value as int, or fallback when it is
// missing or not a number.
func (req *Request) QueryInt(key string, fallback int) int {
	n, err := strconv.Atoi(req.raw.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return n
}

// All returns all input as a flat map (query + post).
func (req *Request) All() map[string]string {
	_ = req.raw.ParseForm()
	out := make(map[string]string)
	for k, v := range req.raw.Form {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// Has returns true if the key is present and non-empty.
func (req *Request) Has(key string) bool {
	return req.Input(key) != ""
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// BearerToken extracts the token from Authorization: Bearer <token>.
func (req *Request) BearerToken() string {
	auth := req.raw.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}

// IsJSON returns true when the request expects a JSON response.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "application/json") ||
		strings.Contains(req.ContentType(), "application/json")
}
