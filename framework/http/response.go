package http

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/km-arc/go-discovery/framework/autowire"
	"github.com/km-arc/go-discovery/framework/container"
	"github.com/km-arc/go-discovery/framework/http/validation"
)

// ── Response ─────────────────────────────────────────────────────────────────

// Response wraps http.ResponseWriter with JSON helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// ── JSON responses ────────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Paginated sends 200 JSON: {"data": v, "meta": meta}
func (res *Response) Paginated(v any, meta any) {
	res.JSON(http.StatusOK, envelope{"data": v, "meta": meta})
}

// NoContent sends 204 with no body.
func (res *Response) NoContent() {
	res.w.WriteHeader(http.StatusNoContent)
}

// Error sends a JSON error response.
//
//	res.Error(http.StatusNotFound, "Record not found.")
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// BadRequest sends 400.
func (res *Response) BadRequest(message ...string) {
	res.JSON(http.StatusBadRequest, envelope{"message": first(message, "Bad Request.")})
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.JSON(http.StatusNotFound, envelope{"message": first(message, "Not found.")})
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	res.JSON(http.StatusInternalServerError, envelope{"message": first(message, "Server Error.")})
}

// ValidationError sends 422 with the error bag.
//
//	res.ValidationError(errs)
func (res *Response) ValidationError(errs *validation.Errors) {
	res.JSON(http.StatusUnprocessableEntity, errs)
}

// ── Problems ─────────────────────────────────────────────────────────────────

// Problem sends 500 naming the kind of failure to build or find a service:
//
//	{"message": "Server Error.", "kind": "unresolvable_parameter"}
//
// The error text stays out of the body; it may carry file paths.
func (res *Response) Problem(err error) {
	res.JSON(http.StatusInternalServerError, envelope{
		"message": "Server Error.",
		"kind":    ProblemKind(err),
	})
}

// DebugProblem is Problem with the error text added under "error", for
// APP_DEBUG deployments.
func (res *Response) DebugProblem(err error) {
	res.JSON(http.StatusInternalServerError, envelope{
		"message": "Server Error.",
		"kind":    ProblemKind(err),
		"error":   err.Error(),
	})
}

// ProblemKind names the class of err for Problem bodies and logs.
func ProblemKind(err error) string {
	var (
		classNotFound *autowire.ClassNotFoundError
		options       *autowire.UnexpectedOptionsError
		configType    *autowire.InvalidConfigTypeError
		unresolvable  *autowire.UnresolvableParameterError
		directive     *autowire.DirectiveValidationError
		argument      *autowire.ArgumentTypeError
		definition    *autowire.DefinitionError
		notFound      *container.NotFoundError
		notLocator    *container.NotLocatorError
		mismatch      *container.TypeMismatchError
	)
	switch {
	case errors.As(err, &classNotFound):
		return "class_not_found"
	case errors.As(err, &options):
		return "unexpected_options"
	case errors.As(err, &configType):
		return "invalid_config_type"
	case errors.As(err, &unresolvable):
		return "unresolvable_parameter"
	case errors.As(err, &directive):
		return "invalid_directive"
	case errors.As(err, &argument):
		return "argument_type"
	case errors.As(err, &definition):
		return "definition"
	case errors.As(err, &notFound):
		return "service_not_found"
	case errors.As(err, &notLocator):
		return "not_a_container"
	case errors.As(err, &mismatch):
		return "type_mismatch"
	case errors.Is(err, fs.ErrNotExist):
		return "config_missing"
	default:
		return "internal"
	}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
