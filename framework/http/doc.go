// Package http provides request and response helpers for JSON handlers.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	// Decode and validate a query struct
//	var q struct {
//	    Lookfor string `query:"lookfor" validate:"required"`
//	    Page    int    `query:"page"    validate:"gte=1"`
//	}
//	errs, err := req.BindValid(&q)
//
//	// Single values
//	page := req.QueryInt("page", 1)
//	id   := req.RouteParam("id")
//	tok  := req.BearerToken()
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.Success(data)             // 200 {"data": ...}
//	res.Paginated(data, meta)     // 200 {"data": ..., "meta": ...}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.ValidationError(errs)     // 422 {"errors": {"field": ["msg"]}}
//	res.Problem(err)              // 500 {"message", "kind", "error"}
//
// Problem recognises the container and autowire error types and reports
// them by kind, for example "unresolvable_parameter" or "service_not_found".
package http
