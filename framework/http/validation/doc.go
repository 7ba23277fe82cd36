// Package validation validates decoded request structs and reports failures
// as a field keyed message bag.
//
// Rules are go-playground/validator tags:
//
//	type SearchQuery struct {
//	    Lookfor string `query:"lookfor" validate:"required,max=200"`
//	    Page    int    `query:"page"    validate:"gte=1"`
//	    Type    string `query:"type"    validate:"omitempty,oneof=AllFields Title Author Subject"`
//	}
//
//	errs, err := validation.Struct(&q)
//	if err != nil { ... }          // q could not be validated at all
//	if errs.Has() { ... }          // one or more rules failed
//
// # Error Bag
//
// Field names come from the query, form or json tag. The bag serialises as:
//
//	{
//	  "errors": {
//	    "lookfor": ["The lookfor field is required."],
//	    "page":    ["The page must be greater than or equal to 1."]
//	  }
//	}
package validation
