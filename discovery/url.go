package discovery

import (
	"net/url"
	"strconv"
	"strings"
)

// URLHelper builds links into the discovery API. It is a view helper and
// lives in the "view.helpers" sub-container.
type URLHelper struct {
	base string
}

// NewURLHelper creates a helper rooted at base, e.g. "http://localhost:8000/api".
func NewURLHelper(base string) *URLHelper {
	return &URLHelper{base: strings.TrimRight(base, "/")}
}

// Record links to a single record.
func (u *URLHelper) Record(id string) string {
	return u.base + "/records/" + url.PathEscape(id)
}

// Search links to a results page. Empty values are left out, as are the
// first page and a zero limit.
func (u *URLHelper) Search(lookfor, handler string, page, limit int, filters []string) string {
	v := url.Values{}
	if lookfor != "" {
		v.Set("lookfor", lookfor)
	}
	if handler != "" {
		v.Set("type", handler)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	for _, f := range filters {
		v.Add("filter", f)
	}
	if len(v) == 0 {
		return u.base + "/search"
	}
	return u.base + "/search?" + v.Encode()
}
