package discovery

import (
	"net/http"

	"github.com/km-arc/go-discovery/framework/app"
)

// RecordController answers GET /records/{id}.
type RecordController struct {
	app.Controller
	catalog *Catalog
	url     *URLHelper
}

func NewRecordController(catalog *Catalog, url *URLHelper) *RecordController {
	return &RecordController{catalog: catalog, url: url}
}

func (c *RecordController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	rec, ok := c.catalog.Get(req.RouteParam("id"))
	if !ok {
		res.NotFound("Record not found.")
		return
	}
	res.Success(RecordView{Record: rec, URL: c.url.Record(rec.ID)})
}

// HealthController answers GET /health. It has no dependencies.
type HealthController struct {
	app.Controller
}

func (c *HealthController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.Response(w).Success(map[string]string{"status": "ok"})
}
