package discovery

import (
	"net/http"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/km-arc/go-discovery/framework/app"
	"github.com/km-arc/go-discovery/framework/config"
)

// searchSpec is one handler of searchspecs.yaml.
type searchSpec struct {
	Fields []string `mapstructure:"fields"`
}

type searchParams struct {
	Lookfor string   `query:"lookfor" validate:"max=200"`
	Type    string   `query:"type" validate:"omitempty,alphanum"`
	Page    int      `query:"page" validate:"gte=1,lte=1000"`
	Limit   int      `query:"limit" validate:"gte=0,lte=100"`
	Filter  []string `query:"filter" validate:"max=20"`
}

// RecordView is a record as rendered in API responses.
type RecordView struct {
	Record
	URL string `json:"url"`
}

// SearchMeta describes a results page.
type SearchMeta struct {
	Catalog string  `json:"catalog"`
	Handler string  `json:"handler"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	Next    string  `json:"next,omitempty"`
	Formats []Topic `json:"formats"`
	Topics  []Topic `json:"topics"`
}

// SearchController answers GET /search.
type SearchController struct {
	app.Controller

	handlers       map[string][]string
	defaultHandler string
	defaultLimit   int
	topicLimit     int

	catalog *Catalog
	topics  *TopicRecommender
	url     *URLHelper
	logger  *zap.Logger
}

// NewSearchController wires the controller from the searches settings, the
// search handler specs, the catalogue, the topic recommender, the URL view
// helper and the logger.
func NewSearchController(
	searches map[string]any,
	specs map[string]any,
	catalog *Catalog,
	topics *TopicRecommender,
	url *URLHelper,
	logger *zap.Logger,
) (*SearchController, error) {
	general := config.NewObject(searches).Section("General")

	var parsed map[string]searchSpec
	if err := mapstructure.Decode(specs, &parsed); err != nil {
		return nil, errors.Wrap(err, "discovery: search specs")
	}
	handlers := make(map[string][]string, len(parsed))
	for name, spec := range parsed {
		if len(spec.Fields) == 0 {
			return nil, errors.Errorf("discovery: search handler %s has no fields", name)
		}
		handlers[name] = spec.Fields
	}

	c := &SearchController{
		handlers:       handlers,
		defaultHandler: general.String("default_handler", "AllFields"),
		defaultLimit:   general.Int("default_limit", 20),
		topicLimit:     general.Int("topic_limit", 5),
		catalog:        catalog,
		topics:         topics,
		url:            url,
		logger:         logger,
	}
	if _, ok := handlers[c.defaultHandler]; !ok {
		return nil, errors.Errorf("discovery: default search handler %s is not in the search specs", c.defaultHandler)
	}
	return c, nil
}

// Handlers lists the configured search handler names.
func (c *SearchController) Handlers() []string {
	out := make([]string, 0, len(c.handlers))
	for name := range c.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (c *SearchController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	p := searchParams{Page: 1}
	errs, err := req.BindValid(&p)
	if err != nil {
		res.BadRequest(err.Error())
		return
	}
	var filters []Filter
	for _, f := range p.Filter {
		filter, ok := ParseFilter(f)
		if !ok {
			errs.Add("filter", "The filter "+f+" must look like field:value.")
			continue
		}
		filters = append(filters, filter)
	}
	if errs.Has() {
		res.ValidationError(errs)
		return
	}

	handler := p.Type
	if handler == "" {
		handler = c.defaultHandler
	}
	fields, ok := c.handlers[handler]
	if !ok {
		res.BadRequest("Unknown search type " + handler + ".")
		return
	}
	limit := p.Limit
	if limit == 0 {
		limit = c.defaultLimit
	}
	limit = min(limit, c.catalog.MaxResults())

	q := Query{Lookfor: p.Lookfor, Fields: fields, Filters: filters, Offset: (p.Page - 1) * limit, Limit: limit}
	result := c.catalog.Search(q)

	items := make([]RecordView, len(result.Records))
	for i, rec := range result.Records {
		items[i] = RecordView{Record: rec, URL: c.url.Record(rec.ID)}
	}
	meta := SearchMeta{
		Catalog: c.catalog.Name(),
		Handler: handler,
		Total:   result.Total,
		Page:    p.Page,
		Limit:   limit,
		Formats: c.catalog.Facet(q, "format"),
		Topics:  c.topics.Recommend(result.Records, p.Lookfor, c.topicLimit),
	}
	if q.Offset+len(result.Records) < result.Total {
		// the next page keeps an explicit limit so its offset lines up
		nextLimit := 0
		if p.Limit != 0 {
			nextLimit = limit
		}
		meta.Next = c.url.Search(p.Lookfor, p.Type, p.Page+1, nextLimit, p.Filter)
	}

	c.logger.Debug("search",
		zap.String("lookfor", p.Lookfor),
		zap.String("handler", handler),
		zap.Int("total", result.Total),
		zap.Int("page", p.Page))
	res.Paginated(items, meta)
}
