package discovery

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/km-arc/go-discovery/framework/config"
)

// Record is one catalogue entry.
type Record struct {
	ID       string   `config:"id" json:"id" validate:"required"`
	Title    string   `config:"title" json:"title" validate:"required"`
	Author   string   `config:"author" json:"author,omitempty"`
	Year     int      `config:"year" json:"year,omitempty"`
	Format   string   `config:"format" json:"format,omitempty"`
	Language string   `config:"language" json:"language,omitempty"`
	Subjects []string `config:"subjects" json:"subjects,omitempty"`
}

// values returns the record's text for a searchable field.
func (r Record) values(field string) []string {
	switch field {
	case "id":
		return []string{r.ID}
	case "title":
		return []string{r.Title}
	case "author":
		return []string{r.Author}
	case "year":
		if r.Year == 0 {
			return nil
		}
		return []string{strconv.Itoa(r.Year)}
	case "format":
		return []string{r.Format}
	case "language":
		return []string{r.Language}
	case "subject", "subjects":
		return r.Subjects
	}
	return nil
}

// CatalogSettings is the [Catalog] section of catalog.env.
type CatalogSettings struct {
	Name       string `config:"name" validate:"required"`
	MaxResults int    `config:"max_results" validate:"gte=1"`
}

// Filter restricts results to records whose Field equals Value, ignoring case.
type Filter struct {
	Field string
	Value string
}

// ParseFilter splits "field:value".
func ParseFilter(s string) (Filter, bool) {
	field, value, ok := strings.Cut(s, ":")
	if !ok || field == "" || value == "" {
		return Filter{}, false
	}
	return Filter{Field: field, Value: value}, true
}

// Query is a catalogue search.
type Query struct {
	Lookfor string
	Fields  []string // searched fields, all when empty
	Filters []Filter
	Offset  int
	Limit   int
}

// Result is one page of matches.
type Result struct {
	Total   int
	Records []Record
}

// Catalog is an in-memory record store. It is read-only once built.
type Catalog struct {
	settings CatalogSettings
	records  []Record
	byID     map[string]int
}

// NewCatalog builds the catalogue from its settings object and the records
// YAML document ({"records": [...]}).
func NewCatalog(cfg *config.Object, data map[string]any) (*Catalog, error) {
	var settings CatalogSettings
	if err := cfg.Section("Catalog").Decode(&settings); err != nil {
		return nil, errors.Wrap(err, "discovery: catalog settings")
	}

	var doc struct {
		Records []Record `config:"records" validate:"dive"`
	}
	if err := config.NewObject(data).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "discovery: catalog records")
	}

	c := &Catalog{
		settings: settings,
		records:  doc.Records,
		byID:     make(map[string]int, len(doc.Records)),
	}
	for i, r := range doc.Records {
		if _, dup := c.byID[r.ID]; dup {
			return nil, errors.Errorf("discovery: duplicate record id %q", r.ID)
		}
		c.byID[r.ID] = i
	}
	return c, nil
}

// Name is the configured catalogue name.
func (c *Catalog) Name() string { return c.settings.Name }

// MaxResults is the largest page Search returns.
func (c *Catalog) MaxResults() int { return c.settings.MaxResults }

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// Get returns the record with the given id.
func (c *Catalog) Get(id string) (Record, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Search returns one page of matching records in catalogue order. Every
// lookfor term must occur in one of the searched fields. Limit is capped at
// MaxResults.
func (c *Catalog) Search(q Query) Result {
	hits := c.match(q)

	limit := q.Limit
	if limit <= 0 || limit > c.settings.MaxResults {
		limit = c.settings.MaxResults
	}
	res := Result{Total: len(hits)}
	if q.Offset < 0 || q.Offset >= len(hits) {
		return res
	}
	end := min(q.Offset+limit, len(hits))
	res.Records = hits[q.Offset:end]
	return res
}

func (c *Catalog) match(q Query) []Record {
	terms := strings.Fields(strings.ToLower(q.Lookfor))
	fields := q.Fields
	if len(fields) == 0 {
		fields = []string{"title", "author", "subjects", "format", "language", "year"}
	}

	var hits []Record
	for _, r := range c.records {
		if matchesFilters(r, q.Filters) && matchesTerms(r, fields, terms) {
			hits = append(hits, r)
		}
	}
	return hits
}

// Facet counts the values of field across every record matching q,
// ignoring paging. Counts are sorted descending, then by value.
func (c *Catalog) Facet(q Query, field string) []Topic {
	counts := map[string]int{}
	for _, r := range c.match(q) {
		for _, v := range r.values(field) {
			if v != "" {
				counts[v]++
			}
		}
	}
	return rank(counts, 0)
}

func matchesTerms(r Record, fields, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	var text strings.Builder
	for _, f := range fields {
		for _, v := range r.values(f) {
			text.WriteString(strings.ToLower(v))
			text.WriteByte(' ')
		}
	}
	haystack := text.String()
	for _, t := range terms {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}

func matchesFilters(r Record, filters []Filter) bool {
	for _, f := range filters {
		found := false
		for _, v := range r.values(f.Field) {
			if strings.EqualFold(v, f.Value) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// rank orders counts descending, then by name, keeping at most limit
// entries when limit is positive.
func rank(counts map[string]int, limit int) []Topic {
	out := make([]Topic, 0, len(counts))
	for name, n := range counts {
		out = append(out, Topic{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
