package discovery

import "strings"

// Topic is a subject heading with the number of records carrying it.
type Topic struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopicRecommender suggests subject headings to explore from a result set.
// It holds no state; the zero value is ready to use.
type TopicRecommender struct{}

// Recommend returns up to limit subjects found in records, most frequent
// first. Subjects equal to the search terms themselves are skipped.
func (t *TopicRecommender) Recommend(records []Record, lookfor string, limit int) []Topic {
	counts := map[string]int{}
	for _, r := range records {
		for _, s := range r.Subjects {
			if s == "" || equalFold(s, lookfor) {
				continue
			}
			counts[s]++
		}
	}
	return rank(counts, limit)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
