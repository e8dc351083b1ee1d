package service

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/flextable/internal/domain"
)

// searchText is the haystack a record is matched against.
func searchText(r domain.Record) string {
	return strings.Join([]string{r.Name, r.Owner, string(r.Status), r.TagList(), r.Notes}, " ")
}

// search returns the records whose text fuzzily contains query, best
// matches first. Whitespace separates terms that must all match.
func search(records []domain.Record, query string) []domain.Record {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return records
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = searchText(r)
	}

	// Each term narrows the candidate set; distances add up.
	distance := make(map[int]int, len(records))
	for i := range records {
		distance[i] = 0
	}
	for _, term := range terms {
		matched := make(map[int]int)
		for _, rank := range fuzzy.RankFindFold(term, texts) {
			if d, ok := distance[rank.OriginalIndex]; ok {
				matched[rank.OriginalIndex] = d + rank.Distance
			}
		}
		distance = matched
	}

	idx := make([]int, 0, len(distance))
	for i := range distance {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool {
		da, db := distance[idx[a]], distance[idx[b]]
		if da != db {
			return da < db
		}
		return idx[a] < idx[b]
	})

	out := make([]domain.Record, len(idx))
	for i, j := range idx {
		out[i] = records[j]
	}
	return out
}
