package ranking

import (
	"sort"

	"github.com/voluntree/voluntree/internal/catalog"
)

// scoreLocally orders the catalog by descending interest overlap with the
// profile. The sort is stable, so ties keep the original catalog order, and
// the full catalog is returned rather than a truncated subset.
func scoreLocally(interests []string, items []catalog.Opportunity) []catalog.Opportunity {
	scored := append([]catalog.Opportunity(nil), items...)

	scores := make([]int, len(scored))
	for i, item := range scored {
		scores[i] = item.InterestOverlap(interests)
	}

	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	result := make([]catalog.Opportunity, len(scored))
	for i, idx := range order {
		result[i] = scored[idx]
	}
	return result
}
