package filtering

import (
	"sort"

	"github.com/voluntree/voluntree/internal/catalog"
)

// OrderByAffinity sorts the items by descending interest overlap with the
// profile, then descending skill overlap, keeping the incoming (catalog)
// order for ties. The input slice is not modified.
func OrderByAffinity(items []catalog.Opportunity, interests, skills []string) []catalog.Opportunity {
	ordered := append([]catalog.Opportunity(nil), items...)

	type affinity struct {
		interests int
		skills    int
	}
	scores := make([]affinity, len(ordered))
	for i, item := range ordered {
		scores[i] = affinity{
			interests: item.InterestOverlap(interests),
			skills:    item.SkillOverlap(skills),
		}
	}

	order := make([]int, len(ordered))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if sa.interests != sb.interests {
			return sa.interests > sb.interests
		}
		return sa.skills > sb.skills
	})

	result := make([]catalog.Opportunity, len(ordered))
	for i, idx := range order {
		result[i] = ordered[idx]
	}
	return result
}
