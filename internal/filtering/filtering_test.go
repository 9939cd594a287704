package filtering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voluntree/voluntree/internal/catalog"
)

func testItems() []catalog.Opportunity {
	return []catalog.Opportunity{
		{
			ID: 1, Title: "Community Garden Cleanup", Description: "Plant seedlings",
			Location: "Riverside Park", Skills: []string{"Gardening"},
			Interests: []string{"Environment"}, Date: "2026-09-12",
		},
		{
			ID: 2, Title: "After-School Tutoring", Description: "Tutor students in math",
			Location: "Lincoln Library", Skills: []string{"Teaching"},
			Interests: []string{"Education"}, Date: "2026-09-15",
		},
		{
			ID: 3, Title: "Dog Walking", Description: "Walk shelter dogs",
			Location: "Westside Shelter", Skills: []string{"Animal Care"},
			Interests: []string{"Animals"},
		},
		{
			ID: 4, Title: "Tree Planting", Description: "Plant native saplings",
			Location: "Riverside Park", Skills: []string{"Gardening", "Physical Work"},
			Interests: []string{"Environment"}, Date: "2026-10-03",
		},
	}
}

func ids(items []catalog.Opportunity) []int {
	result := make([]int, len(items))
	for i, item := range items {
		result[i] = item.ID
	}
	return result
}

func day(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return &parsed
}

func TestRunNoCriteriaKeepsEverything(t *testing.T) {
	items := Run(zap.NewNop(), Filters(Criteria{}), testItems())
	assert.Equal(t, []int{1, 2, 3, 4}, ids(items))
}

func TestSearchMatchesTitleDescriptionAndSkills(t *testing.T) {
	cases := []struct {
		search   string
		expected []int
	}{
		{search: "garden", expected: []int{1, 4}},   // title + skills
		{search: "math", expected: []int{2}},        // description
		{search: "animal care", expected: []int{3}}, // skill entry
		{search: "zzz", expected: []int{}},
	}

	for _, tc := range cases {
		t.Run(tc.search, func(t *testing.T) {
			items := Run(zap.NewNop(), Filters(Criteria{Search: tc.search}), testItems())
			assert.Equal(t, tc.expected, ids(items))
		})
	}
}

func TestLocationIsExactMatch(t *testing.T) {
	items := Run(zap.NewNop(), Filters(Criteria{Location: "Riverside Park"}), testItems())
	assert.Equal(t, []int{1, 4}, ids(items))

	// "all" means unconstrained.
	items = Run(zap.NewNop(), Filters(Criteria{Location: "all"}), testItems())
	assert.Len(t, items, 4)
}

func TestSkillAndInterestAreCaseInsensitive(t *testing.T) {
	items := Run(zap.NewNop(), Filters(Criteria{Skill: "gardening"}), testItems())
	assert.Equal(t, []int{1, 4}, ids(items))

	items = Run(zap.NewNop(), Filters(Criteria{Interest: "ENVIRONMENT"}), testItems())
	assert.Equal(t, []int{1, 4}, ids(items))
}

func TestDateRangeKeepsFlexibleOpportunities(t *testing.T) {
	criteria := Criteria{
		DateFrom: day(t, "2026-09-14"),
		DateTo:   day(t, "2026-09-30"),
	}

	items := Run(zap.NewNop(), Filters(criteria), testItems())

	// Item 2 falls in range; item 3 has no date and always passes.
	assert.Equal(t, []int{2, 3}, ids(items))
}

func TestDateRangeBoundsAreInclusive(t *testing.T) {
	criteria := Criteria{
		DateFrom: day(t, "2026-09-12"),
		DateTo:   day(t, "2026-09-12"),
	}

	items := Run(zap.NewNop(), Filters(criteria), testItems())
	assert.Equal(t, []int{1, 3}, ids(items))
}

func TestFacetsAreConjunctive(t *testing.T) {
	criteria := Criteria{
		Location: "Riverside Park",
		Search:   "saplings",
	}

	items := Run(zap.NewNop(), Filters(criteria), testItems())
	assert.Equal(t, []int{4}, ids(items))
}

func TestRelaxingOneFacetNeverShrinksTheResult(t *testing.T) {
	constrained := Criteria{
		Location: "Riverside Park",
		Interest: "Environment",
		Search:   "plant",
	}
	relaxedVariants := []Criteria{
		{Interest: "Environment", Search: "plant"},
		{Location: "Riverside Park", Search: "plant"},
		{Location: "Riverside Park", Interest: "Environment"},
	}

	base := Run(zap.NewNop(), Filters(constrained), testItems())
	for _, relaxed := range relaxedVariants {
		wider := Run(zap.NewNop(), Filters(relaxed), testItems())
		require.GreaterOrEqual(t, len(wider), len(base))

		// Everything in the constrained result survives relaxation.
		widerIDs := map[int]bool{}
		for _, id := range ids(wider) {
			widerIDs[id] = true
		}
		for _, id := range ids(base) {
			assert.True(t, widerIDs[id])
		}
	}
}

func TestEmptyResultIsValid(t *testing.T) {
	items := Run(zap.NewNop(), Filters(Criteria{Location: "Nowhere"}), testItems())
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestOrderByAffinity(t *testing.T) {
	// Profile overlaps interests of 1 and 4 and the extra skill of 4.
	ordered := OrderByAffinity(testItems(), []string{"environment"}, []string{"Physical Work"})
	assert.Equal(t, []int{4, 1, 2, 3}, ids(ordered))
}

func TestOrderByAffinityStableForTies(t *testing.T) {
	ordered := OrderByAffinity(testItems(), nil, nil)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(ordered))
}

func TestApplyFiltersThenOrders(t *testing.T) {
	items := Apply(zap.NewNop(), Criteria{Interest: "Environment"}, testItems(),
		[]string{"environment"}, []string{"Physical Work"})
	assert.Equal(t, []int{4, 1}, ids(items))
}
