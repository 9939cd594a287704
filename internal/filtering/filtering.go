// Package filtering narrows the catalog by user-chosen facets and orders
// the survivors by affinity with the current profile.
package filtering

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/voluntree/voluntree/internal/catalog"
)

// Criteria holds the facet selections. Every field is independently
// optional: the zero value constrains nothing.
type Criteria struct {
	Search   string
	Location string
	Skill    string
	Interest string
	// DateFrom and DateTo bound the opportunity's calendar day, inclusive.
	DateFrom *time.Time
	DateTo   *time.Time
}

// Filter represents a single facet applied to the opportunity list.
type Filter interface {
	Name() string
	Enabled() bool
	Apply(items []catalog.Opportunity) []catalog.Opportunity
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Filters builds the facet steps for the given criteria. Disabled steps are
// kept in the list so Run can report them.
func Filters(c Criteria) []Filter {
	return []Filter{
		&searchFilter{text: strings.TrimSpace(c.Search)},
		&locationFilter{location: strings.TrimSpace(c.Location)},
		&skillFilter{skill: strings.TrimSpace(c.Skill)},
		&interestFilter{interest: strings.TrimSpace(c.Interest)},
		&dateRangeFilter{from: c.DateFrom, to: c.DateTo},
	}
}

// Run executes the supplied filters sequentially. An empty result is a valid
// terminal state, not an error.
func Run(logger *zap.Logger, steps []Filter, items []catalog.Opportunity) []catalog.Opportunity {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.Enabled() {
			continue
		}

		initial := len(items)
		items = step.Apply(items)

		logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", initial),
			zap.Int("dropped", initial-len(items)),
			zap.Int("left", len(items)),
		)
	}

	return items
}

// Apply is the whole filter pass: facet steps, then affinity ordering
// against the profile's interests and skills.
func Apply(logger *zap.Logger, c Criteria, items []catalog.Opportunity, interests, skills []string) []catalog.Opportunity {
	return OrderByAffinity(Run(logger, Filters(c), items), interests, skills)
}
