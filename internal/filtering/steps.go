package filtering

import (
	"strings"
	"time"

	"github.com/voluntree/voluntree/internal/catalog"
)

type searchFilter struct {
	text string
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) Enabled() bool { return f.text != "" }

// Apply keeps opportunities whose title, description or any skill contains
// the search text, case-insensitively.
func (f *searchFilter) Apply(items []catalog.Opportunity) []catalog.Opportunity {
	needle := strings.ToLower(f.text)

	return keep(items, func(o catalog.Opportunity) bool {
		if strings.Contains(strings.ToLower(o.Title), needle) {
			return true
		}
		if strings.Contains(strings.ToLower(o.Description), needle) {
			return true
		}
		for _, skill := range o.Skills {
			if strings.Contains(strings.ToLower(skill), needle) {
				return true
			}
		}
		return false
	})
}

type locationFilter struct {
	location string
}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) Enabled() bool { return f.location != "" && !strings.EqualFold(f.location, "all") }

func (f *locationFilter) Apply(items []catalog.Opportunity) []catalog.Opportunity {
	return keep(items, func(o catalog.Opportunity) bool {
		return o.Location == f.location
	})
}

type skillFilter struct {
	skill string
}

func (f *skillFilter) Name() string { return "skill" }

func (f *skillFilter) Enabled() bool { return f.skill != "" && !strings.EqualFold(f.skill, "all") }

func (f *skillFilter) Apply(items []catalog.Opportunity) []catalog.Opportunity {
	return keep(items, func(o catalog.Opportunity) bool {
		return o.HasSkill(f.skill)
	})
}

type interestFilter struct {
	interest string
}

func (f *interestFilter) Name() string { return "interest" }

func (f *interestFilter) Enabled() bool { return f.interest != "" && !strings.EqualFold(f.interest, "all") }

func (f *interestFilter) Apply(items []catalog.Opportunity) []catalog.Opportunity {
	return keep(items, func(o catalog.Opportunity) bool {
		return o.HasInterest(f.interest)
	})
}

type dateRangeFilter struct {
	from *time.Time
	to   *time.Time
}

func (f *dateRangeFilter) Name() string { return "date_range" }

func (f *dateRangeFilter) Enabled() bool { return f.from != nil || f.to != nil }

// Apply bounds the opportunity's calendar day to [from, to] inclusive.
// Opportunities without a parseable date are flexible and always pass.
func (f *dateRangeFilter) Apply(items []catalog.Opportunity) []catalog.Opportunity {
	return keep(items, func(o catalog.Opportunity) bool {
		day, ok := o.Day()
		if !ok {
			return true
		}
		if f.from != nil && day.Before(*f.from) {
			return false
		}
		if f.to != nil && day.After(*f.to) {
			return false
		}
		return true
	})
}

func keep(items []catalog.Opportunity, match func(catalog.Opportunity) bool) []catalog.Opportunity {
	result := make([]catalog.Opportunity, 0, len(items))
	for _, item := range items {
		if match(item) {
			result = append(result, item)
		}
	}
	return result
}
