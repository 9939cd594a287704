package catalog

import (
	"strings"
	"time"
)

// dateLayout is the calendar-day format used by catalog records.
const dateLayout = "2006-01-02"

// Opportunity is a single volunteer opportunity. Records are loaded once at
// startup and never mutated afterwards.
type Opportunity struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Organizer   string   `json:"organizer"`
	Skills      []string `json:"skills,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	// Date is the calendar day of the opportunity in YYYY-MM-DD form.
	// An empty or unparseable value means the opportunity is flexible.
	Date      string `json:"date,omitempty"`
	SpotsLeft int    `json:"spots_left,omitempty"`
}

// Day returns the opportunity's calendar day with the time of day stripped.
// The second return value is false when no parseable date is set.
func (o Opportunity) Day() (time.Time, bool) {
	raw := strings.TrimSpace(o.Date)
	if raw == "" {
		return time.Time{}, false
	}

	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		// Tolerate full timestamps from older catalog files. The day is the
		// timestamp's own calendar date; truncating on absolute time would
		// shift dates carrying a non-UTC offset.
		ts, tsErr := time.Parse(time.RFC3339, raw)
		if tsErr != nil {
			return time.Time{}, false
		}
		day = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}

	return day, true
}

// HasSkill reports whether the opportunity lists the skill, case-insensitively.
func (o Opportunity) HasSkill(skill string) bool {
	return containsFold(o.Skills, skill)
}

// HasInterest reports whether the opportunity is tagged with the interest,
// case-insensitively.
func (o Opportunity) HasInterest(interest string) bool {
	return containsFold(o.Interests, interest)
}

// InterestOverlap counts how many of the given interests the opportunity is
// tagged with, case-insensitively.
func (o Opportunity) InterestOverlap(interests []string) int {
	return overlap(o.Interests, interests)
}

// SkillOverlap counts how many of the given skills the opportunity lists,
// case-insensitively.
func (o Opportunity) SkillOverlap(skills []string) int {
	return overlap(o.Skills, skills)
}

func containsFold(list []string, target string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return false
	}
	for _, entry := range list {
		if strings.EqualFold(strings.TrimSpace(entry), target) {
			return true
		}
	}
	return false
}

func overlap(have, want []string) int {
	count := 0
	for _, entry := range want {
		if containsFold(have, entry) {
			count++
		}
	}
	return count
}
