package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.NotZero(t, c.Len())

	first, ok := c.FindByID(1)
	require.True(t, ok)
	assert.Equal(t, "Community Garden Cleanup", first.Title)

	_, ok = c.FindByID(9999)
	assert.False(t, ok)
}

func TestFromJSONRejectsDuplicateIDs(t *testing.T) {
	data := []byte(`[{"id": 1, "title": "a"}, {"id": 1, "title": "b"}]`)
	_, err := FromJSON(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate opportunity id")
}

func TestDay(t *testing.T) {
	o := Opportunity{Date: "2026-09-12"}
	day, ok := o.Day()
	require.True(t, ok)
	assert.Equal(t, "2026-09-12", day.Format("2006-01-02"))

	flexible := Opportunity{}
	_, ok = flexible.Day()
	assert.False(t, ok)

	garbage := Opportunity{Date: "next tuesday"}
	_, ok = garbage.Day()
	assert.False(t, ok)
}

func TestDayKeepsCalendarDateOfOffsetTimestamps(t *testing.T) {
	// 01:00 at +05:00 is the previous day in UTC; the calendar date of the
	// timestamp itself is what counts.
	o := Opportunity{Date: "2026-09-12T01:00:00+05:00"}
	day, ok := o.Day()
	require.True(t, ok)
	assert.Equal(t, "2026-09-12", day.Format("2006-01-02"))
}

func TestOverlapIsCaseInsensitive(t *testing.T) {
	o := Opportunity{
		Skills:    []string{"Gardening", "Teamwork"},
		Interests: []string{"Environment", "Community"},
	}

	assert.True(t, o.HasSkill("gardening"))
	assert.True(t, o.HasInterest("ENVIRONMENT"))
	assert.False(t, o.HasInterest("animals"))

	assert.Equal(t, 2, o.InterestOverlap([]string{"environment", "community", "health"}))
	assert.Equal(t, 1, o.SkillOverlap([]string{"TEAMWORK"}))
	assert.Equal(t, 0, o.InterestOverlap(nil))
}

func TestFacets(t *testing.T) {
	c, err := FromJSON([]byte(`[
		{"id": 1, "location": "Park", "skills": ["Teaching"], "interests": ["Education"]},
		{"id": 2, "location": "Park", "skills": ["teaching", "First Aid"], "interests": ["Health"]}
	]`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Park"}, c.Locations())
	assert.Equal(t, []string{"First Aid", "Teaching"}, c.SkillFacets())
	assert.Equal(t, []string{"Education", "Health"}, c.InterestFacets())
}

func TestSummarize(t *testing.T) {
	items := []Opportunity{
		{Title: "Garden", Description: "Plant things", Skills: []string{"Gardening"}},
		{Title: "Tutor", Description: "Teach kids"},
	}

	summary := Summarize(items)
	lines := strings.Split(summary, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1. Garden — Plant things (skills: Gardening)", lines[0])
	assert.Equal(t, "2. Tutor — Teach kids", lines[1])
}
