// Package catalog holds the static list of volunteer opportunities the rest
// of the application ranks, filters and favorites. The catalog is loaded once
// and treated as read-only; engines copy the item slice before reordering.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed opportunities.json
var seedData []byte

// Catalog is the immutable, ordered set of opportunities.
type Catalog struct {
	items []Opportunity
}

// Default returns the catalog built from the embedded seed data.
func Default() (*Catalog, error) {
	return FromJSON(seedData)
}

// FromFile loads a catalog from a JSON file on disk.
func FromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return FromJSON(data)
}

// FromJSON parses catalog records and verifies id uniqueness.
func FromJSON(data []byte) (*Catalog, error) {
	var items []Opportunity
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			return nil, fmt.Errorf("duplicate opportunity id %d", item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	return &Catalog{items: items}, nil
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns the catalog entries in load order. Callers must not mutate
// the returned slice; copy before sorting.
func (c *Catalog) Items() []Opportunity {
	return c.items
}

// FindByID returns the opportunity with the given id.
func (c *Catalog) FindByID(id int) (Opportunity, bool) {
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return Opportunity{}, false
}

// Locations returns the distinct locations across the catalog, sorted.
func (c *Catalog) Locations() []string {
	return c.distinct(func(o Opportunity) []string {
		if strings.TrimSpace(o.Location) == "" {
			return nil
		}
		return []string{o.Location}
	})
}

// SkillFacets returns the distinct skill labels across the catalog, sorted.
func (c *Catalog) SkillFacets() []string {
	return c.distinct(func(o Opportunity) []string { return o.Skills })
}

// InterestFacets returns the distinct interest labels across the catalog, sorted.
func (c *Catalog) InterestFacets() []string {
	return c.distinct(func(o Opportunity) []string { return o.Interests })
}

// distinct collects values case-insensitively, preserving first-seen casing.
func (c *Catalog) distinct(pick func(Opportunity) []string) []string {
	seen := make(map[string]string)
	for _, item := range c.items {
		for _, value := range pick(item) {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			key := strings.ToLower(value)
			if _, ok := seen[key]; !ok {
				seen[key] = value
			}
		}
	}

	values := make([]string, 0, len(seen))
	for _, value := range seen {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

// Summarize renders the opportunities as the numbered textual digest sent to
// ranking providers. Positions are 1-based to match the provider contract.
func Summarize(items []Opportunity) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s — %s", i+1, item.Title, item.Description)
		if len(item.Skills) > 0 {
			fmt.Fprintf(&b, " (skills: %s)", strings.Join(item.Skills, ", "))
		}
	}
	return b.String()
}
