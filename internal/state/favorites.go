package state

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NormalizeID collapses the different spellings of an opportunity id into a
// single identity: numeric values and numeric strings become int, anything
// else stays a trimmed string. "3" and 3 are the same favorite.
func NormalizeID(v any) any {
	switch id := v.(type) {
	case int:
		return id
	case int64:
		return int(id)
	case float64:
		if id == float64(int(id)) {
			return int(id)
		}
		return fmt.Sprintf("%v", id)
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return int(n)
		}
		return id.String()
	case string:
		trimmed := strings.TrimSpace(id)
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n
		}
		return trimmed
	default:
		return fmt.Sprintf("%v", id)
	}
}

// Favorites is the set of opportunity ids the user has starred. Membership is
// defined over normalized ids; insertion order carries no meaning.
type Favorites struct {
	ids map[string]any
}

// NewFavorites returns an empty set.
func NewFavorites() *Favorites {
	return &Favorites{ids: make(map[string]any)}
}

// FavoritesFromJSON rebuilds the set from its stored form. Corrupt data
// yields an empty set, never an error.
func FavoritesFromJSON(raw []byte) *Favorites {
	f := NewFavorites()
	if len(raw) == 0 {
		return f
	}

	var entries []any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return NewFavorites()
	}

	for _, entry := range entries {
		f.add(NormalizeID(entry))
	}
	return f
}

// Has reports membership for the normalized form of v.
func (f *Favorites) Has(v any) bool {
	_, ok := f.ids[keyFor(NormalizeID(v))]
	return ok
}

// Toggle flips membership and reports whether the id was added.
func (f *Favorites) Toggle(v any) bool {
	id := NormalizeID(v)
	key := keyFor(id)
	if _, ok := f.ids[key]; ok {
		delete(f.ids, key)
		return false
	}
	f.ids[key] = id
	return true
}

func (f *Favorites) Len() int {
	return len(f.ids)
}

// List returns the normalized ids in a stable order: numeric ids ascending,
// then string ids lexicographically.
func (f *Favorites) List() []any {
	var numbers []int
	var strs []string
	for _, id := range f.ids {
		switch v := id.(type) {
		case int:
			numbers = append(numbers, v)
		case string:
			strs = append(strs, v)
		}
	}
	sort.Ints(numbers)
	sort.Strings(strs)

	result := make([]any, 0, len(numbers)+len(strs))
	for _, n := range numbers {
		result = append(result, n)
	}
	for _, s := range strs {
		result = append(result, s)
	}
	return result
}

// MarshalJSON persists the set as an array of normalized ids.
func (f *Favorites) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.List())
}

func (f *Favorites) add(id any) {
	f.ids[keyFor(id)] = id
}

func keyFor(id any) string {
	switch v := id.(type) {
	case int:
		return "n:" + strconv.Itoa(v)
	case string:
		return "s:" + v
	default:
		return fmt.Sprintf("s:%v", v)
	}
}
