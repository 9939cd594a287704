package profile

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"
)

// stringFields names the stored string keys that are repaired independently:
// a field of the wrong shape is dropped (falling back to the default) without
// discarding the rest of the record.
var stringFields = []string{"name", "email", "password", "story"}

// Rehydrate rebuilds a profile from its stored JSON representation. It never
// fails: unreadable data yields the default profile, and partially corrupt
// records are repaired field by field.
func Rehydrate(raw []byte) Profile {
	p := Default()
	if len(raw) == 0 {
		return p
	}

	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return p
	}

	repaired := make(map[string]any, len(loose))
	for _, key := range stringFields {
		if value, ok := loose[key].(string); ok {
			repaired[key] = value
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &p,
		TagName: "mapstructure",
	})
	if err != nil {
		return Default()
	}
	if err := decoder.Decode(repaired); err != nil {
		return Default()
	}

	// mapstructure leaves a pre-populated destination slice untouched when
	// the source list is empty, which would turn a deliberately cleared list
	// back into the default. Lists are assigned directly instead.
	if list, ok := stringList(loose["interests"]); ok {
		p.Interests = list
	}
	if list, ok := stringList(loose["skills"]); ok {
		p.Skills = list
	}

	p.Normalize()
	return p
}

// stringList accepts only a sequence whose entries are all strings. Anything
// else (a bare string included) is treated as corrupt.
func stringList(v any) ([]string, bool) {
	entries, ok := v.([]any)
	if !ok {
		return nil, false
	}

	list := make([]string, 0, len(entries))
	for _, entry := range entries {
		s, ok := entry.(string)
		if !ok {
			return nil, false
		}
		list = append(list, s)
	}
	return list, true
}
