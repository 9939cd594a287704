// Package profile holds the user's self-declared attributes that drive
// personalization: interests, skills and a short story.
package profile

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultName is substituted when the stored or submitted name is blank.
	DefaultName = "Volunteer"
	// MaxStoryLength bounds the story field, in code points.
	MaxStoryLength = 280
)

// defaultInterests seeds a fresh profile so recommendations have something
// to rank on before the user fills anything in.
var defaultInterests = []string{"environment"}

var validate = validator.New()

// Profile is the mutable per-user record. Interests and skills are ordered,
// deduplicated case-insensitively with first-seen casing preserved.
type Profile struct {
	Name      string   `json:"name" mapstructure:"name"`
	Email     string   `json:"email,omitempty" mapstructure:"email" validate:"omitempty,email"`
	Password  string   `json:"password,omitempty" mapstructure:"password"`
	Story     string   `json:"story,omitempty" mapstructure:"story"`
	Interests []string `json:"interests" mapstructure:"interests"`
	Skills    []string `json:"skills" mapstructure:"skills"`
}

// Default returns the well-defined fallback profile.
func Default() Profile {
	return Profile{
		Name:      DefaultName,
		Interests: append([]string(nil), defaultInterests...),
		Skills:    []string{},
	}
}

// Validate checks the fields that block submission when malformed. Currently
// only the email format is contractually required; everything else is
// repaired by Normalize instead.
func (p Profile) Validate() error {
	return validate.Struct(p)
}

// Normalize repairs the profile in place: blank name falls back to the
// default, the story is bounded to MaxStoryLength code points, and the
// interest and skill lists are deduplicated.
func (p *Profile) Normalize() {
	if strings.TrimSpace(p.Name) == "" {
		p.Name = DefaultName
	}

	if runes := []rune(p.Story); len(runes) > MaxStoryLength {
		p.Story = string(runes[:MaxStoryLength])
	}

	p.Interests = dedupe(p.Interests)
	p.Skills = dedupe(p.Skills)
}

// AddInterest appends the interest unless an equivalent entry already exists.
// Matching is case-insensitive; the original casing of the first entry wins.
func (p *Profile) AddInterest(interest string) bool {
	added, list := appendUnique(p.Interests, interest)
	p.Interests = list
	return added
}

// AddSkill appends the skill with the same dedup rule as AddInterest.
func (p *Profile) AddSkill(skill string) bool {
	added, list := appendUnique(p.Skills, skill)
	p.Skills = list
	return added
}

func appendUnique(list []string, value string) (bool, []string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, list
	}
	for _, entry := range list {
		if strings.EqualFold(strings.TrimSpace(entry), value) {
			return false, list
		}
	}
	return true, append(list, value)
}

func dedupe(list []string) []string {
	result := make([]string, 0, len(list))
	for _, entry := range list {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		_, result = appendUnique(result, entry)
	}
	return result
}
