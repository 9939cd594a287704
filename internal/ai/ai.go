// Package ai defines the provider-neutral contract for remote ranking and
// the response parsing shared by its implementations.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// SystemPrompt is the ranking instruction sent ahead of the user content.
const SystemPrompt = "You rank volunteer opportunities for a user. " +
	"Given the user's interests and a numbered list of opportunities, respond with only a JSON array " +
	"of the 1-based opportunity numbers, ordered from most to least relevant. " +
	"Include only relevant opportunities. Respond with [] if none are relevant."

// Ranker produces a relevance ordering of catalog positions. The returned
// indices are 1-based; implementations must treat any response they cannot
// parse as an error.
type Ranker interface {
	RankIndices(ctx context.Context, interests []string, summary string) ([]int, error)
	Provider() string
}

// UserPrompt renders the user-role content for a ranking request.
func UserPrompt(interests []string, summary string) string {
	return fmt.Sprintf("Interests: %s\n\nOpportunities:\n%s", strings.Join(interests, ", "), summary)
}

// ParseIndexList extracts the ranked index array from a provider response.
// Providers wrap arrays in code fences or an extra layer of JSON string
// quoting; both are tolerated. Anything else fails.
func ParseIndexList(raw string) ([]int, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty ranking response")
	}

	var indices []int
	if err := json.Unmarshal([]byte(cleaned), &indices); err == nil {
		return indices, nil
	}

	// Secondary parse: the array arrived as a JSON-encoded string.
	var text string
	if err := json.Unmarshal([]byte(cleaned), &text); err == nil {
		text = stripFences(text)
		if err := json.Unmarshal([]byte(text), &indices); err == nil {
			return indices, nil
		}
	}

	return nil, fmt.Errorf("ranking response is not an index array: %q", cleaned)
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
