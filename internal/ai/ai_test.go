package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndexList(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected []int
	}{
		{name: "plain array", raw: "[3, 1, 2]", expected: []int{3, 1, 2}},
		{name: "fenced", raw: "```json\n[2, 1]\n```", expected: []int{2, 1}},
		{name: "quoted array", raw: `"[1, 2]"`, expected: []int{1, 2}},
		{name: "empty array", raw: "[]", expected: []int{}},
		{name: "surrounding whitespace", raw: "  [1]  ", expected: []int{1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseIndexList(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseIndexListFailures(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json", `{"a": 1}`, `"still text"`} {
		if _, err := ParseIndexList(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestUserPrompt(t *testing.T) {
	prompt := UserPrompt([]string{"environment", "animals"}, "1. Garden")
	assert.Contains(t, prompt, "Interests: environment, animals")
	assert.Contains(t, prompt, "Opportunities:\n1. Garden")
}
