package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestRankerParsesIndices(t *testing.T) {
	stub := &stubGenerator{response: "```json\n[3, 1]\n```"}
	ranker := NewRanker(stub, 0, zap.NewNop())

	indices, err := ranker.RankIndices(context.Background(), []string{"environment"}, "1. A\n2. B\n3. C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(indices) != 2 || indices[0] != 3 || indices[1] != 1 {
		t.Fatalf("unexpected indices: %v", indices)
	}

	if !strings.Contains(stub.lastPrompt, "Interests: environment") {
		t.Fatalf("expected interests in prompt, got: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "2. B") {
		t.Fatalf("expected summary in prompt")
	}
}

func TestRankerPropagatesGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	ranker := NewRanker(stub, 0, zap.NewNop())

	if _, err := ranker.RankIndices(context.Background(), []string{"x"}, "1. A"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRankerRejectsNonArrayResponse(t *testing.T) {
	stub := &stubGenerator{response: "I think the garden one is best."}
	ranker := NewRanker(stub, 0, zap.NewNop())

	if _, err := ranker.RankIndices(context.Background(), []string{"x"}, "1. A"); err == nil {
		t.Fatal("expected error")
	}
}

func TestProviderName(t *testing.T) {
	ranker := NewRanker(&stubGenerator{}, 0, nil)
	if ranker.Provider() != "gemini" {
		t.Fatalf("unexpected provider: %s", ranker.Provider())
	}
}
