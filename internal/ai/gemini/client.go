// Package gemini implements the ranking provider backed by the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/voluntree/voluntree/internal/ai"
	"github.com/voluntree/voluntree/internal/util"
)

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxLogLen = 200
)

// Generator wraps the Google GenAI client to provide simple prompt-based
// interactions.
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{client: client, modelName: model}, nil
}

// GenerateContent sends the prompt to Gemini and returns the joined textual
// response.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Ranker adapts a Generator to the ai.Ranker contract.
type Ranker struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewRanker builds a Ranker on top of the given generator.
func NewRanker(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Ranker {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLen
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Ranker{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (r *Ranker) Provider() string { return "gemini" }

// RankIndices prompts Gemini for a relevance permutation of the summarized
// opportunities.
func (r *Ranker) RankIndices(ctx context.Context, interests []string, summary string) ([]int, error) {
	prompt := ai.SystemPrompt + "\n\n" + ai.UserPrompt(interests, summary)

	r.logger.Debug("gemini ranking request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini ranking response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, r.maxLogLen)),
	)

	return ai.ParseIndexList(raw)
}
