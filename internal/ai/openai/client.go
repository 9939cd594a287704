// Package openai implements the chat-completions ranking provider.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/voluntree/voluntree/internal/ai"
	"github.com/voluntree/voluntree/internal/util"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultMaxTokens   = 200
	defaultTemperature = 0.0
	defaultTimeout     = 30 * time.Second
	defaultMaxLogLen   = 200

	retryDelay = 2 * time.Second
)

// Config carries the provider settings resolved from the application config.
type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	MaxTokens    int
	Temperature  float64
	MaxRetries   int
	Timeout      time.Duration
	MaxLogLength int
}

// Client talks to a chat-completions compatible endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	maxRetries  int
	maxLogLen   int
	logger      *zap.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// New creates a ranking client for the configured endpoint.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("openai base url is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	temperature := cfg.Temperature
	if temperature < 0 {
		temperature = defaultTemperature
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLen
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		maxRetries:  cfg.MaxRetries,
		maxLogLen:   maxLogLen,
		logger:      logger,
	}, nil
}

func (c *Client) Provider() string { return "openai" }

// RankIndices asks the endpoint for a relevance permutation of the
// summarized opportunities.
func (c *Client) RankIndices(ctx context.Context, interests []string, summary string) ([]int, error) {
	prompt := ai.UserPrompt(interests, summary)

	c.logger.Debug("ranking request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, c.maxLogLen)),
	)

	var content string
	var err error
	for attempt := 0; ; attempt++ {
		content, err = c.complete(ctx, prompt)
		if err == nil || attempt >= c.maxRetries {
			break
		}

		c.logger.Warn("ranking request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		if waitErr := util.WaitFor(ctx, retryDelay); waitErr != nil {
			return nil, waitErr
		}
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("ranking response",
		zap.Int("response_length", utf8.RuneCountInString(content)),
		zap.String("response_preview", util.TruncateForLog(content, c.maxLogLen)),
	)

	return ai.ParseIndexList(content)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: ai.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parse chat response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("chat response content is empty")
	}

	return content, nil
}
