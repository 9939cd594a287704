// Package tags calls the remote tag-extraction service used by the profile
// quiz: free text in, interest and skill labels out. Unlike ranking there is
// no fallback; errors surface to the user as an inline message.
package tags

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Tags is the extraction result applied to the profile.
type Tags struct {
	Interests []string `json:"interests"`
	Skills    []string `json:"skills"`
}

type extractRequest struct {
	Description string `json:"description"`
}

type extractResponse struct {
	Tags *Tags `json:"tags"`
}

// Client talks to the tag-extraction endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *zap.Logger
}

// New creates a tag-extraction client for the given endpoint URL.
func New(url string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("tag extraction url is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		logger:     logger,
	}, nil
}

// Extract sends the description and returns the extracted tags.
func (c *Client) Extract(ctx context.Context, description string) (*Tags, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description must not be empty")
	}

	body, err := json.Marshal(extractRequest{Description: description})
	if err != nil {
		return nil, fmt.Errorf("marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("tag extraction request", zap.String("url", c.url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var parsed extractResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}
	if parsed.Tags == nil {
		return nil, fmt.Errorf("extraction response has no tags")
	}

	c.logger.Debug("tag extraction response",
		zap.Int("interests", len(parsed.Tags.Interests)),
		zap.Int("skills", len(parsed.Tags.Skills)),
	)

	return parsed.Tags, nil
}
