package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrUnavailable = errors.New("ai provider unavailable")

type Config struct {
	BaseURL string
	APIKey  string
}

// HTTPDrafter talks to the external text-generation service. One endpoint
// per field keeps the upstream prompt templates out of this codebase.
type HTTPDrafter struct {
	cfg    Config
	client *http.Client
}

func NewHTTP(cfg Config) *HTTPDrafter {
	return &HTTPDrafter{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (d *HTTPDrafter) TaskName(ctx context.Context, req DraftRequest) (string, error) {
	return d.generate(ctx, "/v1/task-name", req)
}

func (d *HTTPDrafter) TaskDescription(ctx context.Context, req DraftRequest) (string, error) {
	return d.generate(ctx, "/v1/task-description", req)
}

func (d *HTTPDrafter) TaskDeadline(ctx context.Context, req DraftRequest) (string, error) {
	return d.generate(ctx, "/v1/task-deadline", req)
}

func (d *HTTPDrafter) generate(ctx context.Context, path string, req DraftRequest) (string, error) {
	if d.cfg.BaseURL == "" {
		return "", ErrUnavailable
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(d.cfg.BaseURL, "/")+path, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if d.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+d.cfg.APIKey)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return strings.TrimSpace(body.Text), nil
}
