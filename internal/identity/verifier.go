// Package identity verifies bearer credentials against the external
// identity provider and resolves them to a stable subject.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	ErrTokenExpired = errors.New("token_expired")
	ErrTokenInvalid = errors.New("token_invalid")
)

// Subject is the provider-side identity resolved from a bearer token.
type Subject struct {
	ID      string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Subject, error)
}

// HTTPVerifier calls the provider's userinfo endpoint.
type HTTPVerifier struct {
	url    string
	client *http.Client
}

func NewHTTPVerifier(url string) *HTTPVerifier {
	return &HTTPVerifier{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (*Subject, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenInvalid
	}
	if v.url == "" {
		return nil, errors.New("identity provider url is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call identity provider: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrTokenExpired
	default:
		return nil, ErrTokenInvalid
	}

	var subject Subject
	if err := json.NewDecoder(resp.Body).Decode(&subject); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}
	if strings.TrimSpace(subject.ID) == "" {
		return nil, ErrTokenInvalid
	}

	return &subject, nil
}
