// Package upstream talks to the chat API the site points browsers at.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUnexpectedStatus is returned when the API answers with a non-2xx code.
var ErrUnexpectedStatus = errors.New("upstream: unexpected status")

// DefaultExamples are served when the API cannot be reached.
var DefaultExamples = []string{
	"Why did the Mahabharata war happen?",
	"Who killed Karna, and why?",
	"Why did the Pandavas have to go live in the forest for 12 years?",
	"Who was the wife of all five Pandavas, and how did that marriage come to be?",
	"What was the role of Krishna during the Kurukshetra war? Did he fight?",
	"Describe the relationship between Karna and Kunti. How did it affect the war?",
	"Who killed Ghatotakach?",
	"Who were the siblings of Karna?",
	"Why did Bhishma take a vow of celibacy, and how did that impact the throne of Hastinapur?",
	"Who killed Dronacharya and how was he tricked into giving up his weapons?",
}

// Health is the chat API's /health payload.
type Health struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

type examplesResponse struct {
	Examples []string `json:"examples"`
}

// Client is a thin resty wrapper bound to the API base URL.
type Client struct {
	http *resty.Client
}

// New returns a Client for baseURL. A non-positive timeout falls back to 3s.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: cli}
}

// Health probes GET /health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&h).
		Get("/health")
	if err != nil {
		return Health{}, fmt.Errorf("health request: %w", err)
	}
	if resp.IsError() {
		return Health{}, fmt.Errorf("%w: health %d", ErrUnexpectedStatus, resp.StatusCode())
	}
	return h, nil
}

// Examples fetches GET /examples.
func (c *Client) Examples(ctx context.Context) ([]string, error) {
	var out examplesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/examples")
	if err != nil {
		return nil, fmt.Errorf("examples request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: examples %d", ErrUnexpectedStatus, resp.StatusCode())
	}
	return out.Examples, nil
}
