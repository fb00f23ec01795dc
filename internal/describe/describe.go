// Package describe calls the external generative-text service that drafts
// product descriptions for the admin screen. It is the only call path in the
// app with a retry policy: up to five attempts with exponential backoff on
// rate-limit responses, behind a circuit breaker.
package describe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker/v2"
)

const maxAttempts = 5

type Client struct {
	URL     string
	APIKey  string
	HTTP    *http.Client
	breaker *gobreaker.CircuitBreaker[string]

	// InitialInterval is the first backoff delay; tests shrink it.
	InitialInterval time.Duration
}

func NewClient(url, apiKey string) *Client {
	return &Client{
		URL:    url,
		APIKey: apiKey,
		HTTP:   &http.Client{Timeout: 30 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:    "describe",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
		InitialInterval: time.Second,
	}
}

// Prompt builds the instruction the way the admin screen words it.
func Prompt(name, currentDescription string) string {
	p := fmt.Sprintf("Generate a compelling and detailed product description for a product named %q.", name)
	if d := strings.TrimSpace(currentDescription); d != "" {
		p += fmt.Sprintf(" Incorporate the following key details: %q.", d)
	}
	p += " Make it engaging, highlight key features, and use a friendly, persuasive tone. Keep it concise, around 100-150 words."
	return p
}

type request struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type response struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate produces a description for the named product. Rate-limit answers
// and transport failures are retried with exponential backoff; any other
// non-2xx status fails immediately.
func (c *Client) Generate(ctx context.Context, name, currentDescription string) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		return c.generate(ctx, Prompt(name, currentDescription))
	})
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(request{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.InitialInterval
	bo.Multiplier = 2

	return backoff.Retry(ctx, func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL+"?key="+c.APIKey, bytes.NewReader(body))
		if err != nil {
			return "", backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return "", err // transport failure: retryable
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("describe: rate limited")
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return "", backoff.Permanent(fmt.Errorf("describe: status %d", resp.StatusCode))
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", backoff.Permanent(err)
		}
		var out response
		if err := json.Unmarshal(raw, &out); err != nil {
			return "", backoff.Permanent(fmt.Errorf("describe: decode: %w", err))
		}
		if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
			return "", backoff.Permanent(fmt.Errorf("describe: empty response"))
		}
		return out.Candidates[0].Content.Parts[0].Text, nil
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(maxAttempts))
}
