// Package llm provides provider-agnostic access to large-language-model
// completion APIs for article classification.
package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers. The response is the raw
// completion text; parsing and validation belong to the caller.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config holds configuration for LLM clients.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}
