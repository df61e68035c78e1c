// Package llm defines the chat-completion client interfaces consumed by
// the matching and interview flows. Providers are opaque services: no
// retries are performed here, and callers are expected to validate model
// output themselves (see pkg/modelout).
package llm

import (
	"context"
	"errors"
)

// ErrUpstream is returned when the chat provider is unreachable or
// responds with a malformed or non-2xx payload. Callers surface it as a
// gateway-style failure and never retry automatically.
var ErrUpstream = errors.New("chat provider unavailable")

// Chat produces one completion for a system/user prompt pair.
type Chat interface {
	// Complete sends a single chat completion request and returns the
	// assistant's text output, trimmed.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// StreamingChat extends Chat with an incremental streaming variant.
type StreamingChat interface {
	Chat

	// Stream starts a streaming completion for the given user prompt.
	// The returned Subscription delivers chunks in the order produced by
	// the model, followed by exactly one Done chunk.
	Stream(ctx context.Context, userPrompt string) (*Subscription, error)
}
