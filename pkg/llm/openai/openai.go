// Package openai implements pkg/llm's Chat and StreamingChat clients for
// OpenAI-compatible chat completion APIs.
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

	"github.com/homeward-labs/homeward/pkg/llm"
	"github.com/homeward-labs/homeward/pkg/sse"
)

const (
	// DefaultModel is the default chat completion model.
	DefaultModel = "gpt-4o-mini"

	// DefaultBaseURL is the default API URL.
	DefaultBaseURL = "https://api.openai.com"

	// streamDoneMarker terminates an OpenAI-compatible SSE stream.
	streamDoneMarker = "[DONE]"
)

// Client wraps an OpenAI-compatible chat completions API.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// Config holds configuration for the chat client.
type Config struct {
	// BaseURL is the API URL (e.g. "https://api.openai.com").
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the chat model to use. Defaults to DefaultModel if empty.
	Model string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string
}

// NewClient creates a new chat completions client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		baseURL: baseURL,
		model:   model,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Complete sends a single chat completion request and returns the
// assistant's text output, trimmed.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	resp, err := c.post(ctx, chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", llm.ErrUpstream, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", llm.ErrUpstream)
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// Stream starts a streaming completion for the given user prompt. Chunks
// are pushed to the returned Subscription in stream order; closing the
// subscription cancels the upstream request exactly once.
func (c *Client) Stream(ctx context.Context, userPrompt string) (*llm.Subscription, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	resp, err := c.postCtx(streamCtx, chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: userPrompt}},
		Stream:   true,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	sub := llm.NewSubscription()
	sub.OnClose(cancel)

	go func() {
		defer resp.Body.Close()
		defer cancel()

		reader := sse.NewReader(resp.Body)
		for {
			event, err := reader.Next()
			if err != nil {
				sub.Finish(fmt.Errorf("%w: reading stream: %v", llm.ErrUpstream, err))
				return
			}
			if event == nil || event.Data == streamDoneMarker {
				sub.Finish(nil)
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(event.Data), &chunk); err != nil {
				// Providers interleave keep-alive or metadata events;
				// skip anything that isn't a well-formed chunk.
				continue
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}

			if !sub.Send(chunk.Choices[0].Delta.Content) {
				// Consumer closed the subscription; stop producing.
				sub.Finish(nil)
				return
			}
		}
	}()

	return sub, nil
}

func (c *Client) post(ctx context.Context, body chatRequest) (*http.Response, error) {
	return c.postCtx(ctx, body)
}

func (c *Client) postCtx(ctx context.Context, body chatRequest) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", llm.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", llm.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", llm.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: provider returned status %d: %s", llm.ErrUpstream, resp.StatusCode, string(body))
	}

	return resp, nil
}

// Ensure Client implements llm.StreamingChat
var _ llm.StreamingChat = (*Client)(nil)
