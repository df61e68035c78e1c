package testutils

import (
	"context"
	"fmt"

	"github.com/homeward-labs/homeward/pkg/llm"
)

// MockChat is a test chat model that replays scripted responses in order.
// When the script runs out it falls back to Response, then to "".
type MockChat struct {
	Responses []string
	Response  string

	// Err, when set, is returned by every Complete call
	Err error

	// Prompts records every (system, user) pair passed to Complete
	Prompts [][2]string

	next int
}

func NewMockChat(responses ...string) *MockChat {
	return &MockChat{Responses: responses}
}

func (m *MockChat) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.Prompts = append(m.Prompts, [2]string{systemPrompt, userPrompt})

	if m.Err != nil {
		return "", m.Err
	}
	if m.next < len(m.Responses) {
		response := m.Responses[m.next]
		m.next++
		return response, nil
	}
	return m.Response, nil
}

// MockStreamingChat streams scripted chunks through a real subscription.
type MockStreamingChat struct {
	MockChat

	Chunks    []string
	StreamErr error
}

func (m *MockStreamingChat) Stream(_ context.Context, _ string) (*llm.Subscription, error) {
	if m.StreamErr != nil {
		return nil, m.StreamErr
	}

	sub := llm.NewSubscription()
	go func() {
		for _, chunk := range m.Chunks {
			if !sub.Send(chunk) {
				return
			}
		}
		sub.Finish(nil)
	}()
	return sub, nil
}

var (
	_ llm.Chat          = (*MockChat)(nil)
	_ llm.StreamingChat = (*MockStreamingChat)(nil)

	// ErrMockUpstream is a convenient upstream failure for chat tests
	ErrMockUpstream = fmt.Errorf("%w: mock failure", llm.ErrUpstream)
)
