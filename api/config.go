// Package api provides the HTTP server for the adoption matching service.
package api

import "time"

// DefaultStreamTimeout caps one streaming chat response.
const DefaultStreamTimeout = 60 * time.Second

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// StreamTimeout is the hard wall-clock cap on one streaming chat
	// response. Zero means DefaultStreamTimeout.
	StreamTimeout time.Duration
}

func (c Config) streamTimeout() time.Duration {
	if c.StreamTimeout <= 0 {
		return DefaultStreamTimeout
	}
	return c.StreamTimeout
}
