package llm

import "sync"

// Chunk is a single increment of a streaming completion. The final chunk
// of every stream has Done=true and empty Content; it is delivered exactly
// once, even when the stream produced no content at all.
type Chunk struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// Subscription is the consumer handle for one streaming completion.
//
// The producer (a StreamingChat implementation) pushes chunks with Send
// and terminates with Finish. The consumer ranges over Chunks and calls
// Close when it is no longer interested, on client disconnect or timeout.
// Close disposes the upstream work exactly once; double-Close is a no-op,
// and no further chunks are delivered once Close begins.
type Subscription struct {
	ch   chan Chunk
	done chan struct{}

	closeOnce  sync.Once
	finishOnce sync.Once

	// onClose disposes upstream resources (request cancellation).
	// Set once by the producer before any chunk is sent.
	onClose func()

	mu  sync.Mutex
	err error
}

// NewSubscription creates a subscription with a small delivery buffer so a
// slow consumer does not immediately stall the producer.
func NewSubscription() *Subscription {
	return &Subscription{
		ch:   make(chan Chunk, 16),
		done: make(chan struct{}),
	}
}

// Chunks returns the delivery channel. It is closed after the Done chunk,
// or after Close.
func (s *Subscription) Chunks() <-chan Chunk {
	return s.ch
}

// Close disposes the subscription. Safe to call multiple times and
// concurrently; only the first call has any effect.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// Err returns the terminal error, if any, once the stream has finished.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// OnClose registers the upstream disposal hook. Producer-side only, before
// the first Send.
func (s *Subscription) OnClose(fn func()) {
	s.onClose = fn
}

// Send delivers one content chunk. It returns false when the subscription
// has been closed, signalling the producer to stop; a refused send leaves
// no chunk buffered.
func (s *Subscription) Send(content string) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.ch <- Chunk{Content: content}:
	case <-s.done:
		return false
	}

	// The buffered send and a concurrent Close can be ready at the same
	// time, and the send may win that race. The closed consumer is no
	// longer receiving, so take a chunk back out and refuse the send.
	select {
	case <-s.done:
		select {
		case <-s.ch:
		default:
		}
		return false
	default:
		return true
	}
}

// Finish terminates the stream: it records err, delivers the single Done
// marker (unless the consumer already closed), and closes the channel.
// Safe to call multiple times; only the first call has any effect.
func (s *Subscription) Finish(err error) {
	s.finishOnce.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()

		select {
		case s.ch <- Chunk{Done: true}:
		case <-s.done:
		}
		close(s.ch)
	})
}
