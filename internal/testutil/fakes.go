package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/sophialabs/vhttp/internal/infrastructure/ports"
)

var _ ports.Logger = (*NoopLogger)(nil)

// NoopLogger discards all log output.
type NoopLogger struct{}

func (l *NoopLogger) Info(string, ...any)  {}
func (l *NoopLogger) Warn(string, ...any)  {}
func (l *NoopLogger) Error(string, ...any) {}
func (l *NoopLogger) Debug(string, ...any) {}

var _ ports.Clock = (*FixedClock)(nil)

// FixedClock returns a fixed time and never sleeps. Requested sleeps are
// recorded; a cancelled context still returns its error.
type FixedClock struct {
	T time.Time

	mu     sync.Mutex
	sleeps []time.Duration
}

func (c *FixedClock) Now() time.Time { return c.T }

func (c *FixedClock) SleepContext(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.mu.Unlock()
	return ctx.Err()
}

// Sleeps returns the durations passed to SleepContext.
func (c *FixedClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

var _ ports.Sink = (*RecordingSink)(nil)

// SinkRecord is one event captured by RecordingSink.
type SinkRecord struct {
	Kind  string // send, sent, error or debug
	Event ports.Event
}

// RecordingSink captures every diagnostics event in order.
type RecordingSink struct {
	mu      sync.Mutex
	records []SinkRecord
}

func (s *RecordingSink) Send(e ports.Event)  { s.add("send", e) }
func (s *RecordingSink) Sent(e ports.Event)  { s.add("sent", e) }
func (s *RecordingSink) Error(e ports.Event) { s.add("error", e) }
func (s *RecordingSink) Debug(e ports.Event) { s.add("debug", e) }

func (s *RecordingSink) add(kind string, e ports.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, SinkRecord{Kind: kind, Event: e})
}

// Records returns all captured events.
func (s *RecordingSink) Records() []SinkRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SinkRecord(nil), s.records...)
}

// Kinds returns the kinds of all captured events, in order.
func (s *RecordingSink) Kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]string, 0, len(s.records))
	for _, r := range s.records {
		kinds = append(kinds, r.Kind)
	}
	return kinds
}

// Of returns the events of one kind.
func (s *RecordingSink) Of(kind string) []ports.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ports.Event
	for _, r := range s.records {
		if r.Kind == kind {
			out = append(out, r.Event)
		}
	}
	return out
}

var _ ports.Transport = (*StubTransport)(nil)

// StubTransport returns a configurable response and records requests.
type StubTransport struct {
	Response *ports.OutboundResponse
	Err      error

	mu       sync.Mutex
	requests []ports.OutboundRequest
}

func (t *StubTransport) Do(_ context.Context, req ports.OutboundRequest) (*ports.OutboundResponse, error) {
	t.mu.Lock()
	t.requests = append(t.requests, req)
	t.mu.Unlock()
	return t.Response, t.Err
}

// Requests returns the requests passed to Do.
func (t *StubTransport) Requests() []ports.OutboundRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]ports.OutboundRequest(nil), t.requests...)
}
