package ports

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Clock provides the current time (for testing).
type Clock interface {
	Now() time.Time
	// SleepContext blocks for d or until ctx is cancelled. Returns ctx.Err() if cancelled.
	SleepContext(ctx context.Context, d time.Duration) error
}

// Logger provides structured logging.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Event is the record handed to a diagnostics sink.
type Event struct {
	Method     string
	URI        string
	Scenario   string // empty on the real-network path
	Activation string
	Timestamp  time.Time
	Elapsed    time.Duration
	Message    string
	Err        error
}

// Sink receives send lifecycle diagnostics.
type Sink interface {
	Send(Event)
	Sent(Event)
	Error(Event)
	Debug(Event)
}

// Throttle paces outbound requests.
type Throttle interface {
	// Wait blocks until a request identified by key may proceed or ctx is done.
	// rate is tokens per second, burst is the max burst size.
	Wait(ctx context.Context, key string, rate float64, burst int) error
}

// OutboundRequest is a request on the real-network path.
type OutboundRequest struct {
	Method  string
	URI     string
	Query   url.Values
	Header  http.Header
	Body    any
	JSON    bool
	Timeout time.Duration
}

// OutboundResponse is what the real network returned.
type OutboundResponse struct {
	Status int
	Header http.Header
	Raw    []byte
	Body   any
}

// Transport performs real-network requests.
type Transport interface {
	Do(ctx context.Context, req OutboundRequest) (*OutboundResponse, error)
}
