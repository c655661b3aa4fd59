package vhttp

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Config configures a Registry at construction.
type Config struct {
	// Root is the fixture directory. Defaults to ./virtual.
	Root string
	// Engine selects the template engine: expr (default) or jinja2.
	Engine string

	// Logger receives registry logs and, unless Quiet, send diagnostics.
	// Defaults to a text logger on stderr at LogLevel.
	Logger   *slog.Logger
	LogLevel string
	Quiet    bool
	Verbose  bool

	// RequestTimeout applies to real requests without their own timeout.
	RequestTimeout time.Duration
	// HostRate limits real requests per second per host; zero disables it.
	HostRate  float64
	HostBurst int
	// ThrottleTTL evicts idle per-host limiters.
	ThrottleTTL time.Duration
	// TraceSize is the number of match traces kept.
	TraceSize int

	HTTPClient *http.Client
}

// DefaultRoot is the fixture directory used when Config.Root is empty.
const DefaultRoot = "./virtual"

const defaultTraceSize = 200

// Options reconfigures a Registry. Zero fields leave settings unchanged.
// Diagnostics are merged in order: Quiet clears every handler, Verbose adds
// logging of every event including match traces, Log rebinds logging to a
// new logger, and EventHandlers are laid over the result.
type Options struct {
	Root          string
	Quiet         bool
	Verbose       bool
	Log           *slog.Logger
	EventHandlers *EventHandlers
	Scenarios     map[string]Definition
	Engine        string
}

// RequestOptions are the optional parts of a request.
type RequestOptions struct {
	Query url.Values
	// Body is sent as-is when it is a string or []byte, otherwise as JSON.
	Body any
	// JSON marks the body and expected response as JSON.
	JSON    bool
	Header  http.Header
	Timeout time.Duration
}

// Response is the answer to a request.
type Response struct {
	Status int
	Header http.Header
	// Body is the decoded body: a JSON value, or text for XML and other bodies.
	Body any
	Raw  []byte
	// Virtual is set when the response came from a scenario; Key names the matched call.
	Virtual bool
	Key     string
}
