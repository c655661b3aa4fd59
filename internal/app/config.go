package app

import "time"

// Config holds all configurable parameters for the application.
type Config struct {
	RootDir     string
	ScenarioDir string
	Engine      string // "expr" or "jinja2"
	TraceSize   int
	LogLevel    string

	RequestTimeout time.Duration
	HostRate       float64
	HostBurst      int
	ThrottleTTL    time.Duration

	WatcherDebounce time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RootDir:     "./virtual",
		ScenarioDir: "./scenarios",
		Engine:      "expr",
		TraceSize:   200,
		LogLevel:    "info",

		RequestTimeout: 30 * time.Second,
		HostBurst:      1,
		ThrottleTTL:    10 * time.Minute,

		WatcherDebounce: 500 * time.Millisecond,
	}
}
