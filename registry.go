package vhttp

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/logging"
	"github.com/sophialabs/vhttp/internal/infrastructure/wiring"
)

// Registry holds compiled scenarios and creates clients. Its lifecycle is
// New, Register, Client, Reset, Close.
type Registry struct {
	container *wiring.Container

	mu       sync.Mutex
	root     string
	logger   *logging.SlogLogger
	handlers EventHandlers
}

// New creates a Registry. An unknown template engine falls back to expr
// with a warning.
func New(cfg Config) *Registry {
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	if cfg.TraceSize <= 0 {
		cfg.TraceSize = defaultTraceSize
	}
	if cfg.Verbose && cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	var logger *logging.SlogLogger
	if cfg.Logger != nil {
		logger = logging.New(cfg.Logger)
	} else {
		logger = logging.NewText(os.Stderr, cfg.LogLevel)
	}

	r := &Registry{root: cfg.Root, logger: logger}
	switch {
	case cfg.Quiet:
		r.handlers = logging.Quiet()
	case cfg.Verbose:
		r.handlers = logging.LogHandlers(logger)
	default:
		r.handlers = defaultHandlers(logger)
	}

	params := wiring.Params{
		Engine:         cfg.Engine,
		TraceSize:      cfg.TraceSize,
		RequestTimeout: cfg.RequestTimeout,
		HostRate:       cfg.HostRate,
		HostBurst:      cfg.HostBurst,
		ThrottleTTL:    cfg.ThrottleTTL,
		Logger:         logger,
		Sink:           r.handlers,
		HTTPClient:     cfg.HTTPClient,
	}
	c, err := wiring.New(params)
	if err != nil {
		logger.Warn("falling back to the expr template engine", "engine", cfg.Engine, "error", err)
		params.Engine = ""
		c, err = wiring.New(params)
		if err != nil {
			panic(fmt.Sprintf("vhttp: default template engine: %v", err))
		}
	}
	r.container = c
	return r
}

// Register compiles and adds scenarios. Scenario names already registered
// are left untouched. Scenarios that fail to compile are skipped and their
// errors joined; the others are still registered.
func (r *Registry) Register(scenarios map[string]Definition) error {
	r.mu.Lock()
	root := r.root
	r.mu.Unlock()

	return r.container.Register(root, sortedNamed(scenarios))
}

// LoadDir loads every YAML definition file under dir and registers its
// scenarios against the registry's fixture root.
func (r *Registry) LoadDir(ctx context.Context, dir string) error {
	r.mu.Lock()
	root := r.root
	r.mu.Unlock()

	_, err := r.container.LoadDir(ctx, dir, root)
	return err
}

// Reset forgets every registered scenario and match trace. Clients that
// already activated keep their calls.
func (r *Registry) Reset() {
	r.container.Store().Reset()
	r.container.TraceBuf().Reset()
}

// Configure applies opts. See Options for how diagnostics are merged.
func (r *Registry) Configure(opts Options) error {
	r.mu.Lock()
	if opts.Root != "" {
		r.root = opts.Root
	}
	if opts.Log != nil {
		r.logger = logging.New(opts.Log)
	}

	h := r.handlers
	if opts.Quiet {
		h = logging.Quiet()
	}
	if opts.Verbose {
		h = h.Merge(logging.LogHandlers(r.logger))
	} else if opts.Log != nil && !opts.Quiet {
		h = h.Merge(defaultHandlers(r.logger))
	}
	if opts.EventHandlers != nil {
		h = h.Merge(*opts.EventHandlers)
	}
	r.handlers = h
	r.mu.Unlock()

	r.container.SetSink(h)

	if opts.Engine != "" {
		if err := r.container.SetEngine(opts.Engine); err != nil {
			return fmt.Errorf("configure engine: %w", err)
		}
	}
	if len(opts.Scenarios) > 0 {
		return r.Register(opts.Scenarios)
	}
	return nil
}

// Scenarios returns the registered scenario names, sorted.
func (r *Registry) Scenarios() []string {
	return r.container.Store().Keys()
}

// Root returns the fixture directory scenarios are compiled against.
func (r *Registry) Root() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root
}

// Client returns a client bound to scenario. An empty scenario sends real
// requests. The scenario need not be registered yet; it is looked up on
// the first send.
func (r *Registry) Client(scenario string) *Client {
	return &Client{reg: r, sess: r.container.Session(scenario)}
}

// Close stops background work. The registry must not be used afterwards.
func (r *Registry) Close() {
	r.container.Close()
}

// defaultHandlers logs the send lifecycle without per-candidate traces.
func defaultHandlers(logger *logging.SlogLogger) EventHandlers {
	h := logging.LogHandlers(logger)
	h.OnDebug = nil
	return h
}

func sortedNamed(scenarios map[string]Definition) []scenario.Named {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)

	named := make([]scenario.Named, 0, len(names))
	for _, name := range names {
		named = append(named, scenario.Named{Name: name, Definition: scenarios[name]})
	}
	return named
}
