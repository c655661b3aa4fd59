package wiring

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sophialabs/vhttp/internal/domain/match"
	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/domain/trace"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/clock"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/filesystem"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/fixture"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/logging"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/ratelimit"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/template"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/transport"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/xmlcodec"
	"github.com/sophialabs/vhttp/internal/infrastructure/ports"
	"github.com/sophialabs/vhttp/internal/infrastructure/services"
	"github.com/sophialabs/vhttp/internal/infrastructure/usecases"
)

// Params holds the subset of configuration needed to construct infrastructure components.
type Params struct {
	Engine         string // "" = expr, "jinja2"
	TraceSize      int
	RequestTimeout time.Duration
	HostRate       float64
	HostBurst      int
	ThrottleTTL    time.Duration
	Logger         ports.Logger
	Sink           ports.Sink

	// Optional overrides.
	HTTPClient *http.Client
	Clock      ports.Clock
	Transport  ports.Transport
}

// Container owns the construction and lifecycle of all infrastructure components.
type Container struct {
	logger     ports.Logger
	store      *services.ScenarioStore
	engines    *template.Registry
	engine     *engineRef
	registerUC *usecases.RegisterScenariosUseCase
	activateUC *usecases.ActivateScenarioUseCase
	sendUC     *usecases.SendRequestUseCase
	throttle   *ratelimit.TokenBucketStore
	traceBuf   *trace.RingBuffer

	sinkMu sync.RWMutex
	sink   ports.Sink

	closeOnce sync.Once
}

// New constructs all infrastructure components. Fallible operations run
// before goroutine-starting operations (throttle store) to avoid goroutine
// leaks on early failure.
func New(p Params) (*Container, error) {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}

	engines := template.NewRegistry(clk.Now)
	initial, err := engines.Get(p.Engine)
	if err != nil {
		return nil, fmt.Errorf("failed to create template engine: %w", err)
	}
	engine := &engineRef{}
	engine.set(initial)

	helpers := template.Helpers(clk.Now)
	compiler := services.NewCompiler(fixture.NewResolver(template.NewDataLoader(helpers)))
	renderer := services.NewRenderer(engine, xmlcodec.Decode)
	store := services.NewScenarioStore()

	c := &Container{
		logger:   p.Logger,
		store:    store,
		engines:  engines,
		engine:   engine,
		traceBuf: trace.NewRingBuffer(p.TraceSize),
		sink:     p.Sink,
	}
	if c.sink == nil {
		c.sink = logging.Quiet()
	}

	out := p.Transport
	if out == nil {
		// Start background goroutine only after all fallible ops succeed.
		c.throttle = ratelimit.NewTokenBucketStore(p.ThrottleTTL)
		out = transport.New(p.HTTPClient, c.throttle, transport.Options{
			Timeout:   p.RequestTimeout,
			HostRate:  p.HostRate,
			HostBurst: p.HostBurst,
		})
	}

	c.registerUC = usecases.NewRegisterScenariosUseCase(compiler, store, p.Logger)
	c.activateUC = usecases.NewActivateScenarioUseCase(store, renderer, uuid.NewString, p.Logger)
	c.sendUC = usecases.NewSendRequestUseCase(out, renderer, clk, c.traceBuf, c.Sink)

	return c, nil
}

// Close releases resources held by the container. It is idempotent.
func (c *Container) Close() {
	c.closeOnce.Do(func() {
		if c.throttle != nil {
			c.throttle.Stop()
		}
	})
}

// Logger returns the logger passed at construction time.
func (c *Container) Logger() ports.Logger {
	return c.logger
}

// Store returns the compiled scenario store.
func (c *Container) Store() *services.ScenarioStore {
	return c.store
}

// TraceBuf returns the trace ring buffer.
func (c *Container) TraceBuf() *trace.RingBuffer {
	return c.traceBuf
}

// Sink returns the current diagnostics sink.
func (c *Container) Sink() ports.Sink {
	c.sinkMu.RLock()
	defer c.sinkMu.RUnlock()
	return c.sink
}

// SetSink replaces the diagnostics sink for subsequent sends.
func (c *Container) SetSink(s ports.Sink) {
	if s == nil {
		s = logging.Quiet()
	}
	c.sinkMu.Lock()
	c.sink = s
	c.sinkMu.Unlock()
}

// SetEngine switches the template engine for subsequent activations.
func (c *Container) SetEngine(name string) error {
	e, err := c.engines.Get(name)
	if err != nil {
		return err
	}
	c.engine.set(e)
	return nil
}

// Register compiles defs against the fixture root.
func (c *Container) Register(root string, defs []scenario.Named) error {
	return c.registerUC.Execute(root, defs)
}

// LoadDir loads YAML definitions from dir and registers them against root.
func (c *Container) LoadDir(ctx context.Context, dir, root string) ([]scenario.Named, error) {
	repo, err := filesystem.NewYAMLRepository(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	return usecases.NewLoadDefinitionsUseCase(repo, c.registerUC, c.logger).Execute(ctx, root)
}

// Session creates a session bound to name; an empty name is the real network.
func (c *Container) Session(name string) *usecases.Session {
	return usecases.NewSession(name, c.activateUC)
}

// Activate renders a fresh activation of name without a session.
func (c *Container) Activate(ctx context.Context, name string) (*match.Activation, error) {
	return c.activateUC.Execute(ctx, name)
}

// Send sends req through sess.
func (c *Container) Send(ctx context.Context, sess *usecases.Session, req usecases.SendRequest) (*usecases.SendResult, error) {
	return c.sendUC.Execute(ctx, sess, req)
}

// engineRef lets the template engine be switched without rebuilding the renderer.
type engineRef struct {
	mu sync.RWMutex
	e  template.Engine
}

func (r *engineRef) set(e template.Engine) {
	r.mu.Lock()
	r.e = e
	r.mu.Unlock()
}

func (r *engineRef) get() template.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.e
}

func (r *engineRef) Text(source string, data any) (string, error) {
	return r.get().Text(source, data)
}

func (r *engineRef) Value(source string, data any) (any, error) {
	return r.get().Value(source, data)
}
