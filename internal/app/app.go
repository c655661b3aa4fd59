package app

import (
	"context"
	"fmt"
	"io"

	"github.com/sophialabs/vhttp/internal/domain/match"
	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/filesystem"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/logging"
	"github.com/sophialabs/vhttp/internal/infrastructure/ports"
	"github.com/sophialabs/vhttp/internal/infrastructure/wiring"
)

// App checks and renders scenario definitions against a fixture root.
// It delegates dependency construction to wiring.Container.
type App struct {
	cfg       Config
	container *wiring.Container
}

// New constructs the application, logging to logOut.
func New(cfg Config, logOut io.Writer) (*App, error) {
	logger := logging.NewText(logOut, cfg.LogLevel)

	container, err := wiring.New(wiring.Params{
		Engine:         cfg.Engine,
		TraceSize:      cfg.TraceSize,
		RequestTimeout: cfg.RequestTimeout,
		HostRate:       cfg.HostRate,
		HostBurst:      cfg.HostBurst,
		ThrottleTTL:    cfg.ThrottleTTL,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to wire infrastructure: %w", err)
	}

	return &App{cfg: cfg, container: container}, nil
}

// Close releases resources held by the application.
func (a *App) Close() {
	a.container.Close()
}

// Logger returns the application logger.
func (a *App) Logger() ports.Logger {
	return a.container.Logger()
}

// Check loads every definition, compiles each scenario against the
// fixture root and renders it once. Previously compiled scenarios are
// discarded first, so Check always reflects the files on disk.
func (a *App) Check(ctx context.Context) (*Report, error) {
	defs, err := a.loadDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	a.container.Store().Reset()

	report := &Report{Root: a.cfg.RootDir, ScenarioDir: a.cfg.ScenarioDir}
	seen := make(map[string]string, len(defs))
	for _, n := range defs {
		sr := ScenarioReport{Name: n.Name, Source: n.SourceFile}

		if first, dup := seen[n.Name]; dup {
			sr.Error = fmt.Sprintf("duplicate scenario name, first defined in %s", first)
			report.add(sr)
			continue
		}
		seen[n.Name] = n.SourceFile

		if err := a.container.Register(a.cfg.RootDir, []scenario.Named{n}); err != nil {
			sr.Error = err.Error()
			report.add(sr)
			continue
		}

		compiled, _ := a.container.Store().Lookup(n.Name)
		for _, cc := range compiled.Calls {
			sr.Calls = append(sr.Calls, CallReport{
				Key:      cc.Key,
				Method:   cc.Request.Method,
				URI:      cc.Request.URI,
				Pattern:  cc.Request.Pattern != nil,
				Request:  cc.Request.Body.Kind.String(),
				Response: cc.Response.Body.Kind.String(),
				Status:   cc.Response.Status,
			})
		}

		if _, err := a.container.Activate(ctx, n.Name); err != nil {
			sr.Error = err.Error()
		}
		report.add(sr)
	}

	a.Logger().Info("checked scenarios", "count", len(report.Scenarios), "failed", report.Failed)
	return report, nil
}

// Render compiles the named scenario and returns one fresh activation of it.
func (a *App) Render(ctx context.Context, name string) (*Rendering, error) {
	defs, err := a.loadDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	var found *scenario.Named
	for i := range defs {
		if defs[i].Name == name {
			found = &defs[i]
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("scenario %q: %w", name, scenario.ErrNotFound)
	}

	a.container.Store().Reset()
	if err := a.container.Register(a.cfg.RootDir, []scenario.Named{*found}); err != nil {
		return nil, err
	}
	act, err := a.container.Activate(ctx, name)
	if err != nil {
		return nil, err
	}
	return newRendering(act), nil
}

// Watch runs check once, then again whenever fixtures or definitions change,
// until ctx is done. Each report is handed to onReport.
func (a *App) Watch(ctx context.Context, onReport func(*Report, error)) error {
	logger := a.Logger()
	recheck := func() {
		onReport(a.Check(ctx))
	}
	recheck()

	watcher, err := filesystem.NewWatcher([]string{a.cfg.RootDir, a.cfg.ScenarioDir}, a.cfg.WatcherDebounce, logger, recheck)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	watcher.Start()
	defer watcher.Stop()
	logger.Info("file watcher started", "root", a.cfg.RootDir, "scenarios", a.cfg.ScenarioDir)

	<-ctx.Done()
	logger.Info("file watcher stopped")
	return nil
}

func (a *App) loadDefinitions(ctx context.Context) ([]scenario.Named, error) {
	repo, err := filesystem.NewYAMLRepository(a.cfg.ScenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	defs, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load definitions: %w", err)
	}
	return defs, nil
}

func newRendering(act *match.Activation) *Rendering {
	r := &Rendering{Scenario: act.Scenario, Activation: act.ID}
	for _, c := range act.Calls() {
		rc := RenderedCall{
			Key:    c.Key,
			Method: c.Method,
			URI:    c.URI,
			Body:   c.Body,
			Response: RenderedResponse{
				Status:  c.Response.Status,
				DelayMs: c.Response.Delay.Milliseconds(),
				Kind:    c.Response.Kind.String(),
				Body:    c.Response.Body,
			},
		}
		if len(c.Query) > 0 {
			rc.Query = c.Query
		}
		r.Calls = append(r.Calls, rc)
	}
	return r
}
