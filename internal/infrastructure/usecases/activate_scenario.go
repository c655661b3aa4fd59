package usecases

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/sophialabs/vhttp/internal/domain/match"
	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/infrastructure/ports"
	"github.com/sophialabs/vhttp/internal/infrastructure/services"
)

// BodyRenderer materializes a body source.
type BodyRenderer interface {
	Render(ctx context.Context, src scenario.BodySource, raw bool) (any, error)
}

// ActivateScenarioUseCase renders a compiled scenario into a fresh activation.
type ActivateScenarioUseCase struct {
	store    *services.ScenarioStore
	renderer BodyRenderer
	newID    func() string
	logger   ports.Logger
}

// NewActivateScenarioUseCase creates a new use case. newID generates activation IDs.
func NewActivateScenarioUseCase(store *services.ScenarioStore, renderer BodyRenderer, newID func() string, logger ports.Logger) *ActivateScenarioUseCase {
	return &ActivateScenarioUseCase{
		store:    store,
		renderer: renderer,
		newID:    newID,
		logger:   logger,
	}
}

// Execute renders every call of the named scenario concurrently. It returns
// nil, nil when no such scenario is registered. Each call produces fresh
// values, so no state is shared with other activations.
func (uc *ActivateScenarioUseCase) Execute(ctx context.Context, name string) (*match.Activation, error) {
	compiled, ok := uc.store.Lookup(name)
	if !ok {
		return nil, nil
	}

	calls := make([]*match.RenderedCall, len(compiled.Calls))
	g, gctx := errgroup.WithContext(ctx)
	for i := range compiled.Calls {
		g.Go(func() error {
			rc, err := uc.renderCall(gctx, &compiled.Calls[i])
			if err != nil {
				return err
			}
			calls[i] = rc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uc.logger.Warn("scenario activation failed", "scenario", name, "error", err)
		return nil, err
	}

	act := match.NewActivation(uc.newID(), name, calls)
	uc.logger.Debug("scenario activated", "scenario", name, "activation", act.ID, "calls", len(calls))
	return act, nil
}

func (uc *ActivateScenarioUseCase) renderCall(ctx context.Context, cc *scenario.CompiledCall) (*match.RenderedCall, error) {
	reqBody, err := uc.renderer.Render(ctx, cc.Request.Body, false)
	if err != nil {
		return nil, err
	}
	respBody, err := uc.renderer.Render(ctx, cc.Response.Body, cc.Response.Body.Kind.IsXML())
	if err != nil {
		return nil, err
	}

	rc := &match.RenderedCall{
		Key:     cc.Key,
		Method:  cc.Request.Method,
		URI:     cc.Request.URI,
		Pattern: cc.Request.Pattern,
		Query:   cloneValues(cc.Request.Query),
		Body:    reqBody,
		Response: match.RenderedResponse{
			Status: cc.Response.Status,
			Delay:  cc.Response.Delay,
			Body:   respBody,
			Kind:   cc.Response.Body.Kind,
		},
	}
	// A pattern's "?" is a metacharacter, so only literal URIs are split.
	if rc.Pattern == nil {
		rc.URI, rc.Query = services.SplitURI(rc.URI, rc.Query)
	}
	return rc, nil
}

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return nil
	}
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
