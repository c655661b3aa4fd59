package usecases

import (
	"context"
	"sync"

	"github.com/sophialabs/vhttp/internal/domain/match"
	"github.com/sophialabs/vhttp/internal/domain/vherr"
)

// pendingActivation is an activation being rendered by one sender.
type pendingActivation struct {
	done chan struct{}
	act  *match.Activation
	err  error
}

// Session binds a client to a scenario and owns its activation. Zero or
// one activation exists per session.
type Session struct {
	scenario string
	activate *ActivateScenarioUseCase

	mu      sync.Mutex
	act     *match.Activation
	pending *pendingActivation
}

// NewSession creates a session for scenario. An empty scenario means the
// real network.
func NewSession(scenario string, activate *ActivateScenarioUseCase) *Session {
	return &Session{scenario: scenario, activate: activate}
}

// Scenario returns the scenario name, empty for real-network sessions.
func (s *Session) Scenario() string { return s.scenario }

// Virtual reports whether requests are answered from a scenario.
func (s *Session) Virtual() bool { return s.scenario != "" }

// Current returns the activation, or nil if none has completed.
func (s *Session) Current() *match.Activation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.act
}

// Activation returns the session's activation, rendering it on first use.
// Concurrent first callers share one render, which is detached from the
// cancellation of the caller that started it; each caller stops waiting
// when its own ctx is done. A nil activation means the scenario is not
// registered; neither that nor a failure is cached, so the next call tries
// again.
func (s *Session) Activation(ctx context.Context) (*match.Activation, error) {
	s.mu.Lock()
	if s.act != nil {
		act := s.act
		s.mu.Unlock()
		return act, nil
	}
	p := s.pending
	if p == nil {
		p = &pendingActivation{done: make(chan struct{})}
		s.pending = p
		go s.render(context.WithoutCancel(ctx), p)
	}
	s.mu.Unlock()

	select {
	case <-p.done:
		return p.act, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Session) render(ctx context.Context, p *pendingActivation) {
	act, err := s.activate.Execute(ctx, s.scenario)

	s.mu.Lock()
	p.act, p.err = act, err
	if err == nil && act != nil {
		s.act = act
	}
	s.pending = nil
	s.mu.Unlock()
	close(p.done)
}

// Unmatched returns the keys of calls not yet matched, in registration order.
func (s *Session) Unmatched() []string {
	act := s.Current()
	if act == nil {
		return nil
	}
	return act.Unmatched()
}

// Done reports every call that was never matched. It is a no-op for
// real-network sessions and sessions that never activated.
func (s *Session) Done() error {
	if !s.Virtual() {
		return nil
	}
	if keys := s.Unmatched(); len(keys) > 0 {
		return vherr.IncompleteScenario(s.scenario, keys)
	}
	return nil
}
