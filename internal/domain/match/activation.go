package match

import "sync"

// Activation is the rendered, instance-owned form of a scenario. Matching
// state lives in its calls, so two activations of the same scenario never
// observe each other's consumption.
type Activation struct {
	ID       string
	Scenario string

	mu        sync.Mutex
	calls     []*RenderedCall
	evaluator *Evaluator
}

// NewActivation takes ownership of calls.
func NewActivation(id, scenario string, calls []*RenderedCall) *Activation {
	return &Activation{
		ID:        id,
		Scenario:  scenario,
		calls:     calls,
		evaluator: NewEvaluator(),
	}
}

// Match evaluates req against the unconsumed calls.
func (a *Activation) Match(req *IncomingRequest) EvalResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.evaluator.Evaluate(req, a.calls)
}

// Unmatched returns the keys of calls never matched, in registration order.
func (a *Activation) Unmatched() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Unmatched(a.calls)
}

// Calls returns the rendered calls in registration order. The returned
// calls are owned by the activation; callers must not match against them.
func (a *Activation) Calls() []*RenderedCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*RenderedCall, len(a.calls))
	copy(out, a.calls)
	return out
}

// Len returns the number of calls.
func (a *Activation) Len() int {
	return len(a.calls)
}
