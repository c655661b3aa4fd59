package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sophialabs/vhttp/internal/domain/match"
	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/domain/trace"
	"github.com/sophialabs/vhttp/internal/domain/vherr"
	"github.com/sophialabs/vhttp/internal/infrastructure/ports"
	"github.com/sophialabs/vhttp/internal/infrastructure/services"
)

// BodyPreparer shapes an outgoing body the way fixtures decode.
type BodyPreparer interface {
	PrepareBody(body any, isJSON bool) any
}

// SendRequest is one outgoing request.
type SendRequest struct {
	Method  string
	URI     string
	Query   url.Values
	Body    any
	JSON    bool
	Header  http.Header
	Timeout time.Duration
}

// SendResult is the answer to a SendRequest, virtual or real.
type SendResult struct {
	Status  int
	Header  http.Header
	Body    any
	Raw     []byte
	Virtual bool
	Key     string
	Kind    scenario.BodyKind
}

// SendRequestUseCase answers requests from a session's activation, or from
// the real network when the session is not virtual.
type SendRequestUseCase struct {
	transport ports.Transport
	preparer  BodyPreparer
	clock     ports.Clock
	traceBuf  *trace.RingBuffer
	sink      func() ports.Sink
}

// NewSendRequestUseCase creates a new use case. sink is consulted on every
// send so reconfiguration takes effect for existing clients.
func NewSendRequestUseCase(
	transport ports.Transport,
	preparer BodyPreparer,
	clock ports.Clock,
	traceBuf *trace.RingBuffer,
	sink func() ports.Sink,
) *SendRequestUseCase {
	return &SendRequestUseCase{
		transport: transport,
		preparer:  preparer,
		clock:     clock,
		traceBuf:  traceBuf,
		sink:      sink,
	}
}

// Execute sends req through sess.
func (uc *SendRequestUseCase) Execute(ctx context.Context, sess *Session, req SendRequest) (*SendResult, error) {
	sink := uc.sink()
	start := uc.clock.Now()
	ev := ports.Event{
		Method:    req.Method,
		URI:       req.URI,
		Scenario:  sess.Scenario(),
		Timestamp: start,
	}

	if !sess.Virtual() {
		sink.Send(ev)
		return uc.sendReal(ctx, sink, ev, req)
	}

	act, err := sess.Activation(ctx)
	if err == nil && act == nil {
		err = vherr.UnknownScenario(sess.Scenario(), req.Method, req.URI)
	}
	if err != nil {
		uc.fail(sink, ev, start, "", err)
		return nil, err
	}
	ev.Activation = act.ID
	sink.Send(ev)

	uri, query := splitIncoming(req.URI, req.Query)
	in := &match.IncomingRequest{
		Method: req.Method,
		URI:    uri,
		Query:  query,
		Body:   uc.preparer.PrepareBody(req.Body, req.JSON),
	}

	result := act.Match(in)
	uc.report(sink, ev, result)

	entry := trace.Entry{
		Timestamp:  start,
		Scenario:   act.Scenario,
		Activation: act.ID,
		Method:     req.Method,
		URI:        req.URI,
		Candidates: result.Candidates,
	}

	if result.Matched == nil {
		err := vherr.NoMatchingCall(act.Scenario, req.Method, req.URI)
		entry.Error = err.Error()
		uc.traceBuf.Add(entry)
		uc.fail(sink, ev, start, "", err)
		return nil, err
	}
	entry.MatchedKey = result.Matched.Key
	uc.traceBuf.Add(entry)

	return uc.respond(ctx, sink, ev, start, req, result.Matched)
}

func (uc *SendRequestUseCase) respond(ctx context.Context, sink ports.Sink, ev ports.Event, start time.Time, req SendRequest, call *match.RenderedCall) (*SendResult, error) {
	resp := call.Response
	if resp.Delay > 0 {
		if err := uc.clock.SleepContext(ctx, resp.Delay); err != nil {
			err = delayError(req, err)
			uc.fail(sink, ev, start, call.Key, err)
			return nil, err
		}
	}

	res := &SendResult{
		Status:  resp.Status,
		Body:    resp.Body,
		Virtual: true,
		Key:     call.Key,
		Kind:    resp.Kind,
	}
	if isSuccess(res.Status) {
		ev.Elapsed = uc.clock.Now().Sub(start)
		ev.Message = call.Key
		sink.Sent(ev)
		return res, nil
	}

	err := vherr.Status(req.Method, req.URI, res.Status, res.Body)
	uc.fail(sink, ev, start, call.Key, err)
	return res, err
}

func (uc *SendRequestUseCase) sendReal(ctx context.Context, sink ports.Sink, ev ports.Event, req SendRequest) (*SendResult, error) {
	out, err := uc.transport.Do(ctx, ports.OutboundRequest{
		Method:  req.Method,
		URI:     req.URI,
		Query:   req.Query,
		Header:  req.Header,
		Body:    req.Body,
		JSON:    req.JSON,
		Timeout: req.Timeout,
	})

	var res *SendResult
	if out != nil {
		res = &SendResult{Status: out.Status, Header: out.Header, Body: out.Body, Raw: out.Raw}
	}
	if err != nil {
		uc.fail(sink, ev, ev.Timestamp, "", err)
		return res, err
	}
	ev.Elapsed = uc.clock.Now().Sub(ev.Timestamp)
	sink.Sent(ev)
	return res, nil
}

// report emits one debug event per candidate, each followed by the
// mismatches found for that call.
func (uc *SendRequestUseCase) report(sink ports.Sink, ev ports.Event, result match.EvalResult) {
	for _, c := range result.Candidates {
		d := ev
		d.Message = candidateLine(c)
		sink.Debug(d)

		for _, m := range result.Mismatches {
			if m.Key != c.Key {
				continue
			}
			e := ev
			e.Message = m.Report()
			sink.Error(e)
		}
	}
}

func (uc *SendRequestUseCase) fail(sink ports.Sink, ev ports.Event, start time.Time, key string, err error) {
	ev.Elapsed = uc.clock.Now().Sub(start)
	ev.Message = key
	ev.Err = err
	sink.Error(ev)
}

// splitIncoming separates an outgoing URI from its embedded query without
// aliasing the caller's values.
func splitIncoming(uri string, query url.Values) (string, url.Values) {
	return services.SplitURI(uri, cloneValues(query))
}

func candidateLine(c trace.CandidateResult) string {
	target := c.Method + ":" + c.URI
	if c.Query != "" {
		target += "?" + c.Query
	}
	return fmt.Sprintf("Matching to %s - method:%t; uri:%t; qs:%t; body:%t",
		target, c.MethodOK, c.URIOK, c.QueryOK, c.BodyOK)
}

func delayError(req SendRequest, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return vherr.Timeout(req.Method, req.URI, err)
	}
	return vherr.Transport(req.Method, req.URI, err)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
