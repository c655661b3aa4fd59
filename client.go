package vhttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sophialabs/vhttp/internal/infrastructure/services"
	"github.com/sophialabs/vhttp/internal/infrastructure/usecases"
)

// Client sends requests for one scenario, or to the real network when it
// is bound to none. A virtual client renders its scenario on the first
// send and matches every later send against that one activation. Clients
// are safe for concurrent use.
type Client struct {
	reg  *Registry
	sess *usecases.Session
}

// Scenario returns the bound scenario, empty for real-network clients.
func (c *Client) Scenario() string { return c.sess.Scenario() }

// Virtual reports whether requests are answered from a scenario.
func (c *Client) Virtual() bool { return c.sess.Virtual() }

// Get sends a GET request to uri.
func (c *Client) Get(ctx context.Context, uri string, opts *RequestOptions) (*Response, error) {
	return c.Send(ctx, http.MethodGet, uri, opts)
}

// Post sends a POST request to uri.
func (c *Client) Post(ctx context.Context, uri string, opts *RequestOptions) (*Response, error) {
	return c.Send(ctx, http.MethodPost, uri, opts)
}

// Put sends a PUT request to uri.
func (c *Client) Put(ctx context.Context, uri string, opts *RequestOptions) (*Response, error) {
	return c.Send(ctx, http.MethodPut, uri, opts)
}

// Patch sends a PATCH request to uri.
func (c *Client) Patch(ctx context.Context, uri string, opts *RequestOptions) (*Response, error) {
	return c.Send(ctx, http.MethodPatch, uri, opts)
}

// Delete sends a DELETE request to uri.
func (c *Client) Delete(ctx context.Context, uri string, opts *RequestOptions) (*Response, error) {
	return c.Send(ctx, http.MethodDelete, uri, opts)
}

// Head sends a HEAD request to uri.
func (c *Client) Head(ctx context.Context, uri string, opts *RequestOptions) (*Response, error) {
	return c.Send(ctx, http.MethodHead, uri, opts)
}

// Send issues a request. A response with a non-2xx status is returned
// together with an ErrTransport error carrying the status and body.
func (c *Client) Send(ctx context.Context, method, uri string, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	res, err := c.reg.container.Send(ctx, c.sess, usecases.SendRequest{
		Method:  method,
		URI:     uri,
		Query:   opts.Query,
		Body:    opts.Body,
		JSON:    opts.JSON,
		Header:  opts.Header,
		Timeout: opts.Timeout,
	})
	if res == nil {
		return nil, err
	}
	return toResponse(res), err
}

// Done reports the calls of the scenario that were never made as an
// ErrIncompleteScenario error. It returns nil for real-network clients and
// for clients that never sent.
func (c *Client) Done() error {
	return c.sess.Done()
}

// Trace returns up to n of the most recent match traces of this client.
func (c *Client) Trace(n int) []TraceEntry {
	act := c.sess.Current()
	if act == nil {
		return nil
	}
	entries := c.reg.container.TraceBuf().ForActivation(act.ID)
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries
}

// Transport returns an http.RoundTripper answering through this client, so
// an *http.Client can be virtualized. Non-2xx statuses are returned as
// responses, not errors.
func (c *Client) Transport() http.RoundTripper {
	return &roundTripper{client: c}
}

func toResponse(res *usecases.SendResult) *Response {
	resp := &Response{
		Status:  res.Status,
		Header:  res.Header,
		Body:    res.Body,
		Raw:     res.Raw,
		Virtual: res.Virtual,
		Key:     res.Key,
	}
	if res.Virtual {
		// A body that cannot be encoded leaves Raw empty; Body still holds it.
		resp.Raw, _ = services.EncodeBody(res.Body)
		resp.Header = http.Header{}
		if len(resp.Raw) > 0 {
			resp.Header.Set("Content-Type", services.InferContentType(res.Kind, resp.Raw))
		}
	}
	return resp
}

type roundTripper struct {
	client *Client
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		body = b
	}

	u := *req.URL
	query := u.Query()
	u.RawQuery = ""
	u.Fragment = ""

	opts := &RequestOptions{
		Query:  query,
		JSON:   strings.Contains(strings.ToLower(req.Header.Get("Content-Type")), "json"),
		Header: req.Header,
	}
	if len(body) > 0 {
		opts.Body = body
	}

	resp, err := rt.client.Send(req.Context(), req.Method, u.String(), opts)
	if resp == nil {
		return nil, err
	}

	header := resp.Header
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.Status, http.StatusText(resp.Status)),
		StatusCode:    resp.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Raw)),
		ContentLength: int64(len(resp.Raw)),
		Request:       req,
	}, nil
}
