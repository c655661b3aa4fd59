// Package transport performs real-network requests for non-virtual clients.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sophialabs/vhttp/internal/domain/vherr"
	"github.com/sophialabs/vhttp/internal/infrastructure/ports"
)

// maxBodySize limits how much of a response body is read.
const maxBodySize = 10 * 1024 * 1024 // 10MB

// ErrBodyTooLarge is returned when a response body exceeds maxBodySize.
var ErrBodyTooLarge = errors.New("response body exceeds 10MB")

var _ ports.Transport = (*HTTPTransport)(nil)

// Options configures an HTTPTransport.
type Options struct {
	// Timeout applies when a request carries none. Zero means no timeout.
	Timeout time.Duration
	// HostRate and HostBurst throttle requests per target host. A zero
	// rate disables throttling.
	HostRate  float64
	HostBurst int
}

// HTTPTransport sends requests with net/http.
type HTTPTransport struct {
	client   *http.Client
	throttle ports.Throttle
	opts     Options
}

// New creates an HTTPTransport. A nil client uses http.DefaultClient; a nil
// throttle disables throttling.
func New(client *http.Client, throttle ports.Throttle, opts Options) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client, throttle: throttle, opts: opts}
}

// Do sends req. A non-2xx status returns the response together with a
// status error carrying the decoded body.
func (t *HTTPTransport) Do(ctx context.Context, req ports.OutboundRequest) (*ports.OutboundResponse, error) {
	target, err := buildURL(req.URI, req.Query)
	if err != nil {
		return nil, vherr.Transport(req.Method, req.URI, err)
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = t.opts.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if t.throttle != nil {
		if err := t.throttle.Wait(ctx, target.Host, t.opts.HostRate, t.opts.HostBurst); err != nil {
			return nil, classify(req.Method, req.URI, err)
		}
	}

	body, contentType, err := encodeBody(req.Body, req.JSON)
	if err != nil {
		return nil, vherr.Transport(req.Method, req.URI, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), target.String(), body)
	if err != nil {
		return nil, vherr.Transport(req.Method, req.URI, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.JSON && httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, classify(req.Method, req.URI, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, classify(req.Method, req.URI, err)
	}
	if len(raw) > maxBodySize {
		return nil, vherr.Transport(req.Method, req.URI, ErrBodyTooLarge)
	}

	out := &ports.OutboundResponse{
		Status: resp.StatusCode,
		Header: resp.Header,
		Raw:    raw,
		Body:   decodeBody(raw, req.JSON, resp.Header.Get("Content-Type")),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, vherr.Status(req.Method, req.URI, resp.StatusCode, out.Body)
	}
	return out, nil
}

// buildURL parses uri and overlays query per key.
func buildURL(uri string, query url.Values) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return nil, fmt.Errorf("invalid uri: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q[k] = v
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

func encodeBody(body any, isJSON bool) (io.Reader, string, error) {
	switch t := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		if isJSON {
			return strings.NewReader(t), "application/json", nil
		}
		return strings.NewReader(t), "", nil
	case []byte:
		if isJSON {
			return bytes.NewReader(t), "application/json", nil
		}
		return bytes.NewReader(t), "", nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}

// decodeBody parses JSON when requested or announced by the server and
// falls back to text.
func decodeBody(raw []byte, isJSON bool, contentType string) any {
	if len(raw) == 0 {
		return nil
	}
	if isJSON || strings.Contains(strings.ToLower(contentType), "json") {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
	}
	return string(raw)
}

func classify(method, uri string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return vherr.Timeout(method, uri, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return vherr.Timeout(method, uri, err)
	}
	return vherr.Transport(method, uri, err)
}
