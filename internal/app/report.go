package app

import (
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Report is the outcome of checking every scenario definition.
type Report struct {
	Root        string           `json:"root"`
	ScenarioDir string           `json:"scenario_dir"`
	Scenarios   []ScenarioReport `json:"scenarios"`
	Failed      int              `json:"failed"`
}

// ScenarioReport describes one scenario. Error is set when it failed to
// compile or render.
type ScenarioReport struct {
	Name   string       `json:"name"`
	Source string       `json:"source,omitempty"`
	Calls  []CallReport `json:"calls,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// CallReport describes one compiled call.
type CallReport struct {
	Key      string `json:"key"`
	Method   string `json:"method"`
	URI      string `json:"uri"`
	Pattern  bool   `json:"pattern,omitempty"`
	Request  string `json:"request"`
	Response string `json:"response"`
	Status   int    `json:"status"`
}

// OK reports whether every scenario checked cleanly.
func (r *Report) OK() bool { return r.Failed == 0 }

func (r *Report) add(sr ScenarioReport) {
	if sr.Error != "" {
		r.Failed++
	}
	r.Scenarios = append(r.Scenarios, sr)
}

// WriteText prints the report in a human readable form.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	for _, s := range r.Scenarios {
		mark := "ok"
		if s.Error != "" {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "%-4s %s (%d calls)\n", mark, s.Name, len(s.Calls))
		for _, c := range s.Calls {
			uri := c.URI
			if c.Pattern {
				uri = "/" + uri + "/"
			}
			fmt.Fprintf(&b, "     %-16s %-6s %s -> %d [request: %s, response: %s]\n",
				c.Key, strings.ToUpper(c.Method), uri, c.Status, c.Request, c.Response)
		}
		if s.Error != "" {
			fmt.Fprintf(&b, "     error: %s\n", s.Error)
		}
	}
	fmt.Fprintf(&b, "%d scenarios, %d failed\n", len(r.Scenarios), r.Failed)

	_, err := io.WriteString(w, b.String())
	return err
}

// Rendering is one activation of a scenario with every body materialized.
type Rendering struct {
	Scenario   string         `json:"scenario"`
	Activation string         `json:"activation"`
	Calls      []RenderedCall `json:"calls"`
}

// RenderedCall is the printable form of a rendered call.
type RenderedCall struct {
	Key      string           `json:"key"`
	Method   string           `json:"method"`
	URI      string           `json:"uri"`
	Query    url.Values       `json:"query,omitempty"`
	Body     any              `json:"body,omitempty"`
	Response RenderedResponse `json:"response"`
}

// RenderedResponse is the printable form of a rendered response.
type RenderedResponse struct {
	Status  int    `json:"status"`
	DelayMs int64  `json:"delay_ms,omitempty"`
	Kind    string `json:"kind"`
	Body    any    `json:"body,omitempty"`
}
