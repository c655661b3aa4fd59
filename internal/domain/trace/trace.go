package trace

import "time"

// Entry records how one send was resolved.
type Entry struct {
	Timestamp  time.Time         `json:"timestamp"`
	Scenario   string            `json:"scenario,omitempty"`
	Activation string            `json:"activation,omitempty"`
	Method     string            `json:"method"`
	URI        string            `json:"uri"`
	MatchedKey string            `json:"matched_key,omitempty"`
	Candidates []CandidateResult `json:"candidates,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// CandidateResult records the four equality checks for one unconsumed call.
type CandidateResult struct {
	Key      string `json:"key"`
	Method   string `json:"method"`
	URI      string `json:"uri"`
	Query    string `json:"query,omitempty"`
	MethodOK bool   `json:"method_ok"`
	URIOK    bool   `json:"uri_ok"`
	QueryOK  bool   `json:"query_ok"`
	BodyOK   bool   `json:"body_ok"`
}

// Matched reports whether every check passed.
func (c CandidateResult) Matched() bool {
	return c.MethodOK && c.URIOK && c.QueryOK && c.BodyOK
}
