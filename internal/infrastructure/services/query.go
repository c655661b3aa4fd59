package services

import (
	"net/url"
	"strings"
)

// SplitURI separates the query string embedded in a literal URI and merges
// it with explicit. Explicit values take precedence per key.
func SplitURI(uri string, explicit url.Values) (string, url.Values) {
	uri = strings.TrimSpace(uri)
	base, rawQuery, found := strings.Cut(uri, "?")
	if !found {
		return uri, explicit
	}

	// ParseQuery returns what it could decode alongside the first error.
	merged, _ := url.ParseQuery(rawQuery)
	for k, v := range explicit {
		merged[k] = append([]string(nil), v...)
	}
	return base, merged
}

// StripQuery removes the query string of uri, if any.
func StripQuery(uri string) string {
	base, _, _ := strings.Cut(strings.TrimSpace(uri), "?")
	return base
}
