package services

import (
	"net/http"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
)

// InferContentType determines the content type of a virtual response from
// the fixture kind, falling back to sniffing the encoded body.
func InferContentType(kind scenario.BodyKind, body []byte) string {
	switch {
	case kind.IsXML():
		return "application/xml"
	case kind == scenario.BodyJSON || kind == scenario.BodyTemplateJSON:
		return "application/json"
	}

	if len(body) > 0 {
		return http.DetectContentType(body)
	}

	return "application/octet-stream"
}
