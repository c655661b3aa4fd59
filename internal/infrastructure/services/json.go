package services

import (
	"encoding/json"
	"fmt"
)

// EncodeBody returns the wire form of a rendered body. Text is sent as-is,
// anything else as JSON.
func EncodeBody(body any) ([]byte, error) {
	switch t := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(t), nil
	case []byte:
		return t, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return b, nil
}
