package template

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/uuid"
)

// Helpers returns the functions available to templates and data providers.
// now supplies the current time; nil means time.Now.
func Helpers(now func() time.Time) map[string]any {
	if now == nil {
		now = time.Now
	}
	return map[string]any{
		"uuid": func() string {
			return uuid.NewString()
		},
		"randomInt": randomInt,
		"seq":       seqInts,
		"now": func() string {
			return now().UTC().Format(time.RFC3339)
		},
		"nowFormat": func(layout string) string {
			return now().UTC().Format(layout)
		},
		"env":      os.Getenv,
		"toJSON":   toJSONString,
		"jsonPath": extractJSONPath,
	}
}

func randomInt(min, max int) int {
	if min >= max {
		return min
	}
	return min + rand.IntN(max-min+1)
}

func seqInts(start, end int) []int {
	if end < start {
		return nil
	}
	s := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		s = append(s, i)
	}
	return s
}

func toJSONString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// extractJSONPath evaluates expression against v. A string v is decoded as
// JSON first. Failures yield nil.
func extractJSONPath(v any, expression string) any {
	data := v
	if s, ok := v.(string); ok {
		if err := json.Unmarshal([]byte(s), &data); err != nil {
			return nil
		}
	} else if b, err := json.Marshal(v); err == nil {
		var decoded any
		if json.Unmarshal(b, &decoded) == nil {
			data = decoded
		}
	}
	result, err := jsonpath.Get(expression, data)
	if err != nil {
		return nil
	}
	return result
}
