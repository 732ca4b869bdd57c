package handler

import (
	"fmt"
	"html/template"
	"math"
	"time"
)

// RefreshSeconds rounds a delay up to the whole seconds a Refresh header
// understands. Scripts navigate on the exact delay; this is the fallback.
func RefreshSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func milliseconds(d time.Duration) int64 {
	return d.Milliseconds()
}

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call: number of arguments must be even")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

// FuncMap is the set of helpers every page template is parsed with.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"refreshSeconds": RefreshSeconds,
		"ms":             milliseconds,
		"dict":           dict,
	}
}
