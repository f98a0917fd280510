package workflow

import (
	"encoding/json"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// ResponseText flattens a content response into a single string: the first
// choice's text followed by any tool-call parts serialized to JSON, in order.
func ResponseText(resp *llms.ContentResponse) string {
	if resp == nil || len(resp.Choices) == 0 {
		return ""
	}

	choice := resp.Choices[0]
	var b strings.Builder
	b.WriteString(choice.Content)
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		if data, err := json.Marshal(tc.FunctionCall); err == nil {
			b.Write(data)
		}
	}
	return b.String()
}

// ParseStructured decodes raw model text into a JSON object. On any decode
// failure (malformed syntax, wrong top-level type) the fallback builder
// produces a minimal valid mapping for the caller's artifact type. It never
// fails.
func ParseStructured(raw string, fallback func(string) map[string]interface{}) map[string]interface{} {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err == nil && data != nil {
		return data
	}
	return fallback(raw)
}

// stringList extracts the string members of a decoded JSON array.
func stringList(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

// stringValue extracts a decoded JSON string, defaulting to empty.
func stringValue(value interface{}) string {
	str, _ := value.(string)
	return str
}
