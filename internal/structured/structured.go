// Package structured helps providers without native JSON schema support
// produce structured judge responses.
package structured

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSONObject is returned when a response does not contain a JSON object
var ErrNoJSONObject = errors.New("no JSON object found in response")

// Prompt appends instructions asking the model to reply with a single JSON object
// that conforms to schema.
func Prompt(prompt string, schema map[string]interface{}) (string, error) {
	encoded, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode schema: %w", err)
	}

	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nRespond with a single JSON object and nothing else. The object must conform to this JSON schema:\n")
	b.Write(encoded)
	return b.String(), nil
}

// Decode extracts the first JSON object from text. Markdown code fences and
// surrounding prose are tolerated.
func Decode(text string) (map[string]interface{}, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, ErrNoJSONObject
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("failed to decode structured response: %w", err)
	}
	return out, nil
}
