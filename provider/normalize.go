package provider

import (
	"bytes"
	"encoding/json"
	"strings"
)

// normalizeOutput flattens the model's output into text. Hosted models
// disagree on shape: a plain string, an object with a "text" field, an
// object without one, or a list of fragments. Whitespace-only results
// normalize to "".
func normalizeOutput(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case '{':
		return strings.TrimSpace(objectText(raw))
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return ""
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, stringify(item))
		}
		return strings.TrimSpace(strings.Join(parts, " "))
	default:
		// Bare number or bool.
		return strings.TrimSpace(string(raw))
	}
}

// objectText prefers the "text" field; without one it falls back to the
// first value in document order. The fallback is a compatibility heuristic
// inherited from deployed behavior, not a contract worth refining.
func objectText(raw []byte) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // opening brace
		return ""
	}

	first := ""
	haveFirst := false
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return first
		}
		key, ok := keyTok.(string)
		if !ok {
			return first
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return first
		}
		if key == "text" {
			return stringify(val)
		}
		if !haveFirst {
			first = stringify(val)
			haveFirst = true
		}
	}
	return first
}

func stringify(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
