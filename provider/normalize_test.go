package provider

import (
	"encoding/json"
	"testing"
)

func TestNormalizeOutput(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"hello world"`, "hello world"},
		{"string with padding", `"  hello  "`, "hello"},
		{"whitespace only", `"   "`, ""},
		{"null", `null`, ""},
		{"empty", ``, ""},
		{"object with text", `{"chunks":[],"text":" hello world "}`, "hello world"},
		{"object text not first", `{"language":"en","text":"hi"}`, "hi"},
		{"object without text", `{"transcription":"fallback value","other":"x"}`, "fallback value"},
		{"object empty", `{}`, ""},
		{"array of strings", `[" one ","two"]`, "one  two"},
		{"array of fragments", `["hello","world"]`, "hello world"},
		{"bare number", `42`, "42"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := normalizeOutput(json.RawMessage(c.raw))
			if got != c.want {
				t.Errorf("normalizeOutput(%s) = %q, want %q", c.raw, got, c.want)
			}
		})
	}
}

func TestNormalizeOutputObjectFirstValueIsDeterministic(t *testing.T) {
	// No "text" key: the fallback must always pick the first value in
	// document order, never vary between runs.
	raw := json.RawMessage(`{"b":"second looking","a":"first in document"}`)
	first := normalizeOutput(raw)
	if first != "second looking" {
		t.Fatalf("got %q, want document-order first value", first)
	}
	for i := 0; i < 50; i++ {
		if got := normalizeOutput(raw); got != first {
			t.Fatalf("run %d got %q, first run got %q", i, got, first)
		}
	}
}

func TestNormalizeOutputNestedObjectValue(t *testing.T) {
	raw := json.RawMessage(`{"segments":[{"text":"a"}],"text":"use me"}`)
	if got := normalizeOutput(raw); got != "use me" {
		t.Errorf("got %q, want %q", got, "use me")
	}
}
