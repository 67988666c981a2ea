// Package vocab rewrites known misrecognitions in transcribed text back to
// their canonical spelling.
package vocab

import (
	"regexp"
	"strings"
)

// Entry maps a canonical term to the surface forms the recognizer tends to
// produce for it. Entries apply in slice order, so a later entry may rewrite
// text introduced by an earlier one.
type Entry struct {
	Canonical string   `json:"canonical"`
	Variants  []string `json:"variants"`
}

type rule struct {
	pattern   *regexp.Regexp
	canonical string
}

// Table is a compiled correction table. Same input text and same entries
// always produce the same output.
type Table struct {
	rules []rule
}

// New compiles entries into a Table. Variants are matched case-insensitively
// on whole tokens only, so "A10" never fires inside "A100". Empty or
// whitespace-only variants are skipped.
func New(entries []Entry) Table {
	var t Table
	for _, e := range entries {
		if strings.TrimSpace(e.Canonical) == "" {
			continue
		}
		for _, v := range e.Variants {
			if strings.TrimSpace(v) == "" {
				continue
			}
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(v) + `\b`)
			if err != nil {
				continue
			}
			t.rules = append(t.rules, rule{pattern: re, canonical: e.Canonical})
		}
	}
	return t
}

// Correct applies every rule sequentially and returns the rewritten text.
func (t Table) Correct(text string) string {
	for _, r := range t.rules {
		text = r.pattern.ReplaceAllString(text, r.canonical)
	}
	return text
}

// Len reports the number of compiled rules.
func (t Table) Len() int {
	return len(t.rules)
}

// Defaults is the built-in correction table for terms the hosted models
// reliably butcher.
func Defaults() []Entry {
	return []Entry{
		{Canonical: "n8n", Variants: []string{"n8n", "n 8 n", "n eight n", "nateon", "AN10", "N810", "N8N", "A10"}},
		{Canonical: "Retell", Variants: []string{"Retell", "retell", "re-tell", "retail", "retale", "re tell"}},
	}
}
