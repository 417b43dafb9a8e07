// Package redact masks PHI-shaped spans in free text with category tags.
//
// The cascade is heuristic. It reduces the chance of identifiers reaching a
// training corpus but does not certify a text as de-identified.
package redact

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// Redactor applies an ordered rule cascade to free text.
type Redactor struct {
	rules []Rule
	allow map[string]bool
}

// New builds a Redactor over a copy of rules. Name-shaped matches whose every
// word appears in allow are left untouched.
func New(rules []Rule, allow []string) *Redactor {
	r := &Redactor{
		rules: append([]Rule(nil), rules...),
		allow: make(map[string]bool, len(allow)),
	}
	for _, w := range allow {
		if w = strings.TrimSpace(w); w != "" {
			r.allow[w] = true
		}
	}
	return r
}

// Default returns a Redactor using DefaultRules.
func Default(allow []string) *Redactor {
	return New(DefaultRules(), allow)
}

// Rules returns a copy of the configured cascade.
func (r *Redactor) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// maxPasses bounds the fixed-point loop in Redact. Tags never match a rule,
// so real input settles in two passes.
const maxPasses = 4

// Redact replaces PHI-shaped substrings and normalizes whitespace. The
// cascade repeats until the text stops changing, because a tag inserted by a
// later rule can expose a new word boundary to an earlier one. Applying it to
// its own output is a no-op.
func (r *Redactor) Redact(text string) string {
	out := CollapseSpace(text)
	for range maxPasses {
		next := CollapseSpace(r.pass(out))
		if next == out {
			break
		}
		out = next
	}
	return out
}

func (r *Redactor) pass(out string) string {
	for _, rule := range r.rules {
		if rule.Name == RuleName && len(r.allow) > 0 {
			out = rule.Pattern.ReplaceAllStringFunc(out, func(m string) string {
				if r.allowed(m) {
					return m
				}
				return rule.Tag
			})
			continue
		}
		out = rule.Pattern.ReplaceAllLiteralString(out, rule.Tag)
	}
	return out
}

// RedactValue redacts strings and returns any other value unchanged.
func (r *Redactor) RedactValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	return r.Redact(s)
}

func (r *Redactor) allowed(match string) bool {
	for _, w := range strings.Fields(match) {
		if !r.allow[w] {
			return false
		}
	}
	return true
}

// CollapseSpace collapses whitespace runs to one space and trims the ends.
func CollapseSpace(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}
