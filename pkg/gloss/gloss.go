// Package gloss normalises English dictionary glosses such as
// "to eat", "famous; well-known" or "expensive, high (price)".
package gloss

import (
	"strings"
)

// Alternatives splits a gloss into its lower-cased senses, with any
// parenthesised note removed.
func Alternatives(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ',' || r == '/'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToLower(stripParens(f))
		f = strings.Join(strings.Fields(f), " ")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Primary returns the first sense of a gloss with its original casing, or
// the trimmed gloss itself when it has a single sense.
func Primary(s string) string {
	if i := strings.IndexAny(s, ";,/"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(stripParens(s))
	return strings.Join(strings.Fields(s), " ")
}

// Keys returns every normalised sense usable as a rule-table key.
func Keys(s string) []string {
	alts := Alternatives(s)
	for i := range alts {
		alts[i] = strings.TrimPrefix(alts[i], "to be ")
	}
	return alts
}

// VerbBase drops the infinitive marker: "to eat" -> "eat".
func VerbBase(s string) string {
	p := Primary(s)
	if len(p) > 3 && strings.EqualFold(p[:3], "to ") {
		return p[3:]
	}
	return p
}

func stripParens(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
