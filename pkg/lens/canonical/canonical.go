package canonical

import (
	"strings"
	"unicode"

	"github.com/cognicore/lens/pkg/lens/config"
)

// Canonicalizer normalizes free-form values into one canonical display
// string. It is pure: no I/O, and the same input always yields the same
// output. Canonical forms are stable under re-canonicalization.
type Canonicalizer struct {
	generic map[string]string
	dims    map[string]map[string]string
}

// New builds a Canonicalizer from alias tables. Table keys are matched
// case-insensitively with collapsed whitespace.
func New(aliases config.Aliases) *Canonicalizer {
	c := &Canonicalizer{
		generic: make(map[string]string, len(aliases.Generic)),
		dims:    make(map[string]map[string]string, len(aliases.Dimensions)),
	}
	for raw, canon := range aliases.Generic {
		c.generic[lookupKey(raw)] = canon
		// Canonical forms map to themselves so canonicalization is idempotent.
		c.generic[lookupKey(canon)] = canon
	}
	for dim, table := range aliases.Dimensions {
		m := make(map[string]string, len(table))
		for raw, canon := range table {
			m[lookupKey(raw)] = canon
			m[lookupKey(canon)] = canon
		}
		c.dims[dim] = m
	}
	return c
}

// Value canonicalizes one raw value under a dimension key. The dimension's
// alias table shadows the generic table; values in neither table get the
// default token formatting.
func (c *Canonicalizer) Value(dimension, raw string) string {
	trimmed := strings.Join(strings.Fields(raw), " ")
	if trimmed == "" {
		return ""
	}

	key := lookupKey(trimmed)
	if table, ok := c.dims[dimension]; ok {
		if canon, ok := table[key]; ok {
			return canon
		}
	}
	if canon, ok := c.generic[key]; ok {
		return canon
	}
	return FormatTokens(trimmed)
}

// FormatTokens applies the default per-token formatting: short alphanumeric
// tokens (three characters or fewer) are upper-cased as code-like values,
// right-to-left-script tokens are returned unchanged, and everything else
// is title-cased.
func FormatTokens(s string) string {
	fields := strings.Fields(s)
	for i, tok := range fields {
		fields[i] = formatToken(tok)
	}
	return strings.Join(fields, " ")
}

func formatToken(tok string) string {
	if hasRTL(tok) {
		return tok
	}
	if isAlnum(tok) && len([]rune(tok)) <= 3 {
		return strings.ToUpper(tok)
	}
	return titleCase(tok)
}

func lookupKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func hasRTL(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Arabic, unicode.Hebrew) {
			return true
		}
	}
	return false
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func titleCase(tok string) string {
	runes := []rune(tok)
	out := make([]rune, 0, len(runes))
	upperNext := true
	for _, r := range runes {
		switch {
		case upperNext && unicode.IsLetter(r):
			out = append(out, unicode.ToUpper(r))
			upperNext = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out = append(out, unicode.ToLower(r))
		default:
			out = append(out, r)
			upperNext = true
		}
	}
	return string(out)
}
