// Package requote rewrites a command line so that every comma-separated
// item inside a parenthesized group is individually quoted. The result can
// be embedded as a single argument string when relaunching the generator.
//
// Groups are not nesting-aware: a group runs from a '(' to the first ')'
// after it. Nested parentheses are therefore split at the inner ')'.
// Downstream launch settings depend on this exact output.
package requote

import "strings"

const quote = `"`

// Requote quotes the items of every parenthesized group in raw.
//
//	Requote(`cmd(a,b,c)`)       == `cmd("a","b","c")`
//	Requote(`cmd("a",b)`)       == `cmd("a","b")`
//	Requote(`x(a,b) y(c,d)`)    == `x("a","b") y("c","d")`
//
// Text outside groups is copied verbatim. Input without '(' is returned
// unchanged, and an unmatched remainder is copied as-is.
func Requote(raw string) string {
	lparen := strings.IndexByte(raw, '(')
	if raw == "" || lparen == -1 {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw) + 8)

	start := 0
	rparen := indexFrom(raw, ')', lparen+1)
	for lparen != -1 && rparen != -1 {
		// Verbatim text since the previous group, including this '('.
		// The previous group's ')' is the first byte of this segment.
		b.WriteString(raw[start : lparen+1])
		b.WriteString(quoteItems(raw[lparen+1 : rparen]))

		start = rparen
		lparen = indexFrom(raw, '(', rparen+1)
		if lparen == -1 {
			break
		}
		rparen = indexFrom(raw, ')', lparen+1)
	}

	b.WriteString(raw[start:])
	return b.String()
}

// quoteItems splits a group's interior on ',' and quotes each item that
// is not already wrapped in quotes.
func quoteItems(inner string) string {
	items := strings.Split(inner, ",")
	for i, item := range items {
		if !isQuoted(item) {
			items[i] = quote + item + quote
		}
	}
	return strings.Join(items, ",")
}

// isQuoted reports whether item starts and ends with a quote.
// A lone `"` counts as both.
func isQuoted(item string) bool {
	return strings.HasPrefix(item, quote) && strings.HasSuffix(item, quote)
}

// indexFrom returns the index of c in s at or after from, or -1.
func indexFrom(s string, c byte, from int) int {
	if from >= len(s) {
		return -1
	}
	i := strings.IndexByte(s[from:], c)
	if i == -1 {
		return -1
	}
	return from + i
}
