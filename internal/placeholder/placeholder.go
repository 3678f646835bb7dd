// Package placeholder detects and extracts ${name} tokens in configuration
// strings.
//
// The grammar is deliberately flat: a name is any run of characters other
// than '{' and '}', so nested or escaped braces are never matched as a unit.
// Looking values up is left to the caller; nothing here performs I/O.
//
//	placeholder.IsPlaceholder(" ${ db.url } ")   // true
//	placeholder.ValueOf(" ${ db.url } ")         // "db.url"
//	for tok := range placeholder.ExtractAll("jdbc:mysql://${host}/${db}") {
//	    // "${host}", then "${db}"
//	}
package placeholder

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

var (
	purePattern  = regexp.MustCompile(`^\s*\$\{([^{}]*)\}\s*$`)
	tokenPattern = regexp.MustCompile(`\$\{[^{}]*\}`)
)

// IsPlaceholder reports whether s, once trimmed, is exactly one ${name} token.
func IsPlaceholder(s string) bool {
	return purePattern.MatchString(s)
}

// ValueOf returns the trimmed name inside a pure placeholder, or s unchanged
// when s is not one.
func ValueOf(s string) string {
	m := purePattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return strings.TrimSpace(m[1])
}

// Contains reports whether any ${name} token occurs anywhere in s.
func Contains(s string) bool {
	if s == "" {
		return false
	}
	return tokenPattern.MatchString(s)
}

// ExtractAll yields every token in s, wrapper included, left to right.
// The sequence can be ranged over any number of times.
func ExtractAll(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := s
		for {
			loc := tokenPattern.FindStringIndex(rest)
			if loc == nil {
				return
			}
			if !yield(rest[loc[0]:loc[1]]) {
				return
			}
			rest = rest[loc[1]:]
		}
	}
}

// All collects ExtractAll(s) into a slice. The result is never nil.
func All(s string) []string {
	tokens := slices.Collect(ExtractAll(s))
	if tokens == nil {
		return []string{}
	}
	return tokens
}
