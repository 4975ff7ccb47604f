// Package matching implements the file-name matching core: a canonical
// normalizer for display names and keyword tokens, and a best-match selector
// that binds repository files to required-document slots.
package matching

import (
	"regexp"
	"strings"
)

var (
	wsRun  = regexp.MustCompile(`\s+`)
	extPat = regexp.MustCompile(`\.([a-z0-9]+)$`)
)

var punctStripper = strings.NewReplacer("_", "", "-", "", "(", "", ")", "", ",", "")

// Normalize produces the canonical comparison key for a display name or
// keyword token: lowercased, whitespace runs removed, and underscore, hyphen,
// parenthesis and comma characters stripped. Idempotent; empty in, empty out.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = wsRun.ReplaceAllString(s, "")
	return punctStripper.Replace(s)
}

// Ext returns the lowercase extension after the last dot when it is purely
// alphanumeric, else "". This is a syntactic check, not a MIME sniff.
func Ext(name string) string {
	m := extPat.FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return ""
	}
	return m[1]
}
