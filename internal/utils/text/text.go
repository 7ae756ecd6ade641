// Package text provides small rune-aware string helpers shared by the
// clients and use cases.
package text

import "unicode/utf8"

// CountRunes counts the number of Unicode characters (runes) in s.
//
//	CountRunes("hello")   // 5
//	CountRunes("héllo👋") // 6
func CountRunes(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens s to at most max runes, appending "..." when it cut
// anything. The ellipsis counts toward max.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-3]) + "..."
}
