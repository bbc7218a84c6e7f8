// Package textutil holds small string helpers shared by the prompt builders
// and response formatters.
package textutil

import "unicode/utf8"

// Clip shortens s to at most max bytes without splitting a UTF-8 sequence.
// When the limit lands inside a multi-byte rune, the whole rune is dropped.
func Clip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
