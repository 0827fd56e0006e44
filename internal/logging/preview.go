package logging

import (
	"fmt"
	"unicode/utf8"
)

// DefaultPreviewLen bounds text previews in log fields.
const DefaultPreviewLen = 256

// Preview shortens s to at most maxLen bytes for logging, cutting on a rune
// boundary and noting the full size.
func Preview(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + fmt.Sprintf("... [truncated, %d bytes total]", len(s))
}
