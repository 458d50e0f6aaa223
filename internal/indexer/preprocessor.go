package indexer

import (
	"strings"
	"unicode"
)

// Preprocess normalizes extracted text before chunking: leading and trailing
// whitespace is trimmed and interior whitespace runs collapse to one space.
func Preprocess(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
