package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain decodes content as UTF-8 text, replacing invalid sequences
// with the replacement character. Plain text never fails to extract.
func extractPlain(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), "�")
}
