package textutil

import (
	"strings"
	"unicode"
)

// formattingRunes are zero-width and bidirectional formatting code
// points that can hide or reorder rendered text.
var formattingRunes = map[rune]struct{}{
	0x00AD: {}, // SHY
	0x061C: {}, // ALM
	0x200B: {}, // ZWSP
	0x200C: {}, // ZWNJ
	0x200D: {}, // ZWJ
	0x200E: {}, // LRM
	0x200F: {}, // RLM
	0x202A: {}, // LRE
	0x202B: {}, // RLE
	0x202C: {}, // PDF
	0x202D: {}, // LRO
	0x202E: {}, // RLO
	0x2028: {}, // LSEP
	0x2029: {}, // PSEP
	0x2060: {}, // WJ
	0x2066: {}, // LRI
	0x2067: {}, // RLI
	0x2068: {}, // FSI
	0x2069: {}, // PDI
	0xFEFF: {}, // BOM
}

// SanitizeTerminalText replaces control and formatting characters with a
// space so stored lines cannot inject terminal escape sequences when
// rendered, and so display-width math stays honest.
func SanitizeTerminalText(text string) string {
	for _, r := range text {
		if requiresSanitization(r) {
			return sanitize(text)
		}
	}
	return text
}

func requiresSanitization(r rune) bool {
	if unicode.IsControl(r) {
		return true
	}
	_, ok := formattingRunes[r]
	return ok
}

func sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if requiresSanitization(r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
