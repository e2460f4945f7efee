// Package tokenize splits document text into character-offset spans for
// token-level annotation and dataset building.
package tokenize

import (
	"regexp"
	"unicode/utf8"
)

// Token is a span of non-whitespace text. Start and End are rune offsets
// into the original text, matching the offsets used by annotation spans.
type Token struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Matches runs of word characters, $-prefixed numeric literals, or any
// other run of non-space characters, leftmost first. The word class is
// spelled out because Go's \w is ASCII-only and would split words at
// interior non-ASCII letters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+|\$[\d.]+|\S+`)

// Tokenize splits text into tokens. Whitespace separates tokens and is not
// represented in the output. The function is pure: the same text always
// yields the same spans.
func Tokenize(text string) []Token {
	matches := tokenPattern.FindAllStringIndex(text, -1)
	tokens := make([]Token, 0, len(matches))

	// The regexp engine reports byte offsets; annotation spans address
	// runes. Track the rune count up to the previous match to convert.
	runeOff := 0
	prevByte := 0
	for _, m := range matches {
		runeOff += utf8.RuneCountInString(text[prevByte:m[0]])
		start := runeOff
		tok := text[m[0]:m[1]]
		runeOff += utf8.RuneCountInString(tok)
		prevByte = m[1]
		tokens = append(tokens, Token{Start: start, End: runeOff, Text: tok})
	}
	return tokens
}

// Index maps every rune offset covered by a token to that token's position
// in the slice. Whitespace offsets are absent from the map.
func Index(tokens []Token) map[int]int {
	index := make(map[int]int)
	for i, tok := range tokens {
		for off := tok.Start; off < tok.End; off++ {
			index[off] = i
		}
	}
	return index
}
