package spellcheck

import (
	"regexp"
	"unicode/utf16"
	"unicode/utf8"
)

// wordPattern matches a run of word characters (letters, marks, decimal
// digits and connector punctuation) with optional internal
// apostrophe-joined segments, e.g. "don't" or "writer’s".
var wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{Nd}\p{Pc}]+(?:['’][\p{L}\p{M}\p{Nd}\p{Pc}]+)*`)

// Token is one word found in a text, with byte and UTF-16 positions.
type Token struct {
	Word      string
	ByteStart int
	ByteEnd   int
	Index     int // UTF-16 code units from the start of the text
	Length    int // UTF-16 code units
}

// Tokenize returns the words of text in left-to-right order.
func Tokenize(text string) []Token {
	matches := wordPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	tokens := make([]Token, 0, len(matches))
	var mapper offsetMapper
	for _, m := range matches {
		index, length := mapper.advance(text, m[0], m[1])
		tokens = append(tokens, Token{
			Word:      text[m[0]:m[1]],
			ByteStart: m[0],
			ByteEnd:   m[1],
			Index:     index,
			Length:    length,
		})
	}
	return tokens
}

// offsetMapper walks a text once, converting byte offsets of successive,
// non-overlapping matches into UTF-16 offsets.
type offsetMapper struct {
	byteCursor  int
	utf16Cursor int
}

// advance moves the cursors to end and returns the UTF-16 start and length
// of text[start:end]. Calls must use non-decreasing, non-overlapping ranges.
func (m *offsetMapper) advance(text string, start, end int) (index, length int) {
	m.utf16Cursor += utf16Len(text[m.byteCursor:start])
	index = m.utf16Cursor
	length = utf16Len(text[start:end])
	m.utf16Cursor += length
	m.byteCursor = end
	return index, length
}

// utf16Len counts the UTF-16 code units needed to encode s. Invalid bytes
// count as one unit each, like the U+FFFD they decode to.
func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
