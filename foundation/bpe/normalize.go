package bpe

import (
	"strings"
	"unicode"
)

// EndOfWord is the sentinel appended to every word during normalization so
// that learned subwords never cross a word boundary. It contains characters
// normalization strips from ordinary text, so it cannot collide with corpus
// content. Decode turns it back into a single space.
const EndOfWord = "</w>"

// NormalizeText lowercases the text, replaces every character that is
// neither alphanumeric nor whitespace with a single space, and collapses
// runs of whitespace. The function is idempotent.
func NormalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Normalize turns raw text into the ordered sequence of word units used by
// both training and encoding: each normalized word with the end-of-word
// marker appended. Using the same function on both paths guarantees merges
// are applied across the same word boundaries they were learned on.
func Normalize(text string) []string {
	fields := strings.Fields(NormalizeText(text))

	words := make([]string, len(fields))
	for i, f := range fields {
		words[i] = f + EndOfWord
	}

	return words
}
