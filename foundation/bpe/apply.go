package bpe

import (
	"strings"
	"unicode/utf8"
)

// applyMerges segments one marker-tagged word into subword tokens by
// replaying the merge table in learned order, independent of pair frequency
// at apply time. A word of at most one character (the character, not the
// tagged form) is returned as its atomic symbols without consulting any
// rule.
func applyMerges(word string, merges []MergeRule) []string {
	symbols := splitSymbols(word)

	if utf8.RuneCountInString(strings.TrimSuffix(word, EndOfWord)) <= 1 {
		return symbols
	}

	for _, rule := range merges {
		if len(symbols) < 2 {
			break
		}

		symbols = mergePass(symbols, rule)
	}

	return symbols
}

// mergePass does one left-to-right scan, merging every adjacent pair equal
// to (Left, Right) into the single merged token. Both symbols are consumed
// and scanning continues after the merged pair, so occurrences never overlap
// and a freshly produced token is not re-checked against the same rule.
func mergePass(symbols []string, rule MergeRule) []string {
	out := make([]string, 0, len(symbols))

	for i := 0; i < len(symbols); {
		if i+1 < len(symbols) && symbols[i] == rule.Left && symbols[i+1] == rule.Right {
			out = append(out, rule.Merged())
			i += 2
			continue
		}

		out = append(out, symbols[i])
		i++
	}

	return out
}
