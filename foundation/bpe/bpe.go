// Package bpe provides a trainable byte-pair-encoding subword tokenizer.
// A tokenizer learns a fixed-size vocabulary of subword units from a text
// corpus by repeatedly merging the most frequent adjacent symbol pair, then
// uses the learned merge table to convert text to token ids and back.
package bpe

import (
	"fmt"
	"strings"
)

// TrainStatus carries the information reported by the training loop after
// each learned merge. The Progress callback is purely observational and has
// no effect on the training result.
type TrainStatus struct {
	VocabSize  int
	TargetSize int
	MergeCount int
	Rule       MergeRule
	PairCount  int
}

// Stats describes the current shape of the vocabulary.
type Stats struct {
	TotalVocabSize    int `json:"total_vocab_size"`
	SpecialTokenCount int `json:"special_token_count"`
	RegularTokenCount int `json:"regular_token_count"`
	MergeRuleCount    int `json:"merge_rule_count"`
}

// Tokenizer owns a vocabulary and an ordered merge table. A Tokenizer is not
// safe for concurrent use: calls to Train, or calls to Encode/Decode while a
// Train is in flight, must be serialized by the caller. Independent Tokenizer
// values share no state and can be used concurrently.
type Tokenizer struct {
	vocab  *Vocabulary
	merges []MergeRule

	// Progress, when set, is called once per learned merge during Train.
	Progress func(TrainStatus)
}

// New constructs a tokenizer whose vocabulary holds only the four special
// tokens. Training populates the rest.
func New() *Tokenizer {
	return &Tokenizer{
		vocab: NewVocabulary(),
	}
}

// Train learns merge rules from the corpus until the vocabulary reaches
// targetVocabSize or no adjacent pair remains to merge. Merge rules from a
// previous training run are kept and extended, never retracted.
func (t *Tokenizer) Train(corpus string, targetVocabSize int) error {
	if targetVocabSize < t.vocab.Size() {
		return fmt.Errorf("target vocab size %d is below the current size %d", targetVocabSize, t.vocab.Size())
	}

	table := buildFrequencyTable(corpus)
	seedVocabulary(t.vocab, table)

	rules := learnMerges(t.vocab, table, targetVocabSize, t.Progress)
	t.merges = append(t.merges, rules...)

	return nil
}

// Encode converts text to a sequence of token ids. When addSpecialTokens is
// true the sequence is wrapped in BOS/EOS. Subwords never seen during
// training map to the UNK id.
func (t *Tokenizer) Encode(text string, addSpecialTokens bool) []int {
	words := Normalize(text)

	ids := make([]int, 0, len(words)*4+2)

	if addSpecialTokens {
		ids = append(ids, BosID)
	}

	for _, word := range words {
		for _, token := range applyMerges(word, t.merges) {
			ids = append(ids, t.vocab.IDOf(token))
		}
	}

	if addSpecialTokens {
		ids = append(ids, EosID)
	}

	return ids
}

// Decode converts token ids back to text. Ids outside the vocabulary are
// dropped. When skipSpecialTokens is true, special tokens are dropped as
// well. End-of-word markers become single spaces and runs of whitespace
// collapse to one space.
func (t *Tokenizer) Decode(ids []int, skipSpecialTokens bool) string {
	inverse := t.vocab.Inverse()

	var b strings.Builder

	for _, id := range ids {
		token, ok := inverse[id]
		if !ok {
			continue
		}

		if skipSpecialTokens && t.vocab.IsSpecial(token) {
			continue
		}

		b.WriteString(token)
	}

	text := strings.ReplaceAll(b.String(), EndOfWord, " ")

	return strings.Join(strings.Fields(text), " ")
}

// Tokens maps ids back to their token strings. Ids outside the vocabulary
// map to an empty string.
func (t *Tokenizer) Tokens(ids []int) []string {
	inverse := t.vocab.Inverse()

	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = inverse[id]
	}

	return tokens
}

// Stats reports the current vocabulary and merge table sizes.
func (t *Tokenizer) Stats() Stats {
	special := t.vocab.SpecialCount()

	return Stats{
		TotalVocabSize:    t.vocab.Size(),
		SpecialTokenCount: special,
		RegularTokenCount: t.vocab.TokenCount() - special,
		MergeRuleCount:    len(t.merges),
	}
}
