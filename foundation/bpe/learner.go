package bpe

import "strings"

// MergeRule is one learned instruction: replace the adjacent (Left, Right)
// token pair with their concatenation. The order rules were learned in is
// part of the model and is replayed verbatim at encode time. Operands are
// carried as structured data from the pair counter, never reconstructed by
// splitting the merged string, so multi-character operands of unequal
// length stay exact.
type MergeRule struct {
	Left  string `json:"left" bson:"left"`
	Right string `json:"right" bson:"right"`
}

// Merged returns the token the rule produces.
func (r MergeRule) Merged() string {
	return r.Left + r.Right
}

// =============================================================================

// frequencyTable maps each word form (a space-delimited symbol sequence) to
// its corpus occurrence count. Insertion order is kept explicitly so every
// scan of the table is deterministic. It exists only for the duration of one
// training call.
type frequencyTable struct {
	order  []string
	counts map[string]int
}

// buildFrequencyTable normalizes the corpus and seeds the table with one
// entry per distinct word, the word form being the space-separated sequence
// of its characters plus the end-of-word marker.
func buildFrequencyTable(corpus string) *frequencyTable {
	table := frequencyTable{
		counts: make(map[string]int),
	}

	for _, word := range Normalize(corpus) {
		form := strings.Join(splitSymbols(word), " ")

		if _, ok := table.counts[form]; !ok {
			table.order = append(table.order, form)
		}
		table.counts[form]++
	}

	return &table
}

// applyRule rewrites every word form containing the rule's exact adjacent
// pair, replacing non-overlapping occurrences left to right. Positions in
// the iteration order are preserved: the rewritten form takes its
// predecessor's slot. Rewriting never collides two entries because a form's
// symbol concatenation always equals the underlying word.
func (ft *frequencyTable) applyRule(rule MergeRule) {
	needle := rule.Left + " " + rule.Right

	for i, form := range ft.order {
		if !strings.Contains(form, needle) {
			continue
		}

		rewritten := strings.Join(mergePass(strings.Split(form, " "), rule), " ")
		if rewritten == form {
			continue
		}

		ft.order[i] = rewritten
		ft.counts[rewritten] = ft.counts[form]
		delete(ft.counts, form)
	}
}

// =============================================================================

// seedVocabulary adds every distinct symbol observed in the table, in order
// of first appearance. For a fresh corpus that means each character followed
// by the end-of-word marker of the first word.
func seedVocabulary(vocab *Vocabulary, table *frequencyTable) {
	for _, form := range table.order {
		for _, symbol := range strings.Split(form, " ") {
			vocab.AddToken(symbol)
		}
	}
}

// learnMerges is the training loop. Each iteration counts pairs, selects the
// best one, records the rule, grows the vocabulary with the merged token and
// rewrites the table. The loop ends when the vocabulary reaches the target
// size or no pair remains, which is the normal early-convergence stop.
func learnMerges(vocab *Vocabulary, table *frequencyTable, targetVocabSize int, progress func(TrainStatus)) []MergeRule {
	var rules []MergeRule

	for vocab.Size() < targetVocabSize {
		best, ok := bestPair(countPairs(table))
		if !ok {
			break
		}

		rules = append(rules, best.rule)
		vocab.AddToken(best.rule.Merged())
		table.applyRule(best.rule)

		if progress != nil {
			progress(TrainStatus{
				VocabSize:  vocab.Size(),
				TargetSize: targetVocabSize,
				MergeCount: len(rules),
				Rule:       best.rule,
				PairCount:  best.count,
			})
		}
	}

	return rules
}

// splitSymbols breaks a marker-tagged word into its atomic symbols: one per
// character, plus the marker itself as the final symbol.
func splitSymbols(word string) []string {
	raw := strings.TrimSuffix(word, EndOfWord)

	symbols := make([]string, 0, len(raw)+1)
	for _, r := range raw {
		symbols = append(symbols, string(r))
	}

	return append(symbols, EndOfWord)
}
