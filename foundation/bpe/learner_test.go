package bpe

import (
	"strings"
	"testing"
)

func TestBuildFrequencyTable(t *testing.T) {
	table := buildFrequencyTable("hello hello world")

	if len(table.order) != 2 {
		t.Fatalf("got %d forms, want 2", len(table.order))
	}

	helloForm := "h e l l o " + EndOfWord
	worldForm := "w o r l d " + EndOfWord

	if table.order[0] != helloForm || table.order[1] != worldForm {
		t.Errorf("order = %v, want [%q %q]", table.order, helloForm, worldForm)
	}

	if got := table.counts[helloForm]; got != 2 {
		t.Errorf("count(hello) = %d, want 2", got)
	}

	if got := table.counts[worldForm]; got != 1 {
		t.Errorf("count(world) = %d, want 1", got)
	}
}

func TestApplyRulePreservesOrder(t *testing.T) {
	table := buildFrequencyTable("ab cd ab")

	table.applyRule(MergeRule{Left: "c", Right: "d"})

	want := []string{"a b " + EndOfWord, "cd " + EndOfWord}
	for i, form := range table.order {
		if form != want[i] {
			t.Errorf("form %d = %q, want %q", i, form, want[i])
		}
	}

	if got := table.counts["cd "+EndOfWord]; got != 1 {
		t.Errorf("rewritten count = %d, want 1", got)
	}

	if _, ok := table.counts["c d "+EndOfWord]; ok {
		t.Error("old form still present after rewrite")
	}
}

func TestSeedVocabularyFirstAppearance(t *testing.T) {
	vocab := NewVocabulary()
	table := buildFrequencyTable("hello world")

	seedVocabulary(vocab, table)

	// Characters get ids after the four specials, in order of first
	// appearance, with the end-of-word marker seen after the first word.
	want := []struct {
		symbol string
		id     int
	}{
		{"h", 4}, {"e", 5}, {"l", 6}, {"o", 7}, {EndOfWord, 8},
		{"w", 9}, {"r", 10}, {"d", 11},
	}

	for _, c := range want {
		if got := vocab.IDOf(c.symbol); got != c.id {
			t.Errorf("IDOf(%q) = %d, want %d", c.symbol, got, c.id)
		}
	}

	if got := vocab.Size(); got != 12 {
		t.Errorf("Size = %d, want 12", got)
	}
}

func TestLearnMergesReachesTarget(t *testing.T) {
	vocab := NewVocabulary()
	table := buildFrequencyTable("hello hello world world")
	seedVocabulary(vocab, table)

	rules := learnMerges(vocab, table, 20, nil)

	if got := vocab.Size(); got != 20 {
		t.Fatalf("vocab size = %d, want 20", got)
	}

	if len(rules) != 8 {
		t.Fatalf("learned %d rules, want 8", len(rules))
	}

	// Every merged token is a vocabulary entry.
	for _, r := range rules {
		if !vocab.Contains(r.Merged()) {
			t.Errorf("merged token %q missing from vocabulary", r.Merged())
		}
	}
}

func TestLearnMergesEarlyConvergence(t *testing.T) {
	vocab := NewVocabulary()
	table := buildFrequencyTable("hello hello world world")
	seedVocabulary(vocab, table)

	rules := learnMerges(vocab, table, 100, nil)

	if got := vocab.Size(); got >= 100 {
		t.Fatalf("vocab size = %d, expected early convergence below 100", got)
	}

	// Converged means every word form has collapsed to a single symbol, so
	// a further count yields no pairs.
	if stats := countPairs(table); len(stats) != 0 {
		t.Errorf("pairs remain after convergence: %v", stats)
	}

	for _, form := range table.order {
		if strings.Contains(form, " ") {
			t.Errorf("form %q did not collapse to a single symbol", form)
		}
	}

	_ = rules
}

func TestLearnMergesMostFrequentFirst(t *testing.T) {
	vocab := NewVocabulary()
	table := buildFrequencyTable("llll llll ab")
	seedVocabulary(vocab, table)

	rules := learnMerges(vocab, table, vocab.Size()+1, nil)

	if len(rules) != 1 {
		t.Fatalf("learned %d rules, want 1", len(rules))
	}

	// (l,l) outweighs every other pair, so it must be the first rule.
	if rules[0] != (MergeRule{Left: "l", Right: "l"}) {
		t.Errorf("first rule = %v, want (l,l)", rules[0])
	}
}

func TestLearnMergesCountsNonIncreasing(t *testing.T) {
	vocab := NewVocabulary()
	table := buildFrequencyTable("hello hello world world the llama said ll")
	seedVocabulary(vocab, table)

	var counts []int
	progress := func(st TrainStatus) {
		counts = append(counts, st.PairCount)
	}

	learnMerges(vocab, table, 60, progress)

	// A later merge can never require more corpus occurrences than an
	// earlier one: each best pick is the maximum at its step and new pairs
	// never outnumber the pair that produced them.
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[i-1] {
			t.Fatalf("merge %d count %d exceeds earlier merge count %d", i, counts[i], counts[i-1])
		}
	}
}

func TestSplitSymbols(t *testing.T) {
	got := splitSymbols("ab" + EndOfWord)
	want := []string{"a", "b", EndOfWord}

	if len(got) != len(want) {
		t.Fatalf("splitSymbols = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("symbol %d = %q, want %q", i, got[i], want[i])
		}
	}
}
