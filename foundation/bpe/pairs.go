package bpe

import "strings"

// pairStat aggregates one adjacent symbol pair across the whole frequency
// table. first is the position at which the pair was first seen in a single
// left-to-right scan of the table in insertion order; it makes the best-pair
// selection a total order instead of leaning on map iteration.
type pairStat struct {
	rule  MergeRule
	count int
	first int
}

// countPairs computes multiplicity-weighted adjacent-pair counts over the
// frequency table. Every adjacent position inside a word form contributes
// the word's occurrence count; a pair appearing twice in one form counts
// twice. Pairs are returned in first-seen order.
func countPairs(table *frequencyTable) []pairStat {
	seen := make(map[MergeRule]int)
	stats := make([]pairStat, 0, 64)

	for _, form := range table.order {
		count := table.counts[form]
		symbols := strings.Split(form, " ")

		for i := 0; i+1 < len(symbols); i++ {
			rule := MergeRule{Left: symbols[i], Right: symbols[i+1]}

			idx, ok := seen[rule]
			if !ok {
				idx = len(stats)
				seen[rule] = idx
				stats = append(stats, pairStat{rule: rule, first: idx})
			}

			stats[idx].count += count
		}
	}

	return stats
}

// bestPair selects the pair with the highest aggregate count. Ties break
// toward the pair seen first, so training is deterministic for a given
// corpus regardless of map iteration order.
func bestPair(stats []pairStat) (pairStat, bool) {
	if len(stats) == 0 {
		return pairStat{}, false
	}

	best := stats[0]
	for _, st := range stats[1:] {
		if st.count > best.count {
			best = st
		}
	}

	return best, true
}
