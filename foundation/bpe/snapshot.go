package bpe

import (
	"fmt"
	"sort"
)

// TokenEntry is one row of the snapshot's token table.
type TokenEntry struct {
	Token string `json:"token" bson:"token"`
	ID    int    `json:"id" bson:"id"`
}

// Snapshot is the flat, order-preserving record of a tokenizer's state: the
// full token table in id order, the merge table in learned order, the
// special-token table and the vocabulary size scalar. The caller decides how
// to persist it; the core only defines the shape.
type Snapshot struct {
	Vocab         []TokenEntry `json:"vocab" bson:"vocab"`
	Merges        []MergeRule  `json:"merges" bson:"merges"`
	SpecialTokens []TokenEntry `json:"special_tokens" bson:"special_tokens"`
	VocabSize     int          `json:"vocab_size" bson:"vocab_size"`
}

// Snapshot exports the tokenizer's complete state.
func (t *Tokenizer) Snapshot() Snapshot {
	vocab := make([]TokenEntry, 0, len(t.vocab.tokens))
	for token, id := range t.vocab.tokens {
		vocab = append(vocab, TokenEntry{Token: token, ID: id})
	}

	sort.Slice(vocab, func(i, j int) bool {
		return vocab[i].ID < vocab[j].ID
	})

	special := make([]TokenEntry, 0, len(t.vocab.special))
	for token, id := range t.vocab.special {
		special = append(special, TokenEntry{Token: token, ID: id})
	}

	sort.Slice(special, func(i, j int) bool {
		return special[i].ID < special[j].ID
	})

	merges := make([]MergeRule, len(t.merges))
	copy(merges, t.merges)

	return Snapshot{
		Vocab:         vocab,
		Merges:        merges,
		SpecialTokens: special,
		VocabSize:     t.vocab.Size(),
	}
}

// Restore replaces the tokenizer's state with the snapshot. The snapshot is
// validated first and the receiver is left untouched when validation fails,
// so a restore is all-or-nothing.
func (t *Tokenizer) Restore(s Snapshot) error {
	if err := validateSnapshot(s); err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}

	vocab := Vocabulary{
		tokens:  make(map[string]int, len(s.Vocab)),
		special: make(map[string]int, len(s.SpecialTokens)),
	}

	for _, e := range s.Vocab {
		vocab.tokens[e.Token] = e.ID
		if e.ID+1 > vocab.size {
			vocab.size = e.ID + 1
		}
	}

	for _, e := range s.SpecialTokens {
		vocab.special[e.Token] = e.ID
	}

	if s.VocabSize > vocab.size {
		vocab.size = s.VocabSize
	}

	merges := make([]MergeRule, len(s.Merges))
	copy(merges, s.Merges)

	t.vocab = &vocab
	t.merges = merges

	return nil
}

// validateSnapshot performs the structural checks that keep a malformed
// snapshot from producing an inconsistent tokenizer: unique tokens and ids,
// special tokens present in the table under the same id, and intact merge
// rules.
func validateSnapshot(s Snapshot) error {
	ids := make(map[int]string, len(s.Vocab))
	tokens := make(map[string]int, len(s.Vocab))

	for _, e := range s.Vocab {
		if e.Token == "" {
			return fmt.Errorf("empty token at id %d", e.ID)
		}

		if e.ID < 0 {
			return fmt.Errorf("token %q has negative id %d", e.Token, e.ID)
		}

		if prev, ok := ids[e.ID]; ok {
			return fmt.Errorf("id %d assigned to both %q and %q", e.ID, prev, e.Token)
		}

		if _, ok := tokens[e.Token]; ok {
			return fmt.Errorf("token %q appears twice", e.Token)
		}

		ids[e.ID] = e.Token
		tokens[e.Token] = e.ID
	}

	for _, e := range s.SpecialTokens {
		id, ok := tokens[e.Token]
		if !ok {
			return fmt.Errorf("special token %q missing from the vocab table", e.Token)
		}

		if id != e.ID {
			return fmt.Errorf("special token %q listed with id %d but stored at %d", e.Token, e.ID, id)
		}
	}

	for i, r := range s.Merges {
		if r.Left == "" || r.Right == "" {
			return fmt.Errorf("merge rule %d has an empty operand", i)
		}
	}

	return nil
}
