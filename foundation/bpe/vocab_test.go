package bpe_test

import (
	"testing"

	"github.com/ardanlabs/subword/foundation/bpe"
)

func TestVocabularySpecialTokens(t *testing.T) {
	v := bpe.NewVocabulary()

	checks := []struct {
		token string
		id    int
	}{
		{bpe.PadToken, bpe.PadID},
		{bpe.UnkToken, bpe.UnkID},
		{bpe.BosToken, bpe.BosID},
		{bpe.EosToken, bpe.EosID},
	}

	for _, c := range checks {
		if got := v.IDOf(c.token); got != c.id {
			t.Errorf("IDOf(%q) = %d, want %d", c.token, got, c.id)
		}

		if !v.IsSpecial(c.token) {
			t.Errorf("IsSpecial(%q) = false, want true", c.token)
		}
	}

	if got := v.Size(); got != 4 {
		t.Errorf("Size = %d, want 4", got)
	}

	if got := v.SpecialCount(); got != 4 {
		t.Errorf("SpecialCount = %d, want 4", got)
	}
}

func TestVocabularyAddToken(t *testing.T) {
	v := bpe.NewVocabulary()

	a := v.AddToken("a")
	b := v.AddToken("b")

	if a != 4 || b != 5 {
		t.Fatalf("ids = %d, %d, want 4, 5", a, b)
	}

	// Adding an existing token must be a no-op.
	if again := v.AddToken("a"); again != a {
		t.Errorf("AddToken(\"a\") twice = %d, want %d", again, a)
	}

	if got := v.Size(); got != 6 {
		t.Errorf("Size = %d, want 6", got)
	}

	if v.IsSpecial("a") {
		t.Error("IsSpecial(\"a\") = true, want false")
	}
}

func TestVocabularyUnknownFallback(t *testing.T) {
	v := bpe.NewVocabulary()

	if got := v.IDOf("never-seen"); got != bpe.UnkID {
		t.Errorf("IDOf unknown = %d, want UNK id %d", got, bpe.UnkID)
	}
}

func TestVocabularyInverse(t *testing.T) {
	v := bpe.NewVocabulary()
	id := v.AddToken("xyz")

	inverse := v.Inverse()

	if got := inverse[id]; got != "xyz" {
		t.Errorf("inverse[%d] = %q, want %q", id, got, "xyz")
	}

	if got := inverse[bpe.PadID]; got != bpe.PadToken {
		t.Errorf("inverse[%d] = %q, want %q", bpe.PadID, got, bpe.PadToken)
	}

	if _, ok := inverse[v.Size()]; ok {
		t.Error("inverse contains an id that was never assigned")
	}
}
