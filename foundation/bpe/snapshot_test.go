package bpe_test

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/ardanlabs/subword/foundation/bpe"
)

func TestSnapshotRestore(t *testing.T) {
	trained := bpe.New()
	if err := trained.Train("hello hello world world", 20); err != nil {
		t.Fatalf("Train: %v", err)
	}

	fresh := bpe.New()
	if err := fresh.Restore(trained.Snapshot()); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	text := "hello world"
	if got, want := fresh.Encode(text, true), trained.Encode(text, true); !slices.Equal(got, want) {
		t.Errorf("restored tokenizer encodes %v, want %v", got, want)
	}

	if got, want := fresh.Stats(), trained.Stats(); got != want {
		t.Errorf("restored stats = %+v, want %+v", got, want)
	}
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	trained := bpe.New()
	if err := trained.Train("pack my box with five dozen liquor jugs", 60); err != nil {
		t.Fatalf("Train: %v", err)
	}

	data, err := json.Marshal(trained.Snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var s bpe.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	fresh := bpe.New()
	if err := fresh.Restore(s); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	text := "five liquor jugs"
	if got, want := fresh.Decode(fresh.Encode(text, true), true), bpe.NormalizeText(text); got != want {
		t.Errorf("decode after JSON round trip = %q, want %q", got, want)
	}
}

func TestSnapshotOrderPreserved(t *testing.T) {
	tok := bpe.New()
	if err := tok.Train("hello hello world world", 20); err != nil {
		t.Fatalf("Train: %v", err)
	}

	s := tok.Snapshot()

	for i := 1; i < len(s.Vocab); i++ {
		if s.Vocab[i].ID <= s.Vocab[i-1].ID {
			t.Fatalf("vocab table not in id order at %d: %v", i, s.Vocab)
		}
	}

	if s.VocabSize != s.Vocab[len(s.Vocab)-1].ID+1 {
		t.Errorf("VocabSize = %d, want %d", s.VocabSize, s.Vocab[len(s.Vocab)-1].ID+1)
	}
}

func TestRestoreRejectsMalformed(t *testing.T) {
	base := bpe.New()
	if err := base.Train("abc abc", 16); err != nil {
		t.Fatalf("Train: %v", err)
	}

	good := base.Snapshot()

	tests := []struct {
		name   string
		mutate func(s *bpe.Snapshot)
	}{
		{
			"duplicate id",
			func(s *bpe.Snapshot) { s.Vocab[1].ID = s.Vocab[0].ID },
		},
		{
			"duplicate token",
			func(s *bpe.Snapshot) { s.Vocab[1].Token = s.Vocab[0].Token },
		},
		{
			"negative id",
			func(s *bpe.Snapshot) { s.Vocab[0].ID = -1 },
		},
		{
			"empty token",
			func(s *bpe.Snapshot) { s.Vocab[0].Token = "" },
		},
		{
			"special missing from table",
			func(s *bpe.Snapshot) { s.SpecialTokens[0].Token = "<GONE>" },
		},
		{
			"special id mismatch",
			func(s *bpe.Snapshot) { s.SpecialTokens[0].ID = 42 },
		},
		{
			"empty merge operand",
			func(s *bpe.Snapshot) { s.Merges[0].Left = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := base.Snapshot()
			tt.mutate(&bad)

			tok := bpe.New()
			if err := tok.Restore(good); err != nil {
				t.Fatalf("Restore(good): %v", err)
			}

			before := tok.Encode("abc", true)

			if err := tok.Restore(bad); err == nil {
				t.Fatal("Restore accepted a malformed snapshot")
			}

			// A failed restore must leave the tokenizer untouched.
			if after := tok.Encode("abc", true); !slices.Equal(before, after) {
				t.Errorf("state changed after failed restore: %v != %v", before, after)
			}
		})
	}
}
