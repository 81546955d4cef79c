package bpe_test

import (
	"slices"
	"testing"

	"github.com/ardanlabs/subword/foundation/bpe"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		give string
		want string
	}{
		{"lowercase", "Hello World", "hello world"},
		{"punctuation", "don't stop, now!", "don t stop now"},
		{"whitespace", "  a \t b\n\nc  ", "a b c"},
		{"digits kept", "room 42b", "room 42b"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bpe.NormalizeText(tt.give)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.give, got, tt.want)
			}
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"  MIXED case\tand\nspacing  ",
		"punct: (a) [b] {c}; d/e\\f",
		"",
	}

	for _, s := range inputs {
		once := bpe.NormalizeText(s)
		twice := bpe.NormalizeText(once)

		if once != twice {
			t.Errorf("NormalizeText is not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := bpe.Normalize("Hello, World!")
	want := []string{"hello" + bpe.EndOfWord, "world" + bpe.EndOfWord}

	if !slices.Equal(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}

	if got := bpe.Normalize("  \t\n "); len(got) != 0 {
		t.Errorf("Normalize of whitespace = %v, want no words", got)
	}
}

func TestNormalizeStableUnderNormalizeText(t *testing.T) {
	s := "The quick-brown FOX, jumps! over 2 lazy dogs."

	direct := bpe.Normalize(s)
	prepped := bpe.Normalize(bpe.NormalizeText(s))

	if !slices.Equal(direct, prepped) {
		t.Errorf("Normalize differs after NormalizeText: %v != %v", direct, prepped)
	}
}
