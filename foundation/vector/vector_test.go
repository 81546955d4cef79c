package vector_test

import (
	"math"
	"testing"

	"github.com/ardanlabs/subword/foundation/vector"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		y    []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"scaled", []float64{1, 1}, []float64{5, 5}, 1},
		{"zero vector", []float64{0, 0}, []float64{1, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vector.CosineSimilarity(tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrequencies(t *testing.T) {
	f := vector.NewFrequencies([]int{0, 2, 2, 7, 99}, 10)

	v := f.Vector()

	if len(v) != 10 {
		t.Fatalf("vector length = %d, want 10", len(v))
	}

	if v[0] != 1 || v[2] != 2 || v[7] != 1 {
		t.Errorf("vector = %v", v)
	}

	// Ids outside the vocabulary are ignored.
	for _, x := range v[8:] {
		if x != 0 {
			t.Errorf("out-of-range id leaked into vector: %v", v)
		}
	}
}

func TestSimilarity(t *testing.T) {
	target := vector.NewFrequencies([]int{1, 1, 2}, 5)
	same := vector.NewFrequencies([]int{1, 1, 2}, 5)
	other := vector.NewFrequencies([]int{3, 4}, 5)

	results := vector.Similarity(target, same, other)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if math.Abs(results[0].Similarity-1) > 1e-9 {
		t.Errorf("similarity to identical histogram = %v, want 1", results[0].Similarity)
	}

	if results[1].Similarity != 0 {
		t.Errorf("similarity to disjoint histogram = %v, want 0", results[1].Similarity)
	}
}
