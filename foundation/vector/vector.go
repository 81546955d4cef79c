// Package vector provides cosine similarity over token-frequency vectors,
// used to compare how two texts exercise a shared vocabulary.
package vector

import "math"

// Data represents data that can be vectorized.
type Data interface {
	Vector() []float64
}

// Frequencies is a token-id histogram that vectorizes against a fixed
// vocabulary size, so two histograms under the same vocabulary are always
// comparable.
type Frequencies struct {
	Counts    map[int]int
	VocabSize int
}

// NewFrequencies builds a histogram from an encoded id sequence.
func NewFrequencies(ids []int, vocabSize int) Frequencies {
	counts := make(map[int]int, len(ids))
	for _, id := range ids {
		if id >= 0 && id < vocabSize {
			counts[id]++
		}
	}

	return Frequencies{
		Counts:    counts,
		VocabSize: vocabSize,
	}
}

// Vector lays the histogram out as one dimension per vocabulary id.
func (f Frequencies) Vector() []float64 {
	v := make([]float64, f.VocabSize)
	for id, count := range f.Counts {
		v[id] = float64(count)
	}

	return v
}

// =============================================================================

// SimilarityResult represents the result of performing a similarity check
// between two frequency vectors.
type SimilarityResult struct {
	Target     Data
	DataPoint  Data
	Similarity float64
	Percentage float64
}

// Similarity calculates the similarity between the target and each data point.
func Similarity(target Data, dataPoints ...Data) []SimilarityResult {
	results := make([]SimilarityResult, len(dataPoints))

	te := target.Vector()

	for i, dp := range dataPoints {
		similarity := CosineSimilarity(te, dp.Vector())

		results[i] = SimilarityResult{
			Target:     target,
			DataPoint:  dp,
			Similarity: similarity,
			Percentage: similarity * 100,
		}
	}

	return results
}

// CosineSimilarity takes two vectors and computes the similarity between
// them using a cosine algorithm.
func CosineSimilarity(x, y []float64) float64 {
	var sum, s1, s2 float64

	for i := range x {
		sum += x[i] * y[i]
		s1 += x[i] * x[i]
		s2 += y[i] * y[i]
	}

	if s1 == 0 || s2 == 0 {
		return 0.0
	}

	return sum / (math.Sqrt(s1) * math.Sqrt(s2))
}
