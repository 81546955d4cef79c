package website

import (
	"github.com/ardanlabs/subword/foundation/bpe"
	"github.com/ardanlabs/subword/foundation/tokenstats"
)

type TrainRequest struct {
	Corpus          string `json:"corpus"`
	TargetVocabSize int    `json:"target_vocab_size"`
}

// TrainEvent is one SSE event on the train stream. Done marks the final
// event, which carries the post-training stats.
type TrainEvent struct {
	Status bpe.TrainStatus `json:"status"`
	Done   bool            `json:"done"`
	Stats  *bpe.Stats      `json:"stats,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type EncodeRequest struct {
	Text             string `json:"text"`
	AddSpecialTokens bool   `json:"add_special_tokens"`
}

type EncodeResponse struct {
	IDs    []int    `json:"ids"`
	Tokens []string `json:"tokens"`
}

type DecodeRequest struct {
	IDs               []int `json:"ids"`
	SkipSpecialTokens bool  `json:"skip_special_tokens"`
}

type DecodeResponse struct {
	Text string `json:"text"`
}

// StatsResponse extends the vocabulary stats with the most frequently
// produced tokens when a statistics store is configured.
type StatsResponse struct {
	bpe.Stats
	TopTokens []tokenstats.TokenCount `json:"top_tokens,omitempty"`
}

type SimilarityRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
}

type SimilarityResponse struct {
	Similarity float64 `json:"similarity"`
}
