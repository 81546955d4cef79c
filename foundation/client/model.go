package client

import "github.com/ardanlabs/subword/foundation/bpe"

type Error struct {
	Err struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (err *Error) Error() string {
	return err.Err.Message
}

// =============================================================================

type TrainRequest struct {
	Corpus          string `json:"corpus"`
	TargetVocabSize int    `json:"target_vocab_size"`
}

// TrainEvent is one SSE event from the train stream. Done is set on the
// final event, which also carries the post-training stats.
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

type SimilarityRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
}

type SimilarityResponse struct {
	Similarity float64 `json:"similarity"`
}
