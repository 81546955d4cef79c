package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ardanlabs/subword/foundation/bpe"
)

// Tokenizer is a typed client for the subword service API.
type Tokenizer struct {
	cln    *Client
	clnSSE *SSEClient[TrainEvent]
	url    string
}

// NewTokenizer constructs a client for the service at the given base url.
func NewTokenizer(url string, options ...func(cln *Client)) *Tokenizer {
	return &Tokenizer{
		cln:    New(NoopLogger, options...),
		clnSSE: NewSSE[TrainEvent](NoopLogger, options...),
		url:    url,
	}
}

// Train starts a training run and streams progress events to the channel.
// The channel is closed when training completes.
func (t *Tokenizer) Train(ctx context.Context, corpus string, targetVocabSize int, ch chan TrainEvent) error {
	body := TrainRequest{
		Corpus:          corpus,
		TargetVocabSize: targetVocabSize,
	}

	if err := t.clnSSE.Do(ctx, http.MethodPost, t.url+"/api/train", body, ch); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	return nil
}

// Encode converts text to token ids on the remote tokenizer.
func (t *Tokenizer) Encode(ctx context.Context, text string, addSpecialTokens bool) (EncodeResponse, error) {
	body := EncodeRequest{
		Text:             text,
		AddSpecialTokens: addSpecialTokens,
	}

	var resp EncodeResponse
	if err := t.cln.Do(ctx, http.MethodPost, t.url+"/api/encode", body, &resp); err != nil {
		return EncodeResponse{}, fmt.Errorf("encode: %w", err)
	}

	return resp, nil
}

// Decode converts token ids back to text on the remote tokenizer.
func (t *Tokenizer) Decode(ctx context.Context, ids []int, skipSpecialTokens bool) (string, error) {
	body := DecodeRequest{
		IDs:               ids,
		SkipSpecialTokens: skipSpecialTokens,
	}

	var resp DecodeResponse
	if err := t.cln.Do(ctx, http.MethodPost, t.url+"/api/decode", body, &resp); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	return resp.Text, nil
}

// Stats fetches the remote tokenizer's vocabulary stats.
func (t *Tokenizer) Stats(ctx context.Context) (bpe.Stats, error) {
	var stats bpe.Stats
	if err := t.cln.Do(ctx, http.MethodGet, t.url+"/api/stats", nil, &stats); err != nil {
		return bpe.Stats{}, fmt.Errorf("stats: %w", err)
	}

	return stats, nil
}

// Snapshot fetches the remote tokenizer's full state.
func (t *Tokenizer) Snapshot(ctx context.Context) (bpe.Snapshot, error) {
	var s bpe.Snapshot
	if err := t.cln.Do(ctx, http.MethodGet, t.url+"/api/snapshot", nil, &s); err != nil {
		return bpe.Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}

	return s, nil
}

// Restore replaces the remote tokenizer's state with the snapshot.
func (t *Tokenizer) Restore(ctx context.Context, s bpe.Snapshot) error {
	var resp struct {
		Restored bool `json:"restored"`
	}

	if err := t.cln.Do(ctx, http.MethodPost, t.url+"/api/snapshot", s, &resp); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	return nil
}

// Similarity compares the token distributions of two texts on the remote
// tokenizer.
func (t *Tokenizer) Similarity(ctx context.Context, textA string, textB string) (float64, error) {
	body := SimilarityRequest{
		TextA: textA,
		TextB: textB,
	}

	var resp SimilarityResponse
	if err := t.cln.Do(ctx, http.MethodPost, t.url+"/api/similarity", body, &resp); err != nil {
		return 0, fmt.Errorf("similarity: %w", err)
	}

	return resp.Similarity, nil
}
