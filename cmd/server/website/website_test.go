package website_test

import (
	"context"
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ardanlabs/subword/cmd/server/website"
	"github.com/ardanlabs/subword/foundation/bpe"
	"github.com/ardanlabs/subword/foundation/client"
)

func newTestServer(t *testing.T) (*httptest.Server, *client.Tokenizer) {
	t.Helper()

	cfg := website.Config{
		Tokenizer: bpe.New(),
		Timeout:   time.Second,
	}

	srv := httptest.NewServer(website.WebAPI(cfg))
	t.Cleanup(srv.Close)

	return srv, client.NewTokenizer(srv.URL)
}

func TestTrainStream(t *testing.T) {
	_, tok := newTestServer(t)

	ch := make(chan client.TrainEvent, 100)

	if err := tok.Train(context.Background(), "hello hello world world", 20, ch); err != nil {
		t.Fatalf("train: %s", err)
	}

	var progress int
	var final client.TrainEvent

	for ev := range ch {
		if ev.Done {
			final = ev
			continue
		}
		progress++
	}

	if !final.Done {
		t.Fatal("no final event received")
	}

	if final.Error != "" {
		t.Fatalf("train failed: %s", final.Error)
	}

	if progress == 0 {
		t.Error("expected progress events before the final event")
	}

	if final.Stats == nil {
		t.Fatal("final event has no stats")
	}

	if got := final.Stats.TotalVocabSize; got != 20 {
		t.Errorf("got vocab size %d, want 20", got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	_, tok := newTestServer(t)

	ch := make(chan client.TrainEvent, 100)
	if err := tok.Train(context.Background(), "hello hello world world", 20, ch); err != nil {
		t.Fatalf("train: %s", err)
	}
	for range ch {
	}

	resp, err := tok.Encode(context.Background(), "hello world", false)
	if err != nil {
		t.Fatalf("encode: %s", err)
	}

	if len(resp.IDs) == 0 {
		t.Fatal("encode returned no ids")
	}

	if len(resp.Tokens) != len(resp.IDs) {
		t.Fatalf("got %d tokens for %d ids", len(resp.Tokens), len(resp.IDs))
	}

	text, err := tok.Decode(context.Background(), resp.IDs, true)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}

	if text != "hello world" {
		t.Errorf("got %q, want %q", text, "hello world")
	}

	stats, err := tok.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %s", err)
	}

	if stats.TotalVocabSize != 20 {
		t.Errorf("got vocab size %d, want 20", stats.TotalVocabSize)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	_, tok := newTestServer(t)

	ch := make(chan client.TrainEvent, 100)
	if err := tok.Train(context.Background(), "hello hello world world", 20, ch); err != nil {
		t.Fatalf("train: %s", err)
	}
	for range ch {
	}

	snapshot, err := tok.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %s", err)
	}

	if snapshot.VocabSize != 20 {
		t.Errorf("got snapshot vocab size %d, want 20", snapshot.VocabSize)
	}

	if err := tok.Restore(context.Background(), snapshot); err != nil {
		t.Fatalf("restore: %s", err)
	}

	snapshot.Vocab[0].Token = ""

	if err := tok.Restore(context.Background(), snapshot); err == nil {
		t.Error("expected restore of a malformed snapshot to fail")
	}
}

func TestSimilarity(t *testing.T) {
	_, tok := newTestServer(t)

	ch := make(chan client.TrainEvent, 100)
	if err := tok.Train(context.Background(), "hello hello world world", 20, ch); err != nil {
		t.Fatalf("train: %s", err)
	}
	for range ch {
	}

	sim, err := tok.Similarity(context.Background(), "hello world", "hello world")
	if err != nil {
		t.Fatalf("similarity: %s", err)
	}

	if math.Abs(sim-1) > 1e-9 {
		t.Errorf("got similarity %v for identical texts, want 1", sim)
	}
}
