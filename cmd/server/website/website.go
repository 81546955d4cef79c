// Package website provides the api and web ui for the subword tokenizer demo.
package website

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/ardanlabs/subword/foundation/bpe"
	"github.com/ardanlabs/subword/foundation/mongodb"
	"github.com/ardanlabs/subword/foundation/tokenstats"
	"github.com/ardanlabs/subword/foundation/vector"
	"github.com/google/uuid"
)

//go:embed static
var website embed.FS

const (
	websiteDir  = "static"
	websitePath = "/"
)

type handlers struct {
	tok       *bpe.Tokenizer
	store     *mongodb.SnapshotStore
	tokStats  *tokenstats.Store
	modelName string
	timeout   time.Duration

	// The tokenizer is not safe for concurrent use, so every handler
	// takes this lock before touching it.
	mu sync.Mutex
}

func (h *handlers) train(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.NewString()

	fmt.Printf("traceID: %s: train: started\n", traceID)
	defer fmt.Printf("traceID: %s: train: complete\n", traceID)

	var req TrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, traceID, "train: NewDecoder", err)
		return
	}

	fmt.Printf("traceID: %s: train: corpus[%d bytes] target[%d]\n", traceID, len(req.Corpus), req.TargetVocabSize)

	flusher, ok := w.(http.Flusher)
	if !ok {
		sendError(w, traceID, "train: flusher", fmt.Errorf("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func(ev TrainEvent) {
		data, err := json.Marshal(ev)
		if err != nil {
			fmt.Printf("traceID: %s: train: marshal: ERROR: %s\n", traceID, err)
			return
		}

		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.tok.Progress = func(status bpe.TrainStatus) {
		send(TrainEvent{Status: status})
	}
	defer func() {
		h.tok.Progress = nil
	}()

	if err := h.tok.Train(req.Corpus, req.TargetVocabSize); err != nil {
		send(TrainEvent{Done: true, Error: err.Error()})
		return
	}

	stats := h.tok.Stats()
	send(TrainEvent{Done: true, Stats: &stats})

	if h.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		if err := h.store.Save(ctx, h.modelName, h.tok.Snapshot()); err != nil {
			fmt.Printf("traceID: %s: train: save snapshot: ERROR: %s\n", traceID, err)
		}
	}
}

func (h *handlers) encode(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.NewString()

	var req EncodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, traceID, "encode: NewDecoder", err)
		return
	}

	h.mu.Lock()
	ids := h.tok.Encode(req.Text, req.AddSpecialTokens)
	tokens := h.tok.Tokens(ids)

	if h.tokStats != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		if err := h.tokStats.Record(ctx, h.modelName, h.tok, req.Text); err != nil {
			fmt.Printf("traceID: %s: encode: record stats: ERROR: %s\n", traceID, err)
		}
		cancel()
	}
	h.mu.Unlock()

	fmt.Printf("traceID: %s: encode: text[%d bytes] ids[%d]\n", traceID, len(req.Text), len(ids))

	sendJSON(w, traceID, "encode", EncodeResponse{IDs: ids, Tokens: tokens})
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.NewString()

	var req DecodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, traceID, "decode: NewDecoder", err)
		return
	}

	h.mu.Lock()
	text := h.tok.Decode(req.IDs, req.SkipSpecialTokens)
	h.mu.Unlock()

	fmt.Printf("traceID: %s: decode: ids[%d]\n", traceID, len(req.IDs))

	sendJSON(w, traceID, "decode", DecodeResponse{Text: text})
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.NewString()

	h.mu.Lock()
	stats := h.tok.Stats()
	h.mu.Unlock()

	resp := StatsResponse{Stats: stats}

	if h.tokStats != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		top, err := h.tokStats.TopTokens(ctx, h.modelName, 20)
		if err != nil {
			fmt.Printf("traceID: %s: stats: top tokens: ERROR: %s\n", traceID, err)
		}
		resp.TopTokens = top
	}

	sendJSON(w, traceID, "stats", resp)
}

func (h *handlers) exportSnapshot(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.NewString()

	h.mu.Lock()
	snapshot := h.tok.Snapshot()
	h.mu.Unlock()

	sendJSON(w, traceID, "snapshot", snapshot)
}

func (h *handlers) importSnapshot(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.NewString()

	fmt.Printf("traceID: %s: snapshot: import started\n", traceID)

	var snapshot bpe.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		sendError(w, traceID, "snapshot: NewDecoder", err)
		return
	}

	h.mu.Lock()
	err := h.tok.Restore(snapshot)
	var stats bpe.Stats
	if err == nil {
		stats = h.tok.Stats()
	}
	h.mu.Unlock()

	if err != nil {
		fmt.Printf("traceID: %s: snapshot: restore: ERROR: %s\n", traceID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		if err := h.store.Save(ctx, h.modelName, snapshot); err != nil {
			fmt.Printf("traceID: %s: snapshot: save: ERROR: %s\n", traceID, err)
		}
	}

	sendJSON(w, traceID, "snapshot", stats)
}

func (h *handlers) similarity(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.NewString()

	var req SimilarityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, traceID, "similarity: NewDecoder", err)
		return
	}

	h.mu.Lock()
	idsA := h.tok.Encode(req.TextA, false)
	idsB := h.tok.Encode(req.TextB, false)
	size := h.tok.Stats().TotalVocabSize
	h.mu.Unlock()

	fa := vector.NewFrequencies(idsA, size)
	fb := vector.NewFrequencies(idsB, size)

	sendJSON(w, traceID, "similarity", SimilarityResponse{
		Similarity: vector.CosineSimilarity(fa.Vector(), fb.Vector()),
	})
}

func (h *handlers) fileServer() func(w http.ResponseWriter, r *http.Request) {
	fileMatcher := regexp.MustCompile(`\.[a-zA-Z]*$`)

	fSys, err := fs.Sub(website, websiteDir)
	if err != nil {
		fmt.Printf("switching to static folder: %s", err)
		return nil
	}

	fileServer := http.StripPrefix(websitePath, http.FileServer(http.FS(fSys)))

	f := func(w http.ResponseWriter, r *http.Request) {
		if !fileMatcher.MatchString(r.URL.Path) {
			p, err := website.ReadFile(fmt.Sprintf("%s/index.html", websiteDir))
			if err != nil {
				fmt.Printf("fileServer: index.html not found: %v\n", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(p)
			return
		}

		fileServer.ServeHTTP(w, r)
	}

	return f
}

func sendJSON(w http.ResponseWriter, traceID string, context string, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("traceID: %s: %s: encode response: ERROR: %s\n", traceID, context, err)
	}
}
