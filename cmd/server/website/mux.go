package website

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/subword/foundation/bpe"
	"github.com/ardanlabs/subword/foundation/mongodb"
	"github.com/ardanlabs/subword/foundation/tokenstats"
)

type Config struct {
	Tokenizer *bpe.Tokenizer
	Store     *mongodb.SnapshotStore
	Stats     *tokenstats.Store
	ModelName string
	Timeout   time.Duration
}

func WebAPI(cfg Config) http.Handler {
	mux := http.NewServeMux()

	rts := handlers{
		tok:       cfg.Tokenizer,
		store:     cfg.Store,
		tokStats:  cfg.Stats,
		modelName: cfg.ModelName,
		timeout:   cfg.Timeout,
	}

	mux.HandleFunc("POST /api/train", rts.train)
	mux.HandleFunc("POST /api/encode", rts.encode)
	mux.HandleFunc("POST /api/decode", rts.decode)
	mux.HandleFunc("GET /api/stats", rts.stats)
	mux.HandleFunc("GET /api/snapshot", rts.exportSnapshot)
	mux.HandleFunc("POST /api/snapshot", rts.importSnapshot)
	mux.HandleFunc("POST /api/similarity", rts.similarity)
	mux.HandleFunc("/", rts.fileServer())

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func sendError(w http.ResponseWriter, traceID string, context string, err error) {
	fmt.Printf("traceID: %s: %s: ERROR: %s\n", traceID, context, err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
