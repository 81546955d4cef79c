// This program runs a web service exposing the subword tokenizer over a
// JSON API, with an embedded single page app for interactive use. Training
// progress is streamed to the browser over SSE. When a MongoDB host is
// configured, trained snapshots are persisted and reloaded on startup.
//
// # Running the service:
//
//	$ go run ./cmd/server
//
// # Example calls:
//
//	$ curl -X POST localhost:8080/api/encode -d '{"text":"hello world"}'
//	$ curl localhost:8080/api/stats
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/subword/cmd/server/website"
	"github.com/ardanlabs/subword/foundation/bpe"
	"github.com/ardanlabs/subword/foundation/mongodb"
	"github.com/ardanlabs/subword/foundation/tokenstats"
	"github.com/joho/godotenv"
)

const (
	webReadTimeout     = 10 * time.Second
	webWriteTimeout    = 300 * time.Second
	webIdleTimeout     = 120 * time.Second
	webShutdownTimeout = 20 * time.Second
	storeTimeout       = 10 * time.Second
)

var (
	webAPIHost = "0.0.0.0:8080"
	statsDB    = ""
	mongoHost  = ""
	mongoUser  = "ardan"
	mongoPass  = "ardan"
	modelName  = "default"
)

func init() {
	godotenv.Load()

	if v := os.Getenv("WEB_API_HOST"); v != "" {
		webAPIHost = v
	}

	if v := os.Getenv("STATS_DB"); v != "" {
		statsDB = v
	}

	if v := os.Getenv("MONGO_HOST"); v != "" {
		mongoHost = v
	}

	if v := os.Getenv("MONGO_USER"); v != "" {
		mongoUser = v
	}

	if v := os.Getenv("MONGO_PASS"); v != "" {
		mongoPass = v
	}

	if v := os.Getenv("MODEL_NAME"); v != "" {
		modelName = v
	}
}

func main() {
	log.Default().SetOutput(os.Stdout)

	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	tok := bpe.New()

	// -------------------------------------------------------------------------

	var store *mongodb.SnapshotStore

	if mongoHost != "" {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		client, err := mongodb.Connect(ctx, mongoHost, mongoUser, mongoPass)
		if err != nil {
			return fmt.Errorf("error connecting to mongodb: %w", err)
		}
		defer client.Disconnect(context.Background())

		store, err = mongodb.NewSnapshotStore(ctx, client.Database("subword"), "snapshots")
		if err != nil {
			return fmt.Errorf("error creating snapshot store: %w", err)
		}

		snapshot, err := store.Load(ctx, modelName)
		switch {
		case err == nil:
			if err := tok.Restore(snapshot); err != nil {
				return fmt.Errorf("error restoring snapshot %q: %w", modelName, err)
			}
			fmt.Printf("startup: status: restored snapshot %q: vocab size %d\n", modelName, snapshot.VocabSize)

		case errors.Is(err, mongodb.ErrNotFound):
			fmt.Printf("startup: status: no snapshot %q, starting empty\n", modelName)

		default:
			return fmt.Errorf("error loading snapshot %q: %w", modelName, err)
		}
	}

	// -------------------------------------------------------------------------

	var stats *tokenstats.Store

	if statsDB != "" {
		db, err := tokenstats.OpenDuckDB(statsDB)
		if err != nil {
			return fmt.Errorf("error opening stats database: %w", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		stats, err = tokenstats.NewStore(ctx, db)
		if err != nil {
			return fmt.Errorf("error creating stats store: %w", err)
		}

		fmt.Printf("startup: status: token statistics database %q\n", statsDB)
	}

	// -------------------------------------------------------------------------

	fmt.Println("startup: status: initializing API support")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	cfg := website.Config{
		Tokenizer: tok,
		Store:     store,
		Stats:     stats,
		ModelName: modelName,
		Timeout:   storeTimeout,
	}

	api := http.Server{
		Addr:         webAPIHost,
		Handler:      website.WebAPI(cfg),
		ReadTimeout:  webReadTimeout,
		WriteTimeout: webWriteTimeout,
		IdleTimeout:  webIdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		fmt.Println("startup: status: api router and website started: host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		fmt.Println("shutdown: status: shutdown started: signal", sig)
		defer fmt.Println("shutdown: status: shutdown complete: signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), webShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
