// Package tokenstats stores per-token usage statistics in a SQL database
// and provides token-distribution comparisons between texts.
package tokenstats

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ardanlabs/subword/foundation/bpe"
	"github.com/ardanlabs/subword/foundation/vector"
	"github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS token_stats (
		model    TEXT NOT NULL,
		token_id INTEGER NOT NULL,
		token    TEXT NOT NULL,
		count    BIGINT NOT NULL,
		PRIMARY KEY (model, token_id)
	)`

const upsertSQL = `
	INSERT INTO token_stats (model, token_id, token, count)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (model, token_id) DO UPDATE SET count = token_stats.count + EXCLUDED.count`

const topTokensSQL = `
	SELECT token_id, token, count
	FROM token_stats
	WHERE model = ?
	ORDER BY count DESC, token_id ASC
	LIMIT ?`

// OpenDuckDB opens (or creates) an embedded duckdb database at the given
// path. An empty path keeps the database in memory.
func OpenDuckDB(path string) (*sqlx.DB, error) {
	connector, err := duckdb.NewConnector(path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating connector: %w", err)
	}

	return sqlx.NewDb(sql.OpenDB(connector), "duckdb"), nil
}

// OpenPostgres connects to a postgres database through the pgx driver.
func OpenPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	return db, nil
}

// =============================================================================

// TokenCount is one row of the usage report.
type TokenCount struct {
	TokenID int    `db:"token_id" json:"token_id"`
	Token   string `db:"token" json:"token"`
	Count   int64  `db:"count" json:"count"`
}

// Store records how often each vocabulary token shows up in encoded text.
type Store struct {
	db *sqlx.DB
}

// NewStore creates the schema if needed and returns the store.
func NewStore(ctx context.Context, db *sqlx.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record encodes the text with the tokenizer and accumulates the resulting
// token counts under the given model name.
func (s *Store) Record(ctx context.Context, model string, tok *bpe.Tokenizer, text string) error {
	ids := tok.Encode(text, false)

	counts := make(map[int]int64, len(ids))
	for _, id := range ids {
		counts[id]++
	}

	snapshot := tok.Snapshot()
	tokens := make(map[int]string, len(snapshot.Vocab))
	for _, e := range snapshot.Vocab {
		tokens[e.ID] = e.Token
	}

	query := s.db.Rebind(upsertSQL)

	for id, count := range counts {
		if _, err := s.db.ExecContext(ctx, query, model, id, tokens[id], count); err != nil {
			return fmt.Errorf("upsert token %d: %w", id, err)
		}
	}

	return nil
}

// TopTokens returns the most used tokens for the model, highest count first.
func (s *Store) TopTokens(ctx context.Context, model string, limit int) ([]TokenCount, error) {
	query := s.db.Rebind(topTokensSQL)

	var rows []TokenCount
	if err := s.db.SelectContext(ctx, &rows, query, model, limit); err != nil {
		return nil, fmt.Errorf("select top tokens: %w", err)
	}

	return rows, nil
}

// =============================================================================

// CompareTexts reports the cosine similarity between the token-frequency
// histograms of two texts under the same tokenizer. 1 means the texts use
// the vocabulary identically, 0 means they share no tokens.
func CompareTexts(tok *bpe.Tokenizer, a string, b string) float64 {
	size := tok.Stats().TotalVocabSize

	fa := vector.NewFrequencies(tok.Encode(a, false), size)
	fb := vector.NewFrequencies(tok.Encode(b, false), size)

	return vector.CosineSimilarity(fa.Vector(), fb.Vector())
}
