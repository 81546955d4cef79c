package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/subword/foundation/bpe"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no snapshot exists under the given name.
var ErrNotFound = errors.New("snapshot not found")

// document is the stored form of one named tokenizer snapshot.
type document struct {
	Name      string       `bson:"name"`
	Snapshot  bpe.Snapshot `bson:"snapshot"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

// SnapshotStore persists tokenizer snapshots by name, one document per
// name, latest write wins.
type SnapshotStore struct {
	col *mongo.Collection
}

// NewSnapshotStore creates the collection and its name index if needed.
func NewSnapshotStore(ctx context.Context, db *mongo.Database, collectionName string) (*SnapshotStore, error) {
	col, err := CreateCollection(ctx, db, collectionName)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	unique := true
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	}

	if _, err := col.Indexes().CreateOne(ctx, indexModel); err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SnapshotStore{col: col}, nil
}

// Save upserts the snapshot under the given name.
func (s *SnapshotStore) Save(ctx context.Context, name string, snapshot bpe.Snapshot) error {
	doc := document{
		Name:      name,
		Snapshot:  snapshot,
		UpdatedAt: time.Now().UTC(),
	}

	upsert := true
	filter := bson.D{{Key: "name", Value: name}}
	update := bson.D{{Key: "$set", Value: doc}}

	if _, err := s.col.UpdateOne(ctx, filter, update, &options.UpdateOptions{Upsert: &upsert}); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	return nil
}

// Load fetches the snapshot stored under the given name.
func (s *SnapshotStore) Load(ctx context.Context, name string) (bpe.Snapshot, error) {
	res := s.col.FindOne(ctx, bson.D{{Key: "name", Value: name}})

	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return bpe.Snapshot{}, ErrNotFound
		}
		return bpe.Snapshot{}, fmt.Errorf("find one: %w", err)
	}

	var doc document
	if err := res.Decode(&doc); err != nil {
		return bpe.Snapshot{}, fmt.Errorf("decode: %w", err)
	}

	return doc.Snapshot, nil
}

// Names lists the stored snapshot names.
func (s *SnapshotStore) Names(ctx context.Context) ([]string, error) {
	cur, err := s.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}

	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Name
	}

	return names, nil
}
