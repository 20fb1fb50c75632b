package album

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/photogrid/photogrid/pkg/errors"
)

// Store is the album repository used by the API server.
type Store interface {
	Put(ctx context.Context, a *Album) error
	Get(ctx context.Context, id string) (*Album, error)
	List(ctx context.Context) ([]*Album, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// =============================================================================
// MongoStore - MongoDB-backed Album Repository
// =============================================================================

// MongoStore persists albums in a MongoDB collection, one document per album
// keyed by album ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig holds connection settings for the album store.
type MongoConfig struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // defaults to "photogrid"
	Collection string // defaults to "albums"
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "photogrid"
	}
	if cfg.Collection == "" {
		cfg.Collection = "albums"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to %s", cfg.URI)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping %s", cfg.URI)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put inserts or replaces the album document.
func (s *MongoStore) Put(ctx context.Context, a *Album) error {
	a.UpdatedAt = time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = a.UpdatedAt
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": a.ID},
		a,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "put album %s", a.ID)
	}
	return nil
}

// Get loads an album by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Album, error) {
	var a Album
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeAlbumNotFound, "album %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get album %s", id)
	}
	return &a, nil
}

// List returns all albums sorted by creation time, newest first.
func (s *MongoStore) List(ctx context.Context) ([]*Album, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list albums")
	}
	defer cur.Close(ctx)

	var albums []*Album
	if err := cur.All(ctx, &albums); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode albums")
	}
	return albums, nil
}

// Delete removes an album. Deleting a missing album is not an error.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete album %s", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)

// =============================================================================
// MemoryStore - In-memory Album Repository
// =============================================================================

// MemoryStore is an in-memory Store for tests and single-process serving
// without a MongoDB deployment. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	albums map[string]*Album
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{albums: make(map[string]*Album)}
}

// Put stores a copy of the album.
func (s *MemoryStore) Put(ctx context.Context, a *Album) error {
	cp := *a
	cp.Photos = append([]Photo(nil), a.Photos...)
	s.mu.Lock()
	s.albums[a.ID] = &cp
	s.mu.Unlock()
	return nil
}

// Get returns the album or ALBUM_NOT_FOUND.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Album, error) {
	s.mu.RLock()
	a, ok := s.albums[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeAlbumNotFound, "album %s not found", id)
	}
	return a, nil
}

// List returns all stored albums in unspecified order.
func (s *MemoryStore) List(ctx context.Context) ([]*Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Album, 0, len(s.albums))
	for _, a := range s.albums {
		out = append(out, a)
	}
	return out, nil
}

// Delete removes an album if present.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.albums, id)
	s.mu.Unlock()
	return nil
}

// Close does nothing.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
