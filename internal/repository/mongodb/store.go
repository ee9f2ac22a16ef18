package mongodb

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/careercompass/backend/internal/config"
)

// Store owns the single shared mongo client for the process lifetime.
// Connection establishment is expensive, so it happens at most once:
// concurrent first callers block on the same in-flight attempt via
// sync.Once instead of racing to open duplicate connections.
type Store struct {
	cfg config.MongoConfig

	once   sync.Once
	client *mongo.Client
	err    error
}

// NewStore creates a lazy store. No connection is opened until the first
// caller asks for the client.
func NewStore(cfg config.MongoConfig) *Store {
	return &Store{cfg: cfg}
}

// Client returns the shared client, establishing the connection on first use.
func (s *Store) Client(ctx context.Context) (*mongo.Client, error) {
	s.once.Do(func() {
		// The connect deadline is independent of the first caller's
		// context so one cancelled request cannot poison the shared
		// handle for everyone awaiting it.
		connectCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ConnectTimeout)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(s.cfg.URI))
		if err != nil {
			s.err = err
			return
		}
		if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
			s.err = err
			return
		}
		s.client = client
	})
	if s.err != nil {
		return nil, s.err
	}
	return s.client, nil
}

// Database returns the configured database handle.
func (s *Store) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := s.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(s.cfg.Database), nil
}

// Ping checks connectivity for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	client, err := s.Client(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close disconnects the shared client. Only called on process shutdown.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
