package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartsupply/supply-core/internal/domain"
	apperrors "github.com/smartsupply/supply-core/pkg/errors"
	"github.com/smartsupply/supply-core/pkg/logging"
	"github.com/smartsupply/supply-core/pkg/metrics"
	"github.com/smartsupply/supply-core/pkg/resilience"
)

const snapshotCollection = "snapshots"

// SnapshotStore persists whole-system snapshots to MongoDB. Calls go through
// a circuit breaker so a dead MongoDB degrades to fast failures instead of
// piling up timeouts.
type SnapshotStore struct {
	collection *mongo.Collection
	breaker    *resilience.CircuitBreaker
	metrics    *metrics.Metrics
	logger     *logging.Logger
}

// NewSnapshotStore creates a snapshot store on the given database
func NewSnapshotStore(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *SnapshotStore {
	store := &SnapshotStore{
		collection: db.Collection(snapshotCollection),
		breaker:    resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("mongodb-snapshots"), m, logger),
		metrics:    m,
		logger:     logger.WithComponent("mongodb"),
	}
	store.ensureIndexes(context.Background())
	return store
}

func (s *SnapshotStore) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "takenAt", Value: -1}}},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		s.logger.WithError(err).Warn("Failed to create snapshot indexes")
	}
}

// Save appends a snapshot document
func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	start := time.Now()
	_, err := s.breaker.Execute(ctx, func() (interface{}, error) {
		return s.collection.InsertOne(ctx, snapshot)
	})
	s.metrics.RecordMongoDBOperation(snapshotCollection, "insert", err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the most recent snapshot
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	start := time.Now()
	result, err := s.breaker.Execute(ctx, func() (interface{}, error) {
		opts := options.FindOne().SetSort(bson.D{{Key: "takenAt", Value: -1}})

		var snapshot domain.Snapshot
		err := s.collection.FindOne(ctx, bson.M{}, opts).Decode(&snapshot)
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound("snapshot")
		}
		if err != nil {
			return nil, err
		}
		return &snapshot, nil
	})
	s.metrics.RecordMongoDBOperation(snapshotCollection, "find", err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}
	return result.(*domain.Snapshot), nil
}

// Prune removes snapshots older than the retention window, keeping at least
// the most recent one
func (s *SnapshotStore) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)

	start := time.Now()
	result, err := s.breaker.Execute(ctx, func() (interface{}, error) {
		latest := s.collection.FindOne(ctx, bson.M{},
			options.FindOne().SetSort(bson.D{{Key: "takenAt", Value: -1}}))

		var newest domain.Snapshot
		if err := latest.Decode(&newest); err != nil {
			if err == mongo.ErrNoDocuments {
				return int64(0), nil
			}
			return nil, err
		}

		filter := bson.M{"takenAt": bson.M{
			"$lt": cutoff,
			"$ne": newest.TakenAt,
		}}
		res, err := s.collection.DeleteMany(ctx, filter)
		if err != nil {
			return nil, err
		}
		return res.DeletedCount, nil
	})
	s.metrics.RecordMongoDBOperation(snapshotCollection, "delete", err == nil, time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return result.(int64), nil
}
