package api

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/roomforge/pkg/errors"
	"github.com/matzehuels/roomforge/pkg/pipeline"
)

// Job statuses.
const (
	JobQueued    = "queued"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Job is one asynchronous solve request tracked by the API.
type Job struct {
	ID          string           `json:"id" bson:"_id"`
	Status      string           `json:"status" bson:"status"`
	Progress    float64          `json:"progress" bson:"progress"`
	Message     string           `json:"message,omitempty" bson:"message,omitempty"`
	Result      *pipeline.Result `json:"result,omitempty" bson:"result,omitempty"`
	Error       string           `json:"error,omitempty" bson:"error,omitempty"`
	ErrorCode   string           `json:"error_code,omitempty" bson:"error_code,omitempty"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// JobStore persists jobs across requests. Implementations must be safe for
// concurrent use.
type JobStore interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, job *Job) error
	Close(ctx context.Context) error
}

// =============================================================================
// In-Memory Store
// =============================================================================

// MemoryJobStore keeps jobs in process memory. Suitable for single-instance
// deployments and tests; jobs are lost on restart.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewMemoryJobStore creates an empty in-memory store.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]Job)}
}

// Create implements JobStore.
func (s *MemoryJobStore) Create(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

// Get implements JobStore.
func (s *MemoryJobStore) Get(_ context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeJobNotFound, "job %q not found", id)
	}
	return &job, nil
}

// Update implements JobStore.
func (s *MemoryJobStore) Update(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return errors.New(errors.ErrCodeJobNotFound, "job %q not found", job.ID)
	}
	s.jobs[job.ID] = *job
	return nil
}

// Close implements JobStore.
func (s *MemoryJobStore) Close(context.Context) error { return nil }

// =============================================================================
// MongoDB Store
// =============================================================================

// MongoJobStore persists jobs in a MongoDB collection, for deployments where
// multiple API instances share job state.
type MongoJobStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoJobStore connects to MongoDB and returns a job store backed by the
// "jobs" collection of the given database.
func NewMongoJobStore(ctx context.Context, uri, database string) (*MongoJobStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "pinging mongodb")
	}
	return &MongoJobStore{
		client: client,
		coll:   client.Database(database).Collection("jobs"),
	}, nil
}

// Create implements JobStore.
func (s *MongoJobStore) Create(ctx context.Context, job *Job) error {
	if _, err := s.coll.InsertOne(ctx, job); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "inserting job %s", job.ID)
	}
	return nil
}

// Get implements JobStore.
func (s *MongoJobStore) Get(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeJobNotFound, "job %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "loading job %s", id)
	}
	return &job, nil
}

// Update implements JobStore.
func (s *MongoJobStore) Update(ctx context.Context, job *Job) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": job.ID}, job)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "updating job %s", job.ID)
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeJobNotFound, "job %q not found", job.ID)
	}
	return nil
}

// Close implements JobStore.
func (s *MongoJobStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
