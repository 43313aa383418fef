package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Job is the wire envelope pushed onto the queue. Payloads are opaque strings;
// the queue makes no promises beyond at-most-once, fire-and-forget delivery.
type Job struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Payload    string    `json:"payload"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Enqueuer submits named jobs for asynchronous execution.
type Enqueuer interface {
	Enqueue(ctx context.Context, name, payload string) (string, error)
}

// Queue is a Redis-list backed job queue shared by the API (producer) and the
// worker binary (consumer).
type Queue struct {
	client *redis.Client
	name   string
}

// NewQueue builds a queue over the given Redis client and list name.
func NewQueue(client *redis.Client, name string) *Queue {
	return &Queue{client: client, name: name}
}

// Enqueue pushes a job envelope and returns its generated ID.
func (q *Queue) Enqueue(ctx context.Context, name, payload string) (string, error) {
	job := Job{
		ID:         uuid.NewString(),
		Name:       name,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}

	raw, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job %s: %w", name, err)
	}
	if err := q.client.LPush(ctx, q.name, raw).Err(); err != nil {
		return "", fmt.Errorf("enqueue job %s: %w", name, err)
	}
	return job.ID, nil
}

// Name returns the Redis list the queue operates on.
func (q *Queue) Name() string {
	return q.name
}
