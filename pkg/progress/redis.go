package progress

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/roomforge/pkg/observability"
)

// streamMaxLen caps each job stream so abandoned consumers cannot grow
// Redis unbounded.
const streamMaxLen = 1000

// Redis publishes updates onto a per-job Redis stream named
// "job_progress:{job_id}", the channel the API gateway relays to clients.
type Redis struct {
	client *redis.Client
	jobID  string
}

// NewRedis creates a stream publisher for one job.
func NewRedis(client *redis.Client, jobID string) *Redis {
	return &Redis{client: client, jobID: jobID}
}

// Publish implements Publisher. Publish errors are dropped: a stalled
// progress stream must never fail the solve itself.
func (r *Redis) Publish(ctx context.Context, fraction float64, message string) {
	observability.Job().OnJobProgress(ctx, r.jobID, fraction)
	_ = r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: fmt.Sprintf("job_progress:%s", r.jobID),
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"job_id":   r.jobID,
			"progress": fraction,
			"message":  message,
		},
	}).Err()
}
