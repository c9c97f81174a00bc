package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	console "eduport/internal/utils/logger"
)

// TaskClient enqueues export jobs and checks broker health.
type TaskClient struct {
	client      *asynq.Client
	redisClient *redis.Client
	logger      *console.Logger
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	})

	return &TaskClient{
		client:      asynq.NewClient(redisOpt),
		redisClient: redisClient,
		logger:      console.New("TASKS"),
	}
}

// Ping verifies the broker is reachable.
func (c *TaskClient) Ping(ctx context.Context) error {
	return c.redisClient.Ping(ctx).Err()
}

// EnqueueResourceExport schedules a CSV snapshot of one resource on the low
// priority queue.
func (c *TaskClient) EnqueueResourceExport(ctx context.Context, resourceName string) error {
	payload, err := json.Marshal(ResourceExportPayload{Resource: resourceName})
	if err != nil {
		return fmt.Errorf("encode export payload: %w", err)
	}

	task := asynq.NewTask(TypeResourceExport, payload, asynq.Queue(QueueLow), asynq.Retention(taskRetention))
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue export of %s: %w", resourceName, err)
	}

	c.logger.Info("enqueued %s export as %s", resourceName, info.ID)
	return nil
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	if err := c.redisClient.Close(); err != nil {
		c.logger.Warn("failed to close redis client: %v", err)
	}
	return c.client.Close()
}
