package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const DefaultMaxRetry = 5

type Client struct {
	c        *asynq.Client
	maxRetry int
}

func NewClient(opt asynq.RedisConnOpt, maxRetry int) *Client {
	if maxRetry <= 0 {
		maxRetry = DefaultMaxRetry
	}

	return &Client{
		c:        asynq.NewClient(opt),
		maxRetry: maxRetry,
	}
}

// EnqueueDerivatives asks the derivative worker to build the resized copies of an image
func (c *Client) EnqueueDerivatives(ctx context.Context, ownerID string, fileID uint) error {
	t, err := NewDerivativesTask(ownerID, fileID)
	if err != nil {
		return err
	}

	return c.enqueue(ctx, t, QueueFiles, 2*time.Minute)
}

func (c *Client) EnqueueWelcome(ctx context.Context, userID string) error {
	t, err := NewWelcomeTask(userID)
	if err != nil {
		return err
	}

	return c.enqueue(ctx, t, QueueUsers, 30*time.Second)
}

func (c *Client) enqueue(ctx context.Context, t *asynq.Task, queue string, timeout time.Duration) error {
	info, err := c.c.EnqueueContext(ctx, t,
		asynq.Queue(queue),
		asynq.MaxRetry(c.maxRetry),
		asynq.Timeout(timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s job, %w", t.Type(), err)
	}

	zap.L().Debug("New job enqueued", zap.String("type", t.Type()), zap.String("job_id", info.ID), zap.String("queue", info.Queue))
	return nil
}

func (c *Client) Close() error {
	return c.c.Close()
}
