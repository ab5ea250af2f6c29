package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

// TaskDistributor enqueues background tasks.
type TaskDistributor interface {
	// DistributeTaskRecordDelivery enqueues a reported actual delivery
	// outcome for appending to the history store.
	DistributeTaskRecordDelivery(
		ctx context.Context,
		payload *PayloadRecordDelivery,
		opts ...asynq.Option,
	) error
}

// RedisTaskDistributor distributes tasks through a Redis-backed asynq
// queue.
type RedisTaskDistributor struct {
	client *asynq.Client
}

func NewRedisTaskDistributor(redisOpt asynq.RedisClientOpt) TaskDistributor {
	client := asynq.NewClient(redisOpt)
	return &RedisTaskDistributor{
		client: client,
	}
}
