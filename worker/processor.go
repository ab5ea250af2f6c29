package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	db "github.com/Finix99/smartship/db/sqlc"
	"github.com/Finix99/smartship/shipping"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// TaskProcessor consumes and handles queued tasks.
type TaskProcessor interface {
	Start() error
	Shutdown()
	// ProcessTaskRecordDelivery appends a reported delivery outcome to
	// the history store.
	ProcessTaskRecordDelivery(ctx context.Context, task *asynq.Task) error
}

// RedisTaskProcessor processes tasks from the Redis-backed asynq queues.
// It recomputes distances from the fixed shop origin rather than trusting
// any caller-supplied value.
type RedisTaskProcessor struct {
	server *asynq.Server
	store  db.Store
	origin shipping.Point
}

func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, store db.Store, origin shipping.Point) TaskProcessor {
	logger := NewLogger()

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).
					Bytes("payload", task.Payload()).Msg("process task failed")
			}),
			Logger:          logger,
			ShutdownTimeout: 10 * time.Second,
		},
	)

	return &RedisTaskProcessor{
		server: server,
		store:  store,
		origin: origin,
	}
}

// NewTestTaskProcessor creates a processor instance for tests; it does not
// need a Redis connection.
func NewTestTaskProcessor(store db.Store, origin shipping.Point) *RedisTaskProcessor {
	return &RedisTaskProcessor{
		store:  store,
		origin: origin,
	}
}

func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskRecordDelivery, processor.ProcessTaskRecordDelivery)

	return processor.server.Start(mux)
}

func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}
