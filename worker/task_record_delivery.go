package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"

	db "github.com/Finix99/smartship/db/sqlc"
	"github.com/Finix99/smartship/shipping"
)

// TaskRecordDelivery appends a reported actual delivery outcome to the
// history store.
const TaskRecordDelivery = "history:record_delivery"

// PayloadRecordDelivery carries one externally-reported delivery outcome.
type PayloadRecordDelivery struct {
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Region             string    `json:"region"`
	OrderTimestamp     time.Time `json:"order_timestamp"`
	DeliveredTimestamp time.Time `json:"delivered_timestamp"`
	ActualPriceKsh     float64   `json:"actual_price_ksh"`
}

// DistributeTaskRecordDelivery enqueues the record-delivery task.
func (distributor *RedisTaskDistributor) DistributeTaskRecordDelivery(
	ctx context.Context,
	payload *PayloadRecordDelivery,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskRecordDelivery, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().Str("type", task.Type()).Str("queue", info.Queue).
		Int("max_retry", info.MaxRetry).Msg("enqueued task")
	return nil
}

// ProcessTaskRecordDelivery validates the payload, recomputes the distance
// from the shop origin and appends one history row. The actual price and
// the observed delivery duration land in the same price/eta columns the
// predictions use, so retraining reads one table.
func (processor *RedisTaskProcessor) ProcessTaskRecordDelivery(ctx context.Context, task *asynq.Task) error {
	var payload PayloadRecordDelivery
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	dest := shipping.Point{Latitude: payload.Latitude, Longitude: payload.Longitude}
	distanceKm, err := shipping.Distance(processor.origin, dest)
	if err != nil {
		// Bad coordinates will not improve on retry
		return fmt.Errorf("invalid delivery coordinates: %v: %w", err, asynq.SkipRetry)
	}

	region := payload.Region
	if region == "" {
		region = shipping.DefaultRegion
	}

	durationHours := payload.DeliveredTimestamp.Sub(payload.OrderTimestamp).Hours()
	if durationHours < 0 {
		return fmt.Errorf("delivered before ordered: %w", asynq.SkipRetry)
	}

	record, err := processor.store.CreateShippingRecord(ctx, db.CreateShippingRecordParams{
		Timestamp:         payload.DeliveredTimestamp,
		Latitude:          dest.Latitude,
		Longitude:         dest.Longitude,
		Region:            region,
		DistanceKm:        shipping.Round2(distanceKm),
		PredictedPriceKsh: pgtype.Float8{Float64: shipping.Round2(payload.ActualPriceKsh), Valid: true},
		PredictedEtaHours: pgtype.Float8{Float64: shipping.Round2(durationHours), Valid: true},
	})
	if err != nil {
		return fmt.Errorf("failed to append history record: %w", err)
	}

	log.Info().Str("type", task.Type()).Int64("record_id", record.ID).
		Str("region", region).Float64("distance_km", record.DistanceKm).
		Msg("processed task")
	return nil
}
