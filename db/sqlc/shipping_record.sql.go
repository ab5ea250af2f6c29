package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const createShippingRecord = `-- name: CreateShippingRecord :one
INSERT INTO shipping_history (
    "timestamp",
    latitude,
    longitude,
    region,
    distance_km,
    predicted_price_ksh,
    predicted_eta_hours
) VALUES (
    $1, $2, $3, $4, $5, $6, $7
)
RETURNING id, "timestamp", latitude, longitude, region, distance_km, predicted_price_ksh, predicted_eta_hours
`

type CreateShippingRecordParams struct {
	Timestamp         time.Time     `json:"timestamp"`
	Latitude          float64       `json:"latitude"`
	Longitude         float64       `json:"longitude"`
	Region            string        `json:"region"`
	DistanceKm        float64       `json:"distance_km"`
	PredictedPriceKsh pgtype.Float8 `json:"predicted_price_ksh"`
	PredictedEtaHours pgtype.Float8 `json:"predicted_eta_hours"`
}

func (q *Queries) CreateShippingRecord(ctx context.Context, arg CreateShippingRecordParams) (ShippingRecord, error) {
	row := q.db.QueryRow(ctx, createShippingRecord,
		arg.Timestamp,
		arg.Latitude,
		arg.Longitude,
		arg.Region,
		arg.DistanceKm,
		arg.PredictedPriceKsh,
		arg.PredictedEtaHours,
	)
	var i ShippingRecord
	err := row.Scan(
		&i.ID,
		&i.Timestamp,
		&i.Latitude,
		&i.Longitude,
		&i.Region,
		&i.DistanceKm,
		&i.PredictedPriceKsh,
		&i.PredictedEtaHours,
	)
	return i, err
}

const listShippingRecords = `-- name: ListShippingRecords :many
SELECT id, "timestamp", latitude, longitude, region, distance_km, predicted_price_ksh, predicted_eta_hours
FROM shipping_history
ORDER BY id DESC
LIMIT $1
`

func (q *Queries) ListShippingRecords(ctx context.Context, limit int32) ([]ShippingRecord, error) {
	rows, err := q.db.Query(ctx, listShippingRecords, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ShippingRecord{}
	for rows.Next() {
		var i ShippingRecord
		if err := rows.Scan(
			&i.ID,
			&i.Timestamp,
			&i.Latitude,
			&i.Longitude,
			&i.Region,
			&i.DistanceKm,
			&i.PredictedPriceKsh,
			&i.PredictedEtaHours,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countShippingRecords = `-- name: CountShippingRecords :one
SELECT count(*) FROM shipping_history
`

func (q *Queries) CountShippingRecords(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countShippingRecords)
	var count int64
	err := row.Scan(&count)
	return count, err
}
