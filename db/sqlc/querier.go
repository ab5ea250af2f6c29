package db

import (
	"context"
)

type Querier interface {
	// CreateShippingRecord appends one history row. Rows are never
	// updated or deleted.
	CreateShippingRecord(ctx context.Context, arg CreateShippingRecordParams) (ShippingRecord, error)
	// ListShippingRecords returns the most recent rows, newest first.
	ListShippingRecords(ctx context.Context, limit int32) ([]ShippingRecord, error)
	// CountShippingRecords returns the total number of history rows.
	CountShippingRecords(ctx context.Context) (int64, error)
}

var _ Querier = (*Queries)(nil)
