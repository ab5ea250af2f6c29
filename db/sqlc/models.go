package db

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ShippingRecord is one append-only history row: a prediction made for a
// request, or a reported actual delivery outcome. Price and ETA are null
// when the event did not carry them.
type ShippingRecord struct {
	ID                int64         `json:"id"`
	Timestamp         time.Time     `json:"timestamp"`
	Latitude          float64       `json:"latitude"`
	Longitude         float64       `json:"longitude"`
	Region            string        `json:"region"`
	DistanceKm        float64       `json:"distance_km"`
	PredictedPriceKsh pgtype.Float8 `json:"predicted_price_ksh"`
	PredictedEtaHours pgtype.Float8 `json:"predicted_eta_hours"`
}
