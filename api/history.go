package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	db "github.com/Finix99/smartship/db/sqlc"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type listHistoryRequest struct {
	Limit int32 `form:"limit"`
}

type historyRecordResponse struct {
	ID                int64     `json:"id"`
	Timestamp         time.Time `json:"timestamp"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	Region            string    `json:"region"`
	DistanceKm        float64   `json:"distance_km"`
	PredictedPriceKsh *float64  `json:"predicted_price_ksh"`
	PredictedEtaHours *float64  `json:"predicted_eta_hours"`
}

type listHistoryResponse struct {
	Total   int64                   `json:"total"`
	Records []historyRecordResponse `json:"records"`
}

// listHistory returns the most recent history rows, newest first. The
// table feeds model retraining, so this doubles as an export surface.
// GET /v1/rates/history
func (server *Server) listHistory(ctx *gin.Context) {
	var req listHistoryRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := server.store.ListShippingRecords(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list shipping history")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	total, err := server.store.CountShippingRecords(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count shipping history")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	resp := listHistoryResponse{
		Total:   total,
		Records: make([]historyRecordResponse, 0, len(records)),
	}
	for _, record := range records {
		resp.Records = append(resp.Records, newHistoryRecordResponse(record))
	}

	ctx.JSON(http.StatusOK, resp)
}

func newHistoryRecordResponse(record db.ShippingRecord) historyRecordResponse {
	resp := historyRecordResponse{
		ID:         record.ID,
		Timestamp:  record.Timestamp,
		Latitude:   record.Latitude,
		Longitude:  record.Longitude,
		Region:     record.Region,
		DistanceKm: record.DistanceKm,
	}
	if record.PredictedPriceKsh.Valid {
		price := record.PredictedPriceKsh.Float64
		resp.PredictedPriceKsh = &price
	}
	if record.PredictedEtaHours.Valid {
		eta := record.PredictedEtaHours.Float64
		resp.PredictedEtaHours = &eta
	}
	return resp
}
