package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/Finix99/smartship/shipping"
	"github.com/Finix99/smartship/worker"
)

type reportDeliveryRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`

	Region string `json:"region"`
	County string `json:"county"`

	OrderTimestamp     string  `json:"order_timestamp" binding:"required"`
	DeliveredTimestamp string  `json:"delivered_timestamp" binding:"required"`
	ActualPriceKsh     float64 `json:"actual_price_ksh" binding:"required,gt=0"`
}

// reportDelivery accepts an actual delivery outcome and queues it for the
// history store. The distance is recomputed by the worker from the shop
// origin, never taken from the caller.
// POST /v1/deliveries/report
func (server *Server) reportDelivery(ctx *gin.Context) {
	var req reportDeliveryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid input: %s", err)))
		return
	}

	dest := shipping.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := dest.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	ordered, err := parseTimestamp(req.OrderTimestamp)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid input: %s", err)))
		return
	}
	delivered, err := parseTimestamp(req.DeliveredTimestamp)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid input: %s", err)))
		return
	}
	if delivered.Before(ordered) {
		ctx.JSON(http.StatusBadRequest, errorResponse(
			fmt.Errorf("invalid input: delivered_timestamp precedes order_timestamp")))
		return
	}

	payload := &worker.PayloadRecordDelivery{
		Latitude:           dest.Latitude,
		Longitude:          dest.Longitude,
		Region:             coalesceString(req.Region, req.County),
		OrderTimestamp:     ordered,
		DeliveredTimestamp: delivered,
		ActualPriceKsh:     req.ActualPriceKsh,
	}
	opts := []asynq.Option{
		asynq.MaxRetry(10),
		asynq.Queue(worker.QueueCritical),
	}

	if err := server.taskDistributor.DistributeTaskRecordDelivery(ctx, payload, opts...); err != nil {
		log.Error().Err(err).Msg("failed to enqueue delivery report")
		ctx.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("internal error")))
		return
	}

	deliveryReportsTotal.Inc()
	ctx.JSON(http.StatusAccepted, gin.H{"message": "delivery report accepted"})
}
