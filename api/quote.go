package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Finix99/smartship/shipping"
)

// quoteRateRequest accepts the canonical field names plus the legacy
// aliases from earlier service variants (latitude/longitude, county,
// billing_address_2).
type quoteRateRequest struct {
	Lat       *float64 `json:"lat"`
	Latitude  *float64 `json:"latitude"`
	Lon       *float64 `json:"lon"`
	Longitude *float64 `json:"longitude"`

	Region          string `json:"region"`
	County          string `json:"county"`
	BillingAddress2 string `json:"billing_address_2"`

	// OrderTotal absent requests an ETA-only estimate.
	OrderTotal *float64 `json:"order_total"`
	Timestamp  string   `json:"timestamp"`
}

type quoteRateResponse struct {
	DistanceKm        float64  `json:"distance_km"`
	PredictedPriceKsh *float64 `json:"predicted_price_ksh"`
	PredictedEtaHours *float64 `json:"predicted_eta_hours"`
	Mode              string   `json:"mode,omitempty"`
	Eligible          bool     `json:"eligible"`
	Error             string   `json:"error,omitempty"`
}

// timestampLayouts are tried in order when parsing request timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", value)
}

// coalesceFloat returns the first non-nil value.
func coalesceFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func coalesceString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// quoteRate prices one delivery request.
// POST /v1/rates/quote
func (server *Server) quoteRate(ctx *gin.Context) {
	var req quoteRateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid input: %s", err)))
		return
	}

	timestamp, err := parseTimestamp(req.Timestamp)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid input: %s", err)))
		return
	}

	params := shipping.QuoteParams{
		Latitude:   coalesceFloat(req.Lat, req.Latitude),
		Longitude:  coalesceFloat(req.Lon, req.Longitude),
		Address:    req.BillingAddress2,
		Region:     coalesceString(req.Region, req.County),
		OrderTotal: req.OrderTotal,
		Timestamp:  timestamp,
	}

	quote, err := server.quoter.Quote(ctx, params)
	if err != nil {
		server.quoteError(ctx, err)
		return
	}

	quotesIssuedTotal.WithLabelValues(quote.Mode).Inc()
	ctx.JSON(http.StatusOK, quoteRateResponse{
		DistanceKm:        quote.DistanceKm,
		PredictedPriceKsh: quote.PriceKsh,
		PredictedEtaHours: &quote.ETAHours,
		Mode:              quote.Mode,
		Eligible:          true,
	})
}

// quoteError maps orchestrator errors onto the HTTP surface. Only the
// caller-facing taxonomy appears here; model failures were already
// recovered inside the quoter.
func (server *Server) quoteError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, shipping.ErrBelowMinimumOrder):
		quotesRejectedTotal.WithLabelValues("below_minimum_order").Inc()
		ctx.JSON(http.StatusOK, quoteRateResponse{
			Eligible: false,
			Error:    err.Error(),
		})
	case errors.Is(err, shipping.ErrInvalidCoordinate),
		errors.Is(err, shipping.ErrMissingLocation):
		quotesRejectedTotal.WithLabelValues("invalid_input").Inc()
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
	case errors.Is(err, shipping.ErrGeocodingFailed):
		quotesRejectedTotal.WithLabelValues("geocoding_failed").Inc()
		ctx.JSON(http.StatusUnprocessableEntity, errorResponse(err))
	default:
		log.Error().Err(err).Msg("quote request failed")
		ctx.JSON(http.StatusInternalServerError, errorResponse(errors.New("internal error")))
	}
}
