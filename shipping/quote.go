package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"

	db "github.com/Finix99/smartship/db/sqlc"
)

// Mode labels tag which path actually produced the price, or that no
// price was produced at all. They are a contract to downstream consumers,
// not decoration.
const (
	ModeAIModel   = "ai-model"
	ModeRuleBased = "rule-based"
	ModeETAOnly   = "eta-only"
)

// DefaultRegion is assumed when a request carries no region label.
const DefaultRegion = "Unknown"

var (
	// ErrGeocodingFailed means the address label could not be resolved to
	// coordinates.
	ErrGeocodingFailed = errors.New("address could not be resolved to coordinates")

	// ErrMissingLocation means the request carried neither usable
	// coordinates nor an address to geocode.
	ErrMissingLocation = errors.New("request has neither coordinates nor an address")
)

// Geocoder resolves a free-form address or region label to a coordinate.
// Implementations enforce their own bounded wait.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Point, error)
}

// QuoteParams is the canonical, already-parsed request the orchestrator
// works on. Latitude/Longitude are nil when the caller supplied an address
// instead of explicit coordinates. A nil OrderTotal requests an ETA-only
// estimate: no eligibility gate and no price.
type QuoteParams struct {
	Latitude   *float64
	Longitude  *float64
	Address    string
	Region     string
	OrderTotal *float64
	Timestamp  time.Time
}

// Quote is the outcome of one request. All numeric fields are rounded to
// 2 decimal places. PriceKsh is nil on the eta-only path.
type Quote struct {
	DistanceKm float64
	PriceKsh   *float64
	ETAHours   float64
	Mode       string
}

// Quoter orchestrates one prediction per request: resolve coordinates,
// compute distance, gate on order eligibility, price via the trained model
// with rule-engine fallback, and append a history record before returning.
type Quoter struct {
	origin    Point
	rules     *RuleEngine
	predictor *Predictor // nil when model artifacts are absent
	geocoder  Geocoder   // nil when no geocoding service is configured
	store     db.Store
}

// NewQuoter wires the orchestrator. predictor and geocoder may be nil; the
// corresponding paths then degrade per policy (rule-based pricing, and
// geocoding failures for address-only requests).
func NewQuoter(origin Point, rules *RuleEngine, predictor *Predictor, geocoder Geocoder, store db.Store) (*Quoter, error) {
	if err := origin.Validate(); err != nil {
		return nil, fmt.Errorf("origin point: %w", err)
	}
	if rules == nil {
		return nil, errors.New("rule engine is required")
	}
	return &Quoter{
		origin:    origin,
		rules:     rules,
		predictor: predictor,
		geocoder:  geocoder,
		store:     store,
	}, nil
}

// Origin returns the fixed shop origin point.
func (q *Quoter) Origin() Point {
	return q.origin
}

// ModelLoaded reports whether the trained-model path is active.
func (q *Quoter) ModelLoaded() bool {
	return q.predictor != nil
}

// Quote runs the per-request state machine. Terminal errors map onto the
// service error taxonomy: ErrInvalidCoordinate, ErrMissingLocation,
// ErrGeocodingFailed and ErrBelowMinimumOrder are caller-facing; model
// failures are recovered internally and never escape.
func (q *Quoter) Quote(ctx context.Context, params QuoteParams) (Quote, error) {
	region := params.Region
	if region == "" {
		region = DefaultRegion
	}

	dest, err := q.resolvePoint(ctx, params, region)
	if err != nil {
		return Quote{}, err
	}

	distanceKm, err := Distance(q.origin, dest)
	if err != nil {
		return Quote{}, err
	}

	at := params.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	quote := Quote{
		DistanceKm: Round2(distanceKm),
		ETAHours:   Round2(q.rules.ETA(region, distanceKm)),
		Mode:       ModeETAOnly,
	}

	if params.OrderTotal != nil {
		// The eligibility gate precedes every pricing branch, model
		// included. It only applies when an order total is present; an
		// ETA-only request has nothing to gate.
		if err := q.rules.CheckEligibility(*params.OrderTotal); err != nil {
			return Quote{}, err
		}

		price, mode := q.price(region, distanceKm, *params.OrderTotal, at)
		price = Round2(price)
		quote.PriceKsh = &price
		quote.Mode = mode
	}

	if err := q.record(ctx, at, dest, region, quote); err != nil {
		return Quote{}, fmt.Errorf("record prediction: %w", err)
	}

	return quote, nil
}

// resolvePoint prefers explicit coordinates and falls back to geocoding the
// address (or region label) when they are absent.
func (q *Quoter) resolvePoint(ctx context.Context, params QuoteParams, region string) (Point, error) {
	if params.Latitude != nil && params.Longitude != nil {
		dest := Point{Latitude: *params.Latitude, Longitude: *params.Longitude}
		if err := dest.Validate(); err != nil {
			return Point{}, err
		}
		return dest, nil
	}

	address := params.Address
	if address == "" && region != DefaultRegion {
		address = region
	}
	if address == "" {
		return Point{}, ErrMissingLocation
	}
	if q.geocoder == nil {
		return Point{}, fmt.Errorf("%w: no geocoding service configured", ErrGeocodingFailed)
	}

	dest, err := q.geocoder.Geocode(ctx, address)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %s", ErrGeocodingFailed, address)
	}
	return dest, nil
}

// price attempts the trained model first and downgrades to the rule engine
// on unavailability or failure. The returned mode always names the path
// that produced the number.
func (q *Quoter) price(region string, distanceKm, orderTotal float64, at time.Time) (float64, string) {
	// Free shipping preempts the model: the threshold is a business
	// promise, not a prediction input.
	if q.rules.FreeShipping(orderTotal) {
		return 0, ModeRuleBased
	}

	price, err := q.predictor.Predict(distanceKm, region, at)
	if err == nil {
		return price, ModeAIModel
	}

	if !errors.Is(err, ErrModelUnavailable) {
		log.Warn().Err(err).Str("region", region).Float64("distance_km", distanceKm).
			Msg("model prediction failed, falling back to rule engine")
	}

	// The gate already passed, so the rule engine cannot refuse here.
	rulePrice, ruleErr := q.rules.Price(region, distanceKm, orderTotal)
	if ruleErr != nil {
		rulePrice = 0
	}
	return rulePrice, ModeRuleBased
}

func (q *Quoter) record(ctx context.Context, at time.Time, dest Point, region string, quote Quote) error {
	var price pgtype.Float8
	if quote.PriceKsh != nil {
		price = pgtype.Float8{Float64: *quote.PriceKsh, Valid: true}
	}
	_, err := q.store.CreateShippingRecord(ctx, db.CreateShippingRecordParams{
		Timestamp:         at,
		Latitude:          dest.Latitude,
		Longitude:         dest.Longitude,
		Region:            region,
		DistanceKm:        quote.DistanceKm,
		PredictedPriceKsh: price,
		PredictedEtaHours: pgtype.Float8{Float64: quote.ETAHours, Valid: true},
	})
	return err
}
