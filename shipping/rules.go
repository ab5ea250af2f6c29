package shipping

import (
	"errors"
	"strings"
)

// Distance bands (km) and ETA values (hours) for the deterministic rule
// table. The 1.8 km band is the shop's walkable short-trip radius.
const (
	shortTripKm = 1.8
	midTripKm   = 5.0

	etaShortTripHours = 0.5
	etaMidTripHours   = 1.0
	etaLongTripHours  = 1.5
	etaOtherZoneHours = 6.0
)

// ErrBelowMinimumOrder is returned when the order total does not meet the
// configured minimum delivery order value. The gate applies before any
// pricing branch, including free shipping.
var ErrBelowMinimumOrder = errors.New("order total below minimum delivery order")

// PricingParams are the named pricing parameters loaded once at startup.
type PricingParams struct {
	HomeRegion            string
	RatePerKmHome         float64
	BaseFee               float64
	FlatRateOthers        float64
	MinOrderValue         float64
	FreeShippingThreshold float64
	ZoneSurcharge         float64
}

// RuleEngine prices deliveries from a fixed decision table keyed on region
// classification, distance bands and order total. It is the fallback when
// no trained model is loaded, and it always supplies the ETA.
type RuleEngine struct {
	params PricingParams
}

// NewRuleEngine creates a rule engine with the given parameters.
func NewRuleEngine(params PricingParams) *RuleEngine {
	return &RuleEngine{params: params}
}

// IsHomeRegion reports whether a region label belongs to the shop's home
// delivery zone. Matching is a case-insensitive substring test so that
// labels like "Nairobi West" or "nairobi" classify as home.
func (e *RuleEngine) IsHomeRegion(label string) bool {
	return strings.Contains(strings.ToLower(label), strings.ToLower(e.params.HomeRegion))
}

// FreeShipping reports whether the order total clears the free-shipping
// threshold. It preempts every pricing path, trained model included.
func (e *RuleEngine) FreeShipping(orderTotal float64) bool {
	return orderTotal >= e.params.FreeShippingThreshold
}

// CheckEligibility applies the minimum-order gate. It must run before any
// pricing branch; an ineligible order is refused outright rather than
// priced at zero.
func (e *RuleEngine) CheckEligibility(orderTotal float64) error {
	if orderTotal < e.params.MinOrderValue {
		return ErrBelowMinimumOrder
	}
	return nil
}

// Price returns the rule-based price in KSh, rounded to 2 decimal places.
func (e *RuleEngine) Price(region string, distanceKm, orderTotal float64) (float64, error) {
	if err := e.CheckEligibility(orderTotal); err != nil {
		return 0, err
	}

	if orderTotal >= e.params.FreeShippingThreshold {
		return 0, nil
	}

	if e.IsHomeRegion(region) {
		if distanceKm <= shortTripKm {
			return Round2(e.params.BaseFee), nil
		}
		return Round2(e.params.BaseFee + (distanceKm-shortTripKm)*e.params.RatePerKmHome), nil
	}

	return Round2(e.params.FlatRateOthers + e.params.ZoneSurcharge), nil
}

// ETA returns the estimated delivery time in hours. The trained model never
// supplies an ETA, so this policy applies on both pricing paths.
func (e *RuleEngine) ETA(region string, distanceKm float64) float64 {
	if !e.IsHomeRegion(region) {
		return etaOtherZoneHours
	}
	switch {
	case distanceKm <= shortTripKm:
		return etaShortTripHours
	case distanceKm <= midTripKm:
		return etaMidTripHours
	default:
		return etaLongTripHours
	}
}
