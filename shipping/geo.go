package shipping

import (
	"errors"
	"fmt"
	"math"
)

// earthRadiusKm is the mean earth radius used by the Haversine formula.
const earthRadiusKm = 6371.0

// ErrInvalidCoordinate is returned when a latitude or longitude is outside
// its valid range or not a finite number.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinate ranges: latitude in [-90, 90],
// longitude in [-180, 180].
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) ||
		p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, p.Latitude)
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) ||
		p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, p.Longitude)
	}
	return nil
}

// Distance computes the great-circle distance between two points in
// kilometers using the Haversine formula.
func Distance(from, to Point) (float64, error) {
	if err := from.Validate(); err != nil {
		return 0, err
	}
	if err := to.Validate(); err != nil {
		return 0, err
	}

	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	deltaLat := toRadians(to.Latitude - from.Latitude)
	deltaLng := toRadians(to.Longitude - from.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

// Round2 rounds a value to 2 decimal places. All monetary amounts,
// distances and ETAs are surfaced and recorded with this precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
