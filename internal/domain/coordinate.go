package domain

import "math"

// Coordinate is a WGS 84 latitude/longitude pair in degrees, as received
// from the device location source. Values are not normalized.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsFinite reports whether both components are usable numbers.
func (c Coordinate) IsFinite() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lng) && !math.IsInf(c.Lng, 0)
}
